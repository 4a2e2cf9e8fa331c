package demo

import (
	"context"
	"fmt"
)

// LambdaReport records what the closure demo observed.
type LambdaReport struct {
	Immediate   string
	Greeting    string
	Typed       string
	ByValue     int
	ByReference int
	OuterAfter  int
	AllByValue  [2]int
	RefI        int
	AllByRefI   int
	AllByRefJ   int
	StoredCalls int
}

// Closures walks through the ways a func literal can be built, called and
// bind the variables around it.
func Closures() LambdaReport {
	var r LambdaReport

	// called on the spot
	func(n int) {
		r.Immediate = fmt.Sprintf("New value: %d", n)
	}(123)

	func() {}()

	r.Greeting = func() string {
		return "Hello from closure!"
	}()

	// the result type is always spelled out in Go
	r.Typed = func() string {
		return "Hello from typed closure!"
	}()

	threshold := 50

	// a copy taken through a parameter keeps the value it had at bind time
	byValue := func(t int) func() int {
		return func() int { return t }
	}(threshold)
	byReference := func() int { return threshold }

	threshold = 75
	r.ByValue = byValue()
	r.ByReference = byReference()
	r.OuterAfter = threshold

	i := 1
	// copying everything the closure needs
	func(threshold, i int) {
		r.AllByValue = [2]int{threshold, i}
	}(threshold, i)

	// free variables are shared with the enclosing function
	func() {
		i = 1
	}()
	r.RefI = i

	j := 2
	func() {
		i = 11
		j = 22
	}()
	r.AllByRefI, r.AllByRefJ = i, j

	stored := func() {
		r.StoredCalls++
	}
	stored()
	stored()

	return r
}

// Lambda prints what Closures observed.
func Lambda(ctx context.Context, env *Env) error {
	r := Closures()

	env.Console.Println(r.Immediate)
	env.Console.Println(r.Greeting)
	env.Console.Println(r.Typed)
	env.Console.Printf("captured by value : %d, by reference : %d\n", r.ByValue, r.ByReference)
	env.Console.Printf("%d, %d\n", r.AllByValue[0], r.AllByValue[1])
	env.Console.Printf("after reference capture i=%d j=%d\n", r.AllByRefI, r.AllByRefJ)
	env.Console.Printf("stored closure called %d times\n", r.StoredCalls)
	return nil
}
