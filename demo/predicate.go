package demo

import (
	"context"

	"github.com/BeameryHQ/async-callbacks/predicate"
)

var predicateInput = []int{3, 2, 6, 9, 1, 5}

// SortBothWays sorts a copy of values ascending, then sorts that result again
// with descending.
func SortBothWays(values []int, descending predicate.Less) (asc, desc []int) {
	sorted := make([]int, len(values))
	copy(sorted, values)

	predicate.Sort(sorted, predicate.Ascending)
	asc = make([]int, len(sorted))
	copy(asc, sorted)

	predicate.Sort(sorted, descending)
	return asc, sorted
}

func Predicate(ctx context.Context, env *Env) error {
	asc, desc := SortBothWays(predicateInput, predicate.Comparer{}.Less)
	env.Console.Printf("increasing : %v\ndecreasing : %v\n", asc, desc)
	return nil
}

func LambdaAsPredicate(ctx context.Context, env *Env) error {
	asc, desc := SortBothWays(predicateInput, func(a, b int) bool {
		return a > b
	})
	env.Console.Printf("increasing : %v\ndecreasing : %v\n", asc, desc)
	return nil
}
