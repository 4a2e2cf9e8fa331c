// Package predicate holds the ordering predicates used to sort values.
//
// A Less reports whether a must come before b. Any strict weak ordering works;
// the package ships the natural order and its inverse.
package predicate

import "sort"

type Less func(a, b int) bool

// Ascending is the natural order.
func Ascending(a, b int) bool {
	return a < b
}

// Comparer orders values from the largest to the smallest.
type Comparer struct{}

func (Comparer) Less(a, b int) bool {
	return a > b
}

// Descending is Comparer as a function value.
var Descending Less = Comparer{}.Less

// Inverse flips the order of less.
func Inverse(less Less) Less {
	return func(a, b int) bool {
		return less(b, a)
	}
}

// Sort orders values in place. Equal values keep their relative order.
func Sort(values []int, less Less) {
	sort.SliceStable(values, func(i, j int) bool {
		return less(values[i], values[j])
	})
}

// IsSorted reports whether no element is out of order according to less.
func IsSorted(values []int, less Less) bool {
	for i := 1; i < len(values); i++ {
		if less(values[i], values[i-1]) {
			return false
		}
	}
	return true
}
