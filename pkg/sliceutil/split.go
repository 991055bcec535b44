// Package sliceutil provides generic slice helpers for the simulation loop.
package sliceutil

import "iter"

// SplitOne partitions s into the element at index i and an iterator over
// every other element, preserving the original relative order (everything
// before i, then everything after). The returned pointer never aliases an
// element yielded by the iterator, so the caller may freely mutate the
// center while reading, or even mutating, the rest one element at a time.
// No copy of s is made.
func SplitOne[T any](s []T, i int) (*T, iter.Seq[*T]) {
	head, tail := s[:i], s[i:]
	center := &tail[0]
	rest := tail[1:]
	return center, func(yield func(*T) bool) {
		for j := range head {
			if !yield(&head[j]) {
				return
			}
		}
		for j := range rest {
			if !yield(&rest[j]) {
				return
			}
		}
	}
}
