// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import "fmt"

// Set is an insertion-ordered collection without duplicates. Two
// elements are duplicates when they have the same dynamic type and
// print the same with %v, which lets sets hold values (such as tuples)
// that are not comparable with ==.
type Set struct {
	values []any
	index  map[string]struct{}
}

// NewSet returns a set holding values with duplicates dropped; the
// first occurrence keeps its position.
func NewSet(values ...any) *Set {
	set := &Set{index: make(map[string]struct{}, len(values))}
	for _, value := range values {
		set.Add(value)
	}
	return set
}

// Add inserts value unless an equal value is present. It reports
// whether the set changed.
func (s *Set) Add(value any) bool {
	key := setKey(value)
	if _, exists := s.index[key]; exists {
		return false
	}
	s.index[key] = struct{}{}
	s.values = append(s.values, value)
	return true
}

// Contains reports whether an equal value is in the set.
func (s *Set) Contains(value any) bool {
	_, exists := s.index[setKey(value)]
	return exists
}

// Len returns the number of distinct values.
func (s *Set) Len() int { return len(s.values) }

// Values returns the distinct values in insertion order. The returned
// slice is a copy.
func (s *Set) Values() []any {
	return append([]any(nil), s.values...)
}

func setKey(value any) string {
	return fmt.Sprintf("%T:%v", value, value)
}
