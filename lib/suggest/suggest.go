// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package suggest produces "did you mean" hints by Levenshtein edit
// distance. Suggestions are advisory: callers embed them in error
// messages and never branch on them.
package suggest

import (
	"cmp"
	"slices"

	"github.com/agext/levenshtein"
)

// DefaultMaxDistance catches the common typos (a transposition, a
// dropped or doubled character) without suggesting unrelated names.
const DefaultMaxDistance = 2

// Match is a candidate together with its distance from the input.
type Match struct {
	Candidate string
	Distance  int
}

// Distance returns the Levenshtein edit distance between a and b:
// the minimum number of single-character insertions, deletions or
// substitutions that turn one into the other.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// Rank returns every distinct candidate within maxDistance of input,
// ordered by ascending distance and then lexicographically. An exact
// match (distance 0) is included.
func Rank(candidates []string, input string, maxDistance int) []Match {
	seen := make(map[string]bool, len(candidates))
	var matches []Match
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true

		distance := Distance(input, candidate)
		if distance <= maxDistance {
			matches = append(matches, Match{Candidate: candidate, Distance: distance})
		}
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if byDistance := cmp.Compare(a.Distance, b.Distance); byDistance != 0 {
			return byDistance
		}
		return cmp.Compare(a.Candidate, b.Candidate)
	})
	return matches
}

// Suggest returns the candidates of [Rank] without their distances.
func Suggest(candidates []string, input string, maxDistance int) []string {
	matches := Rank(candidates, input, maxDistance)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, len(matches))
	for i, match := range matches {
		names[i] = match.Candidate
	}
	return names
}

// Closest returns the best suggestion, if any.
func Closest(candidates []string, input string, maxDistance int) (string, bool) {
	matches := Rank(candidates, input, maxDistance)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Candidate, true
}
