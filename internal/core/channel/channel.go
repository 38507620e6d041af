// Package channel defines the fixed paid-media channel enumeration and the
// total-map container used for every per-channel value in the optimization
// core (priors, allocations, variances, confidences, ...).
package channel

import "sort"

// Channel is one of the four paid-media surfaces the core allocates budget
// across. The set is fixed; adding a channel is a typed change to this file,
// not a runtime concern (see SPEC_FULL.md §9).
type Channel string

const (
	Google   Channel = "google"
	Meta     Channel = "meta"
	Tiktok   Channel = "tiktok"
	Linkedin Channel = "linkedin"
)

// All is the fixed, ordered channel set. Order is used wherever a stable
// lexicographic tie-break is required (§4.2).
var All = [...]Channel{Google, Linkedin, Meta, Tiktok}

// Valid reports whether c is one of the fixed channels.
func Valid(c Channel) bool {
	for _, v := range All {
		if v == c {
			return true
		}
	}
	return false
}

// Map is a total mapping Channel -> T. Every exported constructor in this
// package returns a Map with all four channels present; callers must not
// construct a partial one by hand when a total map is required.
type Map[T any] map[Channel]T

// NewMap builds a Map with every fixed channel set to fill(c).
func NewMap[T any](fill func(Channel) T) Map[T] {
	m := make(Map[T], len(All))
	for _, c := range All {
		m[c] = fill(c)
	}
	return m
}

// Complete reports whether m has exactly the fixed channel set, no more, no
// fewer.
func (m Map[T]) Complete() bool {
	if len(m) != len(All) {
		return false
	}
	for _, c := range All {
		if _, ok := m[c]; !ok {
			return false
		}
	}
	return true
}

// Keys returns the channels present in m, in the fixed lexicographic order
// of All.
func Keys[T any](m Map[T]) []Channel {
	keys := make([]Channel, 0, len(m))
	for _, c := range All {
		if _, ok := m[c]; ok {
			keys = append(keys, c)
		}
	}
	return keys
}

// SortedStrings returns the given channels as their string values, in a
// deterministic (lexicographic) order, used for stable tie-breaks.
func SortedStrings(cs []Channel) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	sort.Strings(out)
	return out
}
