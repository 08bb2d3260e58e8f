// Package lesson provides entry filtering helpers.
package lesson

import "unicode"

// FilterFunc returns true when an entry should be kept.
type FilterFunc func(string) bool

// HanFilter keeps entries that contain at least one Han graphic unit,
// rejecting lines that are pure transliteration or markup.
func HanFilter(entry string) bool {
	for _, r := range entry {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// Filter applies fn to entries, preserving order.
func Filter(entries []string, fn FilterFunc) []string {
	if fn == nil {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		if fn(e) {
			out = append(out, e)
		}
	}
	return out
}
