// Package item parses raw practice entries into structured queue items.
package item

import "strings"

// Delimiter separates the word, phrase, and sentence parts of a raw entry.
const Delimiter = "|"

// punctuation lists the sentence marks stripped before deriving units,
// covering both ASCII and full-width CJK forms.
const punctuation = ",.!?;:'\"()[]{}<>…·—，。！？、；：“”‘’（）《》【】"

// Item is one unit of practice. It is immutable once parsed; per-session
// state (attempt counts, shuffle order) lives with the session, not here.
type Item struct {
	Raw           string
	TargetWord    string
	DisplayPhrase string
	Units         []string
}

// Key identifies the item in recorded results.
func (it Item) Key() string {
	return it.TargetWord
}

// Sentence returns the canonical assembly order as a single string.
func (it Item) Sentence() string {
	return strings.Join(it.Units, "")
}

// Parse splits a raw entry on the delimiter into word, phrase, and sentence.
// Entries with fewer than three parts fall back to treating the whole string
// as the sentence, with its first graphic unit as the target word. Parts
// beyond the third are ignored.
func Parse(raw string) Item {
	parts := strings.Split(raw, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	it := Item{Raw: raw}
	if len(parts) >= 3 {
		it.TargetWord = parts[0]
		it.DisplayPhrase = parts[1]
		it.Units = splitUnits(parts[2])
		return it
	}
	whole := strings.TrimSpace(raw)
	it.DisplayPhrase = whole
	it.Units = splitUnits(whole)
	if len(it.Units) > 0 {
		it.TargetWord = it.Units[0]
	} else {
		it.TargetWord = whole
	}
	return it
}

// ParseAll parses a slice of raw entries, skipping blank ones.
func ParseAll(raws []string) []Item {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		items = append(items, Parse(raw))
	}
	return items
}

// splitUnits strips punctuation and whitespace from a sentence and returns
// its graphic units in reading order.
func splitUnits(sentence string) []string {
	var units []string
	for _, r := range sentence {
		if r == ' ' || r == '\t' || r == '　' {
			continue
		}
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		units = append(units, string(r))
	}
	return units
}
