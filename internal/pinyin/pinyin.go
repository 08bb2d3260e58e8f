// Package pinyin converts tone-numbered pinyin into diacritic form and
// compares phonetic strings regardless of format.
package pinyin

import (
	"strings"
)

// marks holds the tone-marked forms per vowel, index 0 = tone 1 ... 3 = tone 4.
var marks = map[rune][4]rune{
	'a': {'ā', 'á', 'ǎ', 'à'},
	'e': {'ē', 'é', 'ě', 'è'},
	'i': {'ī', 'í', 'ǐ', 'ì'},
	'o': {'ō', 'ó', 'ǒ', 'ò'},
	'u': {'ū', 'ú', 'ǔ', 'ù'},
	'ü': {'ǖ', 'ǘ', 'ǚ', 'ǜ'},
}

type markedVowel struct {
	base rune
	tone int
}

// unmark is the reverse mapping from a tone-marked vowel to its base and tone.
var unmark = buildUnmark()

func buildUnmark() map[rune]markedVowel {
	m := make(map[rune]markedVowel, len(marks)*4)
	for base, forms := range marks {
		for i, form := range forms {
			m[form] = markedVowel{base: base, tone: i + 1}
		}
	}
	return m
}

// Token is a single phonetic syllable: base letters plus a tone 1-5,
// where 5 is the neutral (unmarked) tone.
type Token struct {
	Letters string
	Tone    int
}

// NeutralTone is the tone assigned when no digit or mark is present.
const NeutralTone = 5

// ToDiacritic rewrites every tone-numbered token in s into its diacritic
// form. Tokens are separated by whitespace and rejoined with single spaces.
// Tokens that do not match the letters-plus-optional-digit pattern pass
// through verbatim.
func ToDiacritic(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = toDiacriticToken(field)
	}
	return strings.Join(out, " ")
}

func toDiacriticToken(token string) string {
	letters, tone, ok := splitNumbered(token)
	if !ok {
		return token
	}
	if tone == NeutralTone {
		return letters
	}
	runes := []rune(letters)
	idx := vowelIndex(runes)
	if idx < 0 {
		return letters
	}
	runes[idx] = marks[runes[idx]][tone-1]
	return string(runes)
}

// splitNumbered parses a tone-numbered token into folded base letters and a
// tone. The token must be letters (a-z, v, u:, ü, case-insensitive) followed
// by an optional digit 1-5; anything else fails the match.
func splitNumbered(token string) (string, int, bool) {
	lower := foldLetters(strings.ToLower(token))
	if lower == "" {
		return "", 0, false
	}
	runes := []rune(lower)
	tone := NeutralTone
	last := runes[len(runes)-1]
	if last >= '1' && last <= '5' {
		tone = int(last - '0')
		runes = runes[:len(runes)-1]
	}
	if len(runes) == 0 {
		return "", 0, false
	}
	for _, r := range runes {
		if (r < 'a' || r > 'z') && r != 'ü' {
			return "", 0, false
		}
	}
	return string(runes), tone, true
}

// foldLetters maps the ASCII stand-ins "v" and "u:" to "ü".
func foldLetters(s string) string {
	s = strings.ReplaceAll(s, "u:", "ü")
	return strings.ReplaceAll(s, "v", "ü")
}

// vowelIndex picks the vowel to carry the tone mark: the first "a", else the
// first "e", else the "o" of "ou", else the last vowel scanning from the end.
func vowelIndex(runes []rune) int {
	for i, r := range runes {
		if r == 'a' {
			return i
		}
	}
	for i, r := range runes {
		if r == 'e' {
			return i
		}
	}
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] == 'o' && runes[i+1] == 'u' {
			return i
		}
	}
	for i := len(runes) - 1; i >= 0; i-- {
		if isVowel(runes[i]) {
			return i
		}
	}
	return -1
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'ü':
		return true
	}
	return false
}

// Equal reports whether a and b denote the same phonetic string. Comparison
// is case-, whitespace-, and format-insensitive: a numbered form, a diacritic
// form, and a mix of both compare equal when they describe the same sounds.
// Empty input on either side is never equal.
func Equal(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return true
	}
	if normalize(ToDiacritic(a)) == normalize(ToDiacritic(b)) {
		return true
	}
	// Spacing can move a tone mark onto a different syllable vowel
	// ("ni3 hao3" vs "nihao3"), so the last resort compares base letters
	// and the run-collapsed tone sequence.
	la, ta := signature(a)
	lb, tb := signature(b)
	if la == "" || la != lb {
		return false
	}
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	joined := strings.Join(strings.Fields(strings.ToLower(s)), "")
	return foldLetters(joined)
}

// signature strips all tone information from s, returning the folded base
// letters and the ordered tone sequence with consecutive duplicates collapsed.
func signature(s string) (string, []int) {
	var letters strings.Builder
	var tones []int
	for _, r := range foldLetters(strings.ToLower(strings.Join(strings.Fields(s), ""))) {
		switch {
		case r >= '1' && r <= '5':
			if t := int(r - '0'); t != NeutralTone {
				tones = appendTone(tones, t)
			}
		default:
			if mv, ok := unmark[r]; ok {
				letters.WriteRune(mv.base)
				tones = appendTone(tones, mv.tone)
				continue
			}
			letters.WriteRune(r)
		}
	}
	return letters.String(), tones
}

func appendTone(tones []int, t int) []int {
	if len(tones) > 0 && tones[len(tones)-1] == t {
		return tones
	}
	return append(tones, t)
}

// ParseTokens splits a phonetic phrase on whitespace into tokens. Numbered
// fields keep their digit as the tone; diacritic fields are reverse-mapped;
// fields without tone information default to the neutral tone.
func ParseTokens(s string) []Token {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, parseToken(field))
	}
	return tokens
}

func parseToken(field string) Token {
	if letters, tone, ok := splitNumbered(field); ok {
		return Token{Letters: letters, Tone: tone}
	}
	var letters strings.Builder
	tone := NeutralTone
	for _, r := range foldLetters(strings.ToLower(field)) {
		if mv, ok := unmark[r]; ok {
			letters.WriteRune(mv.base)
			if tone == NeutralTone {
				tone = mv.tone
			}
			continue
		}
		letters.WriteRune(r)
	}
	return Token{Letters: letters.String(), Tone: tone}
}
