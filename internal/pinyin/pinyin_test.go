package pinyin

import "testing"

func TestToDiacritic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hao3", "hǎo"},
		{"ni3", "nǐ"},
		{"ma1", "mā"},
		{"e4", "è"},
		{"dou1", "dōu"},
		{"liu2", "liú"},
		{"xiong2", "xióng"},
		{"nv3", "nǚ"},
		{"lu:4", "lǜ"},
		{"ma5", "ma"},
		{"ma", "ma"},
		{"HAO3", "hǎo"},
		{"ni3 hao3", "nǐ hǎo"},
		{"  ni3   hao3  ", "nǐ hǎo"},
		{"hǎo", "hǎo"},
		{"hǎo3", "hǎo3"},
		{"123", "123"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ToDiacritic(tc.in); got != tc.want {
			t.Fatalf("ToDiacritic(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToDiacriticNoVowel(t *testing.T) {
	// A matching token without a markable vowel keeps its folded base form.
	if got := ToDiacritic("hmm3"); got != "hmm" {
		t.Fatalf("ToDiacritic(hmm3) = %q, want hmm", got)
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"hao3", "hǎo", true},
		{"hǎo", "hao3", true},
		{"hao3", "hao3", true},
		{"hao3", "hao4", false},
		{"ni3 hao3", "nihao3", true},
		{"ni3 hao3", "ní hǎo", true},
		{"ni3 hao3", "NI3 HAO3", true},
		{"nv3", "nǚ", true},
		{"lu:4", "lv4", true},
		{"ma5", "ma", true},
		{"ma1 ma1", "ma4 ma1", false},
		{"hao3", "", false},
		{"", "hao3", false},
		{"", "", false},
		{"  ", "hao3", false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseTokens(t *testing.T) {
	tokens := ParseTokens("ni3 hǎo ma")
	want := []Token{
		{Letters: "ni", Tone: 3},
		{Letters: "hao", Tone: 3},
		{Letters: "ma", Tone: NeutralTone},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Fatalf("token %d = %+v, want %+v", i, tok, want[i])
		}
	}
	if got := ParseTokens("   "); got != nil {
		t.Fatalf("expected nil tokens for blank input, got %v", got)
	}
}
