package picker

import (
	"math/rand"
	"testing"
)

func TestPickKeepsLessonOrderByDefault(t *testing.T) {
	p := NewWithRand(rand.New(rand.NewSource(1)))
	entries := []string{"一", "二", "三"}
	got := p.Pick(entries, 0)
	if len(got) != 3 {
		t.Fatalf("expected all entries, got %v", got)
	}
	for i, e := range entries {
		if got[i] != e {
			t.Fatalf("order changed: %v", got)
		}
	}
}

func TestPickDrawsFromEntries(t *testing.T) {
	p := NewWithRand(rand.New(rand.NewSource(2)))
	entries := []string{"一|一|一", "二|二|二"}
	got := p.Pick(entries, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 draws, got %d", len(got))
	}
	allowed := map[string]struct{}{entries[0]: {}, entries[1]: {}}
	for _, e := range got {
		if _, ok := allowed[e]; !ok {
			t.Fatalf("draw %q not from entries", e)
		}
	}
}

func TestPickWeightedBiasesWeakItems(t *testing.T) {
	p := NewWithRand(rand.New(rand.NewSource(3)))
	entries := []string{"人|你好|你好", "口|谢谢|谢谢"}
	weak := map[string]struct{}{"口": {}}
	counts := map[string]int{}
	for _, e := range p.PickWeighted(entries, 2000, weak, 50) {
		counts[e]++
	}
	if counts[entries[1]] <= counts[entries[0]] {
		t.Fatalf("weak entry not favored: %v", counts)
	}
}

func TestPickWeightedWithoutWeakSetFallsBack(t *testing.T) {
	p := NewWithRand(rand.New(rand.NewSource(4)))
	entries := []string{"一", "二"}
	got := p.PickWeighted(entries, 0, nil, 2)
	if len(got) != 2 || got[0] != "一" {
		t.Fatalf("expected plain pick fallback, got %v", got)
	}
}
