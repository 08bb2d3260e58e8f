// Package picker builds session queues from lesson entries.
package picker

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/hantui/internal/item"
)

// Picker selects lesson entries for a session.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker seeded with the current time.
func New() *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithRand returns a Picker over the provided source.
func NewWithRand(rnd *rand.Rand) *Picker {
	return &Picker{rnd: rnd}
}

// Pick returns count entries drawn uniformly. count <= 0 returns the
// entries unchanged, in lesson order.
func (p *Picker) Pick(entries []string, count int) []string {
	if count <= 0 || len(entries) == 0 {
		return entries
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, entries[p.rnd.Intn(len(entries))])
	}
	return result
}

// PickWeighted draws count entries with a bias toward entries containing
// weak items. Each weak unit in an entry adds factor to its weight.
func (p *Picker) PickWeighted(entries []string, count int, weakSet map[string]struct{}, factor float64) []string {
	if count <= 0 || len(entries) == 0 || len(weakSet) == 0 {
		return p.Pick(entries, count)
	}
	weights := make([]float64, len(entries))
	total := 0.0
	for i, entry := range entries {
		w := 1.0 + float64(weakCount(entry, weakSet))*factor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := p.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, entries[idx])
	}
	return result
}

// weakCount counts how many of the entry's units (and its target word) are
// in the weak set.
func weakCount(entry string, weakSet map[string]struct{}) int {
	it := item.Parse(entry)
	count := 0
	if _, ok := weakSet[it.Key()]; ok {
		count++
	}
	for _, u := range it.Units {
		if _, ok := weakSet[u]; ok {
			count++
		}
	}
	return count
}
