package stats

import (
	"sort"

	"github.com/verte-zerg/hantui/internal/model"
)

// SelectWeakItems selects the lowest-accuracy item keys from aggregates.
func SelectWeakItems(aggs []model.ItemAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.ItemAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := ItemAccuracy(candidates[i])
		aj := ItemAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].ItemKey < candidates[j].ItemKey
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		if candidates[i].ItemKey != "" {
			weakSet[candidates[i].ItemKey] = struct{}{}
		}
	}
	return weakSet
}
