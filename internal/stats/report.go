package stats

import (
	"context"

	"github.com/verte-zerg/hantui/internal/model"
	"github.com/verte-zerg/hantui/internal/store"
)

// Report bundles the data behind the stats views.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []string
	ItemAggsAll      []model.ItemAggregate
	ItemAggsWindow   []model.ItemAggregate
}

// BuildReport loads sessions and item aggregates per the stats config.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := make([]string, len(sessions))
	for i, s := range sessions {
		allIDs[i] = s.SessionID
	}
	windowIDs := allIDs
	if cfg.CurveWindow > 0 && len(windowIDs) > cfg.CurveWindow {
		windowIDs = windowIDs[len(windowIDs)-cfg.CurveWindow:]
	}

	aggsAll, err := st.ListItemAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := st.ListItemAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		ItemAggsAll:      aggsAll,
		ItemAggsWindow:   aggsWindow,
	}, nil
}
