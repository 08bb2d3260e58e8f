package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/hantui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "hantui.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertSessionWithResults(t *testing.T, st *Store, id string, endedAt time.Time, results []model.Result) {
	t.Helper()
	ctx := context.Background()
	passed, failed := 0, 0
	for _, res := range results {
		res.SessionID = id
		res.RecordedAt = endedAt
		if err := st.InsertResult(ctx, res); err != nil {
			t.Fatalf("insert result: %v", err)
		}
		if res.Score >= 100 {
			passed++
		} else {
			failed++
		}
	}
	rec := model.SessionRecord{
		ID:        id,
		StartedAt: endedAt.Add(-time.Minute),
		EndedAt:   endedAt,
		Lesson:    "hsk1",
		Mode:      "transcribe",
		Items:     len(results),
		Rounds:    1,
		Passed:    passed,
		Failed:    failed,
	}
	if err := st.InsertSession(ctx, rec); err != nil {
		t.Fatalf("insert session: %v", err)
	}
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	insertSessionWithResults(t, st, "s1", base.Add(time.Minute), []model.Result{
		{ItemKey: "好", Score: 100, Mode: "transcribe"},
	})
	insertSessionWithResults(t, st, "s2", base.Add(2*time.Minute), []model.Result{
		{ItemKey: "好", Score: 0, Mode: "transcribe"},
	})

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{Lesson: "hsk1"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "s1" || sessions[1].SessionID != "s2" {
		t.Fatalf("sessions not ordered by ended_at: %+v", sessions)
	}

	since := base.Add(90 * time.Second)
	sessions, err = st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions since: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != "s2" {
		t.Fatalf("since filter failed: %+v", sessions)
	}

	sessions, err = st.ListSessions(ctx, model.StatsConfig{Lesson: "other"})
	if err != nil {
		t.Fatalf("list sessions other lesson: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("lesson filter failed: %+v", sessions)
	}
}

func TestGetWeakItemsAggregates(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	insertSessionWithResults(t, st, "s1", base.Add(time.Minute), []model.Result{
		{ItemKey: "好", Score: 0, Mode: "transcribe"},
		{ItemKey: "人", Score: 100, Mode: "transcribe"},
	})
	insertSessionWithResults(t, st, "s2", base.Add(2*time.Minute), []model.Result{
		{ItemKey: "好", Score: 100, Mode: "transcribe"},
	})

	aggs, err := st.GetWeakItems(context.Background(), 10, "hsk1")
	if err != nil {
		t.Fatalf("get weak items: %v", err)
	}
	byKey := map[string]model.ItemAggregate{}
	for _, agg := range aggs {
		byKey[agg.ItemKey] = agg
	}
	hao := byKey["好"]
	if hao.Results != 2 || hao.Passed != 1 || hao.Failed != 1 || hao.ScoreSum != 100 {
		t.Fatalf("unexpected aggregate for 好: %+v", hao)
	}
	if byKey["人"].Passed != 1 {
		t.Fatalf("unexpected aggregate for 人: %+v", byKey["人"])
	}

	if aggs, err := st.GetWeakItems(context.Background(), 0, ""); err != nil || aggs != nil {
		t.Fatalf("window 0 should return nothing, got %v, %v", aggs, err)
	}
}

func TestListItemAggregatesForSessions(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	insertSessionWithResults(t, st, "s1", base.Add(time.Minute), []model.Result{
		{ItemKey: "好", Score: 100, Mode: "transcribe"},
	})
	insertSessionWithResults(t, st, "s2", base.Add(2*time.Minute), []model.Result{
		{ItemKey: "好", Score: 0, Mode: "transcribe"},
	})

	aggs, err := st.ListItemAggregatesForSessions(context.Background(), []string{"s1"})
	if err != nil {
		t.Fatalf("list item aggregates: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Results != 1 || aggs[0].Passed != 1 {
		t.Fatalf("unexpected aggregates %+v", aggs)
	}

	if aggs, err := st.ListItemAggregatesForSessions(context.Background(), nil); err != nil || aggs != nil {
		t.Fatalf("empty id list should return nothing")
	}
}
