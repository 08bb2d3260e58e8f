package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/hantui/internal/model"
	"github.com/verte-zerg/hantui/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "hantui.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	ids := []string{"s1", "s2", "s3"}
	for i, id := range ids {
		end := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		if err := st.InsertResult(ctx, model.Result{
			SessionID:  id,
			RecordedAt: end,
			ItemKey:    "好",
			Score:      100,
			Mode:       "transcribe",
		}); err != nil {
			t.Fatalf("insert result: %v", err)
		}
		if err := st.InsertSession(ctx, model.SessionRecord{
			ID:        id,
			StartedAt: end.Add(-time.Minute),
			EndedAt:   end,
			Lesson:    "hsk1",
			Mode:      "transcribe",
			Items:     1,
			Rounds:    1,
			Passed:    1,
		}); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	cfg := model.StatsConfig{Lesson: "hsk1", Last: 2, CurveWindow: 1}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != "s2" || report.Sessions[1].SessionID != "s3" {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != "s3" {
		t.Fatalf("unexpected window ids: %v", report.WindowSessionIDs)
	}
	if len(report.ItemAggsAll) == 0 || report.ItemAggsAll[0].Results != 2 {
		t.Fatalf("unexpected all aggregates: %+v", report.ItemAggsAll)
	}
	if len(report.ItemAggsWindow) == 0 || report.ItemAggsWindow[0].Results != 1 {
		t.Fatalf("unexpected window aggregates: %+v", report.ItemAggsWindow)
	}
}
