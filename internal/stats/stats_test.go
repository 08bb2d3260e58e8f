package stats

import (
	"strings"
	"testing"

	"github.com/verte-zerg/hantui/internal/model"
)

func TestPassRate(t *testing.T) {
	if got := PassRate(3, 1); got != 0.75 {
		t.Fatalf("PassRate(3,1) = %v", got)
	}
	if got := PassRate(0, 0); got != 0 {
		t.Fatalf("PassRate(0,0) = %v", got)
	}
}

func TestItemAccuracy(t *testing.T) {
	agg := model.ItemAggregate{ItemKey: "好", Results: 4, Passed: 3, Failed: 1, ScoreSum: 300}
	if got := ItemAccuracy(agg); got != 0.75 {
		t.Fatalf("accuracy = %v", got)
	}
	if got := ItemAvgScore(agg); got != 75 {
		t.Fatalf("avg score = %v", got)
	}
	if got := ItemAccuracy(model.ItemAggregate{}); got != 1.0 {
		t.Fatalf("empty aggregate accuracy = %v, want 1", got)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("moving average = %v, want %v", out, want)
		}
	}
	out = MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 should copy values, got %v", out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty sparkline = %q", got)
	}
	got := Sparkline([]float64{0, 5, 10})
	if len(got) != 3 {
		t.Fatalf("sparkline length = %d", len(got))
	}
	if got[0] != ' ' || got[2] != '@' {
		t.Fatalf("sparkline = %q", got)
	}
	flat := Sparkline([]float64{2, 2, 2})
	if len(flat) != 3 || flat[0] != flat[1] {
		t.Fatalf("flat sparkline = %q", flat)
	}
}

func TestSelectWeakItems(t *testing.T) {
	aggs := []model.ItemAggregate{
		{ItemKey: "好", Results: 4, Passed: 4},
		{ItemKey: "人", Results: 4, Passed: 1, Failed: 3},
		{ItemKey: "口", Results: 4, Passed: 2, Failed: 2},
	}
	weak := SelectWeakItems(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak items, got %v", weak)
	}
	if _, ok := weak["人"]; !ok {
		t.Fatalf("worst item missing from weak set: %v", weak)
	}
	if _, ok := weak["口"]; !ok {
		t.Fatalf("second-worst item missing from weak set: %v", weak)
	}
}

func TestFormatTableAlignsCJK(t *testing.T) {
	lines := formatTable(
		[]string{"Item", "Passed"},
		[][]string{
			{"好", "1"},
			{"xx", "10"},
		},
		map[int]bool{1: true},
	)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %v", lines)
	}
	// "好" is two cells wide, so both rows share the gutter column.
	if !strings.HasSuffix(lines[2], " 1") || !strings.HasSuffix(lines[3], "10") {
		t.Fatalf("right alignment broken: %q / %q", lines[2], lines[3])
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(b.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", b.String())
	}
}

func TestRenderItemTable(t *testing.T) {
	var b strings.Builder
	aggs := []model.ItemAggregate{
		{ItemKey: "好", Results: 2, Passed: 2, ScoreSum: 200},
		{ItemKey: "人", Results: 2, Passed: 0, Failed: 2},
	}
	if err := RenderItemTable(&b, aggs); err != nil {
		t.Fatalf("render item table: %v", err)
	}
	out := b.String()
	haoIdx := strings.Index(out, "好")
	renIdx := strings.Index(out, "人")
	if renIdx < 0 || haoIdx < 0 || renIdx > haoIdx {
		t.Fatalf("worst item should come first:\n%s", out)
	}
}
