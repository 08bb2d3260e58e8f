// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/hantui/internal/model"
)

const sparkChars = " .:-=+*#%@"

// PassRate computes the fraction of passed items for a session.
func PassRate(passed, failed int) float64 {
	total := passed + failed
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total)
}

// ItemAccuracy computes the pass fraction for an item aggregate.
func ItemAccuracy(agg model.ItemAggregate) float64 {
	if agg.Results == 0 {
		return 1.0
	}
	return float64(agg.Passed) / float64(agg.Results)
}

// ItemAvgScore computes the mean recorded score for an item aggregate.
func ItemAvgScore(agg model.ItemAggregate) float64 {
	if agg.Results == 0 {
		return 0
	}
	return float64(agg.ScoreSum) / float64(agg.Results)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TerminalWidth returns the stdout terminal width, or fallback when stdout
// is not a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalRate float64
	bestRate := 0.0
	totalRounds := 0
	for _, s := range sessions {
		rate := PassRate(s.Passed, s.Failed)
		totalRate += rate
		if rate > bestRate {
			bestRate = rate
		}
		totalRounds += s.Rounds
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Pass Rate: %.1f%%\n", (totalRate/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Pass Rate: %.1f%%\n", bestRate*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Rounds: %.1f\n", float64(totalRounds)/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurve prints the pass-rate learning curve as a sparkline.
func RenderCurve(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) == 0 {
		return nil
	}
	rates := make([]float64, len(sessions))
	for i, s := range sessions {
		rates[i] = PassRate(s.Passed, s.Failed) * 100
	}
	rates = MovingAverage(rates, window)
	if _, err := fmt.Fprintln(w, "Pass Rate Curve"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", Sparkline(rates)); err != nil {
		return err
	}
	return nil
}

// RenderItemTable prints per-item aggregates, worst accuracy first.
func RenderItemTable(w io.Writer, aggs []model.ItemAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No item stats found.")
		return err
	}
	rows := make([]model.ItemAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := ItemAccuracy(rows[i]), ItemAccuracy(rows[j])
		if ai == aj {
			return rows[i].ItemKey < rows[j].ItemKey
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Item (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Item", "Accuracy", "Avg Score", "Passed", "Failed"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.ItemKey,
			fmt.Sprintf("%.1f%%", ItemAccuracy(r)*100),
			fmt.Sprintf("%.1f", ItemAvgScore(r)),
			fmt.Sprintf("%d", r.Passed),
			fmt.Sprintf("%d", r.Failed),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
