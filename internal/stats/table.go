package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out rows under headers with two-space gutters. Cell
// widths are terminal cell widths, so CJK item keys stay aligned.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	measure := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	formatRow := func(row []string) string {
		cells := make([]string, colCount)
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := widths[i] - runewidth.StringWidth(cell)
			if pad < 0 {
				pad = 0
			}
			if rightAlignCols[i] {
				cells[i] = strings.Repeat(" ", pad) + cell
			} else {
				cells[i] = cell + strings.Repeat(" ", pad)
			}
		}
		return strings.TrimRight(strings.Join(cells, "  "), " ")
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, formatRow(headers))
	separators := make([]string, colCount)
	for i, w := range widths {
		separators[i] = strings.Repeat("-", w)
	}
	lines = append(lines, formatRow(separators))
	for _, row := range rows {
		lines = append(lines, formatRow(row))
	}
	return lines
}
