// Package tui provides the Bubble Tea practice interfaces.
package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	wrongStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle    = accentStyle.Copy().Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	phraseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	passStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	failStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	placedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	poolTokenStyle = pendingStyle
)

// unitRow renders unit tokens on wrapped lines, highlighting the token under
// cursor. cursor < 0 disables highlighting. maxWidth <= 0 disables wrapping.
func unitRow(units []string, cursor int, maxWidth int, base lipgloss.Style) string {
	if len(units) == 0 {
		return ""
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for i, unit := range units {
		cellWidth := runewidth.StringWidth(unit) + 1
		if maxWidth > 0 && lineWidth+cellWidth > maxWidth && lineWidth > 0 {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
			lineWidth = 0
		}
		style := base
		if i == cursor {
			style = cursorStyle
		}
		line.WriteString(style.Render(unit))
		line.WriteString(" ")
		lineWidth += cellWidth
	}
	lines = append(lines, strings.TrimRight(line.String(), " "))
	return strings.Join(lines, "\n")
}

// progressFooter formats the shared session footer.
func progressFooter(lesson string, round, index, total int) string {
	var b strings.Builder
	if lesson != "" {
		b.WriteString(lesson)
		b.WriteString("  ")
	}
	if round > 1 {
		b.WriteString("review round ")
		b.WriteString(strconv.Itoa(round - 1))
		b.WriteString("  ")
	}
	b.WriteString("item ")
	b.WriteString(strconv.Itoa(index + 1))
	b.WriteString("/")
	b.WriteString(strconv.Itoa(total))
	return footerStyle.Render(b.String())
}

// centered places content in the given box, falling back to the raw content
// when the size is unknown.
func centered(width, height int, content string) string {
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
