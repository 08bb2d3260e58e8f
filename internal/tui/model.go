package tui

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/hantui/internal/content"
	"github.com/verte-zerg/hantui/internal/item"
	"github.com/verte-zerg/hantui/internal/model"
	"github.com/verte-zerg/hantui/internal/pinyin"
	"github.com/verte-zerg/hantui/internal/session"
	"github.com/verte-zerg/hantui/internal/store"
)

// Model implements the Bubble Tea transcription practice UI.
type Model struct {
	config  model.Config
	store   *store.Store
	sess    *session.Session
	lesson  string
	answers map[string]string
	info    map[string]content.CharInfo

	input textinput.Model

	sessionID string
	startedAt time.Time
	items     int
	passed    int
	failed    int

	width  int
	height int

	finished bool
}

// NewModel constructs a transcription practice model over the given entries.
// answers maps item keys to resolved phonetic targets; items missing from it
// are graded leniently. info carries optional per-unit metadata for display.
func NewModel(cfg model.Config, st *store.Store, entries []string, lesson string, answers map[string]string, info map[string]content.CharInfo, rnd *rand.Rand) *Model {
	m := &Model{
		config:    cfg,
		store:     st,
		lesson:    lesson,
		answers:   answers,
		info:      info,
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
	}

	ti := textinput.New()
	ti.Placeholder = "pinyin"
	ti.Prompt = "> "
	ti.Focus()
	m.input = ti

	sessCfg := session.Config{
		Attempts:    cfg.Attempts,
		Repetitions: cfg.Repetitions,
		RecordWait:  cfg.RecordWait,
		ConfirmWait: cfg.ConfirmWait,
	}
	m.sess = session.New(entries, session.ModeTranscribe, sessCfg, m.recordResult, m.resolveAnswer, rnd)
	m.items = m.sess.Len()
	if m.sess.Done() {
		m.finished = true
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.sess.Exit()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.finished {
		return m, tea.Quit
	}
	switch m.sess.Phase() {
	case session.PhaseIdle:
		outcome := m.sess.Submit(m.input.Value())
		if outcome == session.OutcomeRetry {
			m.input.SetValue("")
		}
	case session.PhaseCorrect, session.PhaseWrong:
		outcome := m.sess.Continue()
		m.input.SetValue("")
		if outcome == session.OutcomeComplete {
			m.finishSession()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return centered(m.width, m.height, m.renderSummary())
	}
	cur, ok := m.sess.Item()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(phraseStyle.Render(cur.DisplayPhrase))
	b.WriteString("\n")
	if hint := m.renderHint(cur.TargetWord); hint != "" {
		b.WriteString(hint)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.sess.Phase() {
	case session.PhaseIdle:
		b.WriteString(m.input.View())
		if m.sess.Attempts() > 0 {
			left := m.sess.Config().Attempts - m.sess.Attempts()
			b.WriteString("\n")
			b.WriteString(wrongStyle.Render(fmt.Sprintf("try again (%d left)", left)))
		}
	case session.PhaseCorrect:
		b.WriteString(passStyle.Render("correct"))
		b.WriteString("  ")
		b.WriteString(hintStyle.Render(m.answerDiacritic()))
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("enter to continue"))
	case session.PhaseWrong:
		b.WriteString(failStyle.Render("wrong"))
		b.WriteString("  ")
		b.WriteString(hintStyle.Render("answer: " + m.answerDiacritic()))
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("requeued for review, enter to continue"))
	}

	screen := b.String()
	footer := progressFooter(m.lesson, m.sess.Round(), m.sess.Index(), m.sess.Len())
	if m.width == 0 || m.height < 3 {
		return screen + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, screen)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHint(target string) string {
	if m.info == nil {
		return ""
	}
	var parts []string
	for _, r := range target {
		ci, ok := m.info[string(r)]
		if !ok {
			continue
		}
		seg := string(r)
		if ci.Radical != "" {
			seg += " " + ci.Radical
		}
		if ci.Strokes > 0 {
			seg += fmt.Sprintf(" %d strokes", ci.Strokes)
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return ""
	}
	return hintStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) answerDiacritic() string {
	ans, ok := m.sess.Answer()
	if !ok {
		return m.sess.LastInput()
	}
	return pinyin.ToDiacritic(ans)
}

func (m *Model) renderSummary() string {
	var b strings.Builder
	b.WriteString(phraseStyle.Render("session complete"))
	b.WriteString("\n\n")
	b.WriteString(passStyle.Render(fmt.Sprintf("passed %d", m.passed)))
	b.WriteString("  ")
	b.WriteString(failStyle.Render(fmt.Sprintf("failed %d", m.failed)))
	if rounds := m.sess.Round(); rounds > 1 {
		b.WriteString("  ")
		b.WriteString(footerStyle.Render(fmt.Sprintf("%d review rounds", rounds-1)))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("enter to quit"))
	return b.String()
}

func (m *Model) resolveAnswer(it item.Item) (string, bool) {
	ans, ok := m.answers[it.Key()]
	return ans, ok
}

func (m *Model) recordResult(key string, score int, mode session.Mode) {
	if score >= session.ScorePass {
		m.passed++
	} else {
		m.failed++
	}
	res := model.Result{
		SessionID:  m.sessionID,
		RecordedAt: time.Now(),
		ItemKey:    key,
		Score:      score,
		Mode:       string(mode),
	}
	if err := m.store.InsertResult(context.Background(), res); err != nil {
		logErrf("failed to save result: %v\n", err)
	}
}

func (m *Model) finishSession() {
	m.finished = true
	rec := model.SessionRecord{
		ID:        m.sessionID,
		StartedAt: m.startedAt,
		EndedAt:   time.Now(),
		Lesson:    m.lesson,
		Mode:      string(m.sess.Mode()),
		Items:     m.items,
		Rounds:    m.sess.Round(),
		Passed:    m.passed,
		Failed:    m.failed,
	}
	if err := m.store.InsertSession(context.Background(), rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
