package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/hantui/internal/model"
	"github.com/verte-zerg/hantui/internal/session"
	"github.com/verte-zerg/hantui/internal/store"
)

// produceTickMsg fires when a produce-phase wait elapses. gen guards against
// ticks scheduled for an item the learner already left.
type produceTickMsg struct {
	gen int
}

// DrillModel implements the Bubble Tea deep-drill UI: repeated writing,
// transcription, timed spoken production, and sentence assembly per item.
type DrillModel struct {
	config model.Config
	store  *store.Store
	sess   *session.Session
	lesson string

	input textinput.Model

	sessionID string
	startedAt time.Time
	items     int
	passed    int
	failed    int

	width  int
	height int

	cursor   int
	timerGen int
	repMiss  bool

	finished bool
}

// NewDrillModel constructs a drill model over the given entries.
func NewDrillModel(cfg model.Config, st *store.Store, entries []string, lesson string, rnd *rand.Rand) *DrillModel {
	m := &DrillModel{
		config:    cfg,
		store:     st,
		lesson:    lesson,
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	m.input = ti

	sessCfg := session.Config{
		Attempts:    cfg.Attempts,
		Repetitions: cfg.Repetitions,
		RecordWait:  cfg.RecordWait,
		ConfirmWait: cfg.ConfirmWait,
	}
	m.sess = session.New(entries, session.ModeDrill, sessCfg, m.recordResult, nil, rnd)
	m.items = m.sess.Len()
	if m.sess.Done() {
		m.finished = true
	}
	return m
}

// Init implements tea.Model.
func (m *DrillModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *DrillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case produceTickMsg:
		return m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *DrillModel) handleTick(msg produceTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.timerGen {
		return m, nil
	}
	switch m.sess.TimerDone() {
	case session.OutcomeRetry:
		return m, m.scheduleTick(m.sess.Config().ConfirmWait)
	case session.OutcomeAdvanced:
		m.cursor = 0
	}
	return m, nil
}

func (m *DrillModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.sess.Exit()
		m.timerGen++
		return m, tea.Quit
	}
	if m.finished {
		if msg.Type == tea.KeyEnter {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.sess.Phase() {
	case session.PhasePractice, session.PhaseTranscribe:
		if msg.Type == tea.KeyEnter {
			return m.handleEnter()
		}
	case session.PhaseAssemble:
		return m.handleAssembleKey(msg)
	case session.PhaseProduce:
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *DrillModel) handleEnter() (tea.Model, tea.Cmd) {
	cur, ok := m.sess.Item()
	if !ok {
		return m, nil
	}
	switch m.sess.Phase() {
	case session.PhasePractice:
		if strings.TrimSpace(m.input.Value()) != cur.TargetWord {
			m.repMiss = true
			m.input.SetValue("")
			return m, nil
		}
		m.repMiss = false
		m.sess.RepDone()
		m.input.SetValue("")
	case session.PhaseTranscribe:
		if m.sess.Submit(m.input.Value()) == session.OutcomeAdvanced {
			m.input.SetValue("")
			return m, m.scheduleTick(m.sess.Config().RecordWait)
		}
	}
	return m, nil
}

func (m *DrillModel) handleAssembleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	poolLen := len(m.sess.Pool())
	switch msg.Type {
	case tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight:
		if m.cursor < poolLen-1 {
			m.cursor++
		}
	case tea.KeySpace:
		m.sess.Select(m.cursor)
		if left := len(m.sess.Pool()); m.cursor >= left && left > 0 {
			m.cursor = left - 1
		}
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.Undo()
	case tea.KeyEnter:
		switch m.sess.Check() {
		case session.OutcomeComplete:
			m.finishSession()
		case session.OutcomeRetry, session.OutcomeAdvanced:
			m.cursor = 0
			m.input.SetValue("")
		}
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "l":
			if m.cursor < poolLen-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *DrillModel) scheduleTick(wait time.Duration) tea.Cmd {
	m.timerGen++
	gen := m.timerGen
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return produceTickMsg{gen: gen}
	})
}

// View implements tea.Model.
func (m *DrillModel) View() string {
	if m.finished {
		return centered(m.width, m.height, m.renderSummary())
	}
	cur, ok := m.sess.Item()
	if !ok {
		return ""
	}

	var b strings.Builder
	switch m.sess.Phase() {
	case session.PhasePractice:
		b.WriteString(accentStyle.Render(cur.TargetWord))
		b.WriteString("\n\n")
		done := m.sess.Reps()
		total := m.sess.Config().Repetitions
		b.WriteString(hintStyle.Render(fmt.Sprintf("write it (%d/%d)", done, total)))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		if m.repMiss {
			b.WriteString("\n")
			b.WriteString(wrongStyle.Render("not a match, try again"))
		}
	case session.PhaseTranscribe:
		b.WriteString(phraseStyle.Render(cur.DisplayPhrase))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("type the pinyin"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case session.PhaseProduce:
		b.WriteString(phraseStyle.Render(cur.Sentence()))
		b.WriteString("\n\n")
		if m.sess.Confirming() {
			b.WriteString(accentStyle.Render("check yourself"))
		} else {
			b.WriteString(accentStyle.Render("say it aloud"))
		}
	case session.PhaseAssemble:
		b.WriteString(hintStyle.Render("rebuild the sentence"))
		b.WriteString("\n\n")
		placed := m.sess.Placed()
		if len(placed) == 0 {
			b.WriteString(pendingStyle.Render("…"))
		} else {
			b.WriteString(unitRow(placed, -1, m.contentWidth(), placedStyle))
		}
		b.WriteString("\n\n")
		b.WriteString(unitRow(m.sess.Pool(), m.cursor, m.contentWidth(), poolTokenStyle))
		b.WriteString("\n\n")
		b.WriteString(footerStyle.Render("←/→ move · space place · backspace undo · enter check"))
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

func (m *DrillModel) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *DrillModel) renderSummary() string {
	var b strings.Builder
	b.WriteString(phraseStyle.Render("drill complete"))
	b.WriteString("\n\n")
	b.WriteString(passStyle.Render(fmt.Sprintf("items %d", m.passed)))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("enter to quit"))
	return b.String()
}

func (m *DrillModel) recordResult(key string, score int, mode session.Mode) {
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

func (m *DrillModel) finishSession() {
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
