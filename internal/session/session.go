package session

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/hantui/internal/item"
	"github.com/verte-zerg/hantui/internal/pinyin"
	"github.com/verte-zerg/hantui/internal/queue"
)

// Fixed grading scores.
const (
	ScorePass = 100
	ScoreFail = 0
)

// Config carries the session policy knobs. Zero values fall back to the
// defaults below.
type Config struct {
	Attempts    int           // failed submits before an item is marked wrong
	Repetitions int           // practice copies per item in the drill
	RecordWait  time.Duration // produce phase: recording window
	ConfirmWait time.Duration // produce phase: confirmation window
}

// Defaults for Config fields left at zero.
const (
	DefaultAttempts    = 3
	DefaultRepetitions = 3
	DefaultRecordWait  = 4 * time.Second
	DefaultConfirmWait = time.Second
)

func (c Config) withDefaults() Config {
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.Repetitions <= 0 {
		c.Repetitions = DefaultRepetitions
	}
	if c.RecordWait <= 0 {
		c.RecordWait = DefaultRecordWait
	}
	if c.ConfirmWait <= 0 {
		c.ConfirmWait = DefaultConfirmWait
	}
	return c
}

// RecordFunc receives one graded outcome. Delivery is fire-and-forget; the
// sink owns durability.
type RecordFunc func(key string, score int, mode Mode)

// AnswerFunc resolves the phonetic target for an item. ok is false when the
// content lookup could not provide one; grading then degrades to accepting
// any non-empty input so a failed lookup never stalls the session.
type AnswerFunc func(it item.Item) (answer string, ok bool)

// Session is the top-level driver for one practice run. All state
// transitions happen synchronously in response to a single learner action;
// the session owns its queue exclusively and is not safe for concurrent use.
type Session struct {
	mode   Mode
	cfg    Config
	queue  *queue.Queue
	record RecordFunc
	answer AnswerFunc
	rnd    *rand.Rand

	phase     Phase
	attempts  int
	reps      int
	lastInput string

	confirming bool // produce phase reached the confirmation window

	pool   []int // unit indices still in the source pool, display order
	placed []int // unit indices placed into the target area, in order

	exited bool
}

// New parses the raw entries and starts a session over them. record and
// answer may be nil; rnd may be nil to use a time-seeded source.
func New(entries []string, mode Mode, cfg Config, record RecordFunc, answer AnswerFunc, rnd *rand.Rand) *Session {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		mode:   mode,
		cfg:    cfg.withDefaults(),
		queue:  queue.New(item.ParseAll(entries)),
		record: record,
		answer: answer,
		rnd:    rnd,
	}
	if s.queue.Status() == queue.StatusFinished {
		s.phase = PhaseDone
		return s
	}
	s.startItem()
	return s
}

// Mode returns the game variant.
func (s *Session) Mode() Mode { return s.mode }

// Config returns the effective policy values.
func (s *Session) Config() Config { return s.cfg }

// Phase returns the phase of the active item.
func (s *Session) Phase() Phase { return s.phase }

// Status maps the phase onto the coarse session status.
func (s *Session) Status() Status {
	switch {
	case s.Done():
		return StatusComplete
	case s.phase == PhaseCorrect || s.phase == PhaseWrong:
		return StatusItemComplete
	default:
		return StatusActive
	}
}

// Done reports whether the session finished or was exited.
func (s *Session) Done() bool {
	return s.exited || s.phase == PhaseDone
}

// Item returns the item under the cursor.
func (s *Session) Item() (item.Item, bool) {
	return s.queue.Current()
}

// Round, Index, and Len expose queue progress for the presentation layer.
func (s *Session) Round() int { return s.queue.Round() }
func (s *Session) Index() int { return s.queue.Index() }
func (s *Session) Len() int   { return s.queue.Len() }

// Attempts returns the failed submits on the current item.
func (s *Session) Attempts() int { return s.attempts }

// Reps returns the completed practice repetitions on the current item.
func (s *Session) Reps() int { return s.reps }

// LastInput returns the most recent learner submission.
func (s *Session) LastInput() string { return s.lastInput }

// Confirming reports whether the produce phase is in its confirmation window.
func (s *Session) Confirming() bool { return s.confirming }

// Answer resolves the phonetic target for the current item.
func (s *Session) Answer() (string, bool) {
	cur, ok := s.queue.Current()
	if !ok || s.answer == nil {
		return "", false
	}
	return s.answer(cur)
}

// Pool returns the source-pool units in display order.
func (s *Session) Pool() []string {
	return s.unitsAt(s.pool)
}

// Placed returns the placed units in placement order.
func (s *Session) Placed() []string {
	return s.unitsAt(s.placed)
}

func (s *Session) unitsAt(idx []int) []string {
	cur, ok := s.queue.Current()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, cur.Units[i])
	}
	return out
}

// Submit grades a transcription. In the simple loop the input is compared
// phonetically against the resolved target; in the drill any non-empty
// input passes.
func (s *Session) Submit(input string) Outcome {
	if s.Done() {
		return OutcomeNone
	}
	switch s.phase {
	case PhaseIdle:
		return s.gradeSubmit(input)
	case PhaseTranscribe:
		if strings.TrimSpace(input) == "" {
			return OutcomeNone
		}
		s.lastInput = input
		s.enterProduce()
		return OutcomeAdvanced
	default:
		return OutcomeNone
	}
}

func (s *Session) gradeSubmit(input string) Outcome {
	if strings.TrimSpace(input) == "" {
		return OutcomeNone
	}
	cur, ok := s.queue.Current()
	if !ok {
		return OutcomeNone
	}
	s.lastInput = input
	correct := true
	if target, resolved := s.Answer(); resolved {
		correct = pinyin.Equal(input, target)
	}
	if correct {
		s.emit(cur.Key(), ScorePass)
		s.phase = PhaseCorrect
		return OutcomeCorrect
	}
	s.attempts++
	if s.attempts >= s.cfg.Attempts {
		s.emit(cur.Key(), ScoreFail)
		s.queue.RecordMistake(cur)
		s.phase = PhaseWrong
		return OutcomeWrong
	}
	return OutcomeRetry
}

// Continue advances past a graded item. It applies only in the Correct and
// Wrong phases.
func (s *Session) Continue() Outcome {
	if s.Done() {
		return OutcomeNone
	}
	if s.phase != PhaseCorrect && s.phase != PhaseWrong {
		return OutcomeNone
	}
	return s.advanceItem()
}

// RepDone signals one completed practice repetition in the drill. After the
// configured count the item auto-advances to the transcribe phase.
func (s *Session) RepDone() Outcome {
	if s.Done() || s.phase != PhasePractice {
		return OutcomeNone
	}
	s.reps++
	if s.reps < s.cfg.Repetitions {
		return OutcomeRetry
	}
	s.phase = PhaseTranscribe
	s.lastInput = ""
	return OutcomeAdvanced
}

// TimerDone signals that a produce-phase wait elapsed. The first call ends
// the recording window, the second ends the confirmation window and moves
// to assembly. Calls outside the produce phase are ignored, which is what
// makes a timer that fires after Exit harmless.
func (s *Session) TimerDone() Outcome {
	if s.Done() || s.phase != PhaseProduce {
		return OutcomeNone
	}
	if !s.confirming {
		s.confirming = true
		return OutcomeRetry
	}
	s.enterAssemble()
	return OutcomeAdvanced
}

// Select moves the source-pool unit at poolIdx into the target area.
func (s *Session) Select(poolIdx int) Outcome {
	if s.Done() || s.phase != PhaseAssemble {
		return OutcomeNone
	}
	if poolIdx < 0 || poolIdx >= len(s.pool) {
		return OutcomeNone
	}
	s.placed = append(s.placed, s.pool[poolIdx])
	s.pool = append(s.pool[:poolIdx], s.pool[poolIdx+1:]...)
	return OutcomeRetry
}

// Undo moves the most recently placed unit back to the source pool.
func (s *Session) Undo() Outcome {
	if s.Done() || s.phase != PhaseAssemble || len(s.placed) == 0 {
		return OutcomeNone
	}
	last := s.placed[len(s.placed)-1]
	s.placed = s.placed[:len(s.placed)-1]
	s.pool = append(s.pool, last)
	return OutcomeRetry
}

// Check compares the placed units, in placement order, against the
// canonical sentence order. Success completes the item; failure reshuffles
// the pool and the learner retries without limit or mistake recording.
func (s *Session) Check() Outcome {
	if s.Done() || s.phase != PhaseAssemble {
		return OutcomeNone
	}
	cur, ok := s.queue.Current()
	if !ok {
		return OutcomeNone
	}
	if strings.Join(s.Placed(), "") == cur.Sentence() && len(s.pool) == 0 {
		s.emit(cur.Key(), ScorePass)
		return s.advanceItem()
	}
	s.enterAssemble()
	return OutcomeRetry
}

// Exit abandons the session. Nothing is recorded for the in-progress item
// and any pending timer transition becomes a no-op.
func (s *Session) Exit() {
	s.exited = true
}

func (s *Session) advanceItem() Outcome {
	if s.queue.Advance() == queue.StatusFinished {
		s.phase = PhaseDone
		return OutcomeComplete
	}
	s.startItem()
	return OutcomeAdvanced
}

func (s *Session) startItem() {
	s.attempts = 0
	s.reps = 0
	s.lastInput = ""
	s.confirming = false
	s.pool = nil
	s.placed = nil
	if s.mode == ModeDrill {
		s.phase = PhasePractice
		return
	}
	s.phase = PhaseIdle
}

func (s *Session) enterProduce() {
	s.phase = PhaseProduce
	s.confirming = false
}

func (s *Session) enterAssemble() {
	s.phase = PhaseAssemble
	cur, _ := s.queue.Current()
	s.pool = shuffledIndices(s.rnd, len(cur.Units))
	s.placed = nil
}

func (s *Session) emit(key string, score int) {
	if s.record == nil {
		return
	}
	s.record(key, score, s.mode)
}
