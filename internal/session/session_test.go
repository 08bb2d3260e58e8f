package session

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/verte-zerg/hantui/internal/item"
)

type recorded struct {
	key   string
	score int
	mode  Mode
}

type recorder struct {
	results []recorded
}

func (r *recorder) record(key string, score int, mode Mode) {
	r.results = append(r.results, recorded{key: key, score: score, mode: mode})
}

func answers(m map[string]string) AnswerFunc {
	return func(it item.Item) (string, bool) {
		a, ok := m[it.TargetWord]
		return a, ok
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestTranscribeCorrectOnSecondAttempt(t *testing.T) {
	rec := &recorder{}
	s := New([]string{"好|你好|你好"}, ModeTranscribe, Config{},
		rec.record, answers(map[string]string{"好": "ni3 hao3"}), testRand())

	if out := s.Submit("ni3 hao4"); out != OutcomeRetry {
		t.Fatalf("first submit outcome = %v, want retry", out)
	}
	if s.Attempts() != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts())
	}
	if len(rec.results) != 0 {
		t.Fatalf("no result should be recorded on a retry")
	}
	if out := s.Submit("nǐ hǎo"); out != OutcomeCorrect {
		t.Fatalf("second submit outcome = %v, want correct", out)
	}
	if s.Status() != StatusItemComplete {
		t.Fatalf("status = %v, want item-complete", s.Status())
	}
	if len(rec.results) != 1 || rec.results[0].score != ScorePass {
		t.Fatalf("results = %+v, want one pass", rec.results)
	}
	if out := s.Continue(); out != OutcomeComplete {
		t.Fatalf("continue outcome = %v, want complete", out)
	}
}

func TestTranscribeThreeFailures(t *testing.T) {
	rec := &recorder{}
	s := New([]string{"好|你好|你好", "口|谢谢|谢谢"}, ModeTranscribe, Config{},
		rec.record, answers(map[string]string{"好": "ni3 hao3", "口": "xie4 xie5"}), testRand())

	for i := 0; i < 2; i++ {
		if out := s.Submit("wrong1"); out != OutcomeRetry {
			t.Fatalf("submit %d outcome = %v, want retry", i, out)
		}
	}
	if out := s.Submit("wrong1"); out != OutcomeWrong {
		t.Fatalf("third submit outcome = %v, want wrong", out)
	}
	// Exactly one failing result and one mistake append.
	if len(rec.results) != 1 || rec.results[0].score != ScoreFail {
		t.Fatalf("results = %+v, want one fail", rec.results)
	}
	if out := s.Submit("wrong1"); out != OutcomeNone {
		t.Fatalf("submit in wrong phase outcome = %v, want none", out)
	}
	if out := s.Continue(); out != OutcomeAdvanced {
		t.Fatalf("continue outcome = %v, want advanced", out)
	}

	// Second item passes; the first item comes back in a review round.
	if out := s.Submit("xie4 xie"); out != OutcomeCorrect {
		t.Fatalf("second item submit outcome = %v, want correct", out)
	}
	if out := s.Continue(); out != OutcomeAdvanced {
		t.Fatalf("expected a review round, session ended")
	}
	if s.Round() != 2 || s.Len() != 1 {
		t.Fatalf("round = %d len = %d, want review round of 1", s.Round(), s.Len())
	}
	cur, _ := s.Item()
	if cur.TargetWord != "好" {
		t.Fatalf("review item = %q, want 好", cur.TargetWord)
	}
	if out := s.Submit("ni3hao3"); out != OutcomeCorrect {
		t.Fatalf("review submit outcome = %v, want correct", out)
	}
	if out := s.Continue(); out != OutcomeComplete {
		t.Fatalf("session should finish after a clean review round")
	}
	if len(rec.results) != 3 {
		t.Fatalf("expected 3 recorded results, got %d", len(rec.results))
	}
}

func TestTranscribeDegradesWithoutAnswer(t *testing.T) {
	rec := &recorder{}
	s := New([]string{"好|你好|你好"}, ModeTranscribe, Config{}, rec.record, nil, testRand())
	if out := s.Submit("anything"); out != OutcomeCorrect {
		t.Fatalf("unresolved target should accept non-empty input, got %v", out)
	}
	if out := s.Continue(); out != OutcomeComplete {
		t.Fatalf("continue outcome = %v, want complete", out)
	}
}

func TestSubmitIgnoresEmptyInput(t *testing.T) {
	s := New([]string{"好|你好|你好"}, ModeTranscribe, Config{}, nil,
		answers(map[string]string{"好": "hao3"}), testRand())
	if out := s.Submit("   "); out != OutcomeNone {
		t.Fatalf("blank submit outcome = %v, want none", out)
	}
	if s.Attempts() != 0 {
		t.Fatalf("blank submit must not consume an attempt")
	}
}

func TestDrillPipeline(t *testing.T) {
	rec := &recorder{}
	s := New([]string{"人|你好|你好，世界"}, ModeDrill, Config{Repetitions: 2},
		rec.record, nil, testRand())

	if s.Phase() != PhasePractice {
		t.Fatalf("initial phase = %v, want practice", s.Phase())
	}
	if out := s.RepDone(); out != OutcomeRetry {
		t.Fatalf("first rep outcome = %v, want retry", out)
	}
	if out := s.RepDone(); out != OutcomeAdvanced {
		t.Fatalf("last rep outcome = %v, want advanced", out)
	}
	if s.Phase() != PhaseTranscribe {
		t.Fatalf("phase after reps = %v, want transcribe", s.Phase())
	}

	if out := s.Submit(""); out != OutcomeNone {
		t.Fatalf("empty transcription must not advance")
	}
	if out := s.Submit("ni hao shi jie"); out != OutcomeAdvanced {
		t.Fatalf("transcription check outcome = %v", out)
	}
	if s.Phase() != PhaseProduce || s.Confirming() {
		t.Fatalf("phase = %v confirming = %v, want produce/recording", s.Phase(), s.Confirming())
	}

	if out := s.TimerDone(); out != OutcomeRetry || !s.Confirming() {
		t.Fatalf("first timer must start the confirmation window")
	}
	if out := s.TimerDone(); out != OutcomeAdvanced {
		t.Fatalf("second timer must end the produce phase")
	}
	if s.Phase() != PhaseAssemble {
		t.Fatalf("phase = %v, want assemble", s.Phase())
	}

	// Place every unit in canonical order, then check.
	cur, _ := s.Item()
	for _, want := range cur.Units {
		pool := s.Pool()
		idx := -1
		for i, u := range pool {
			if u == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("unit %q missing from pool %v", want, pool)
		}
		if out := s.Select(idx); out != OutcomeRetry {
			t.Fatalf("select outcome = %v", out)
		}
	}
	if out := s.Check(); out != OutcomeComplete {
		t.Fatalf("check outcome = %v, want complete", out)
	}
	if len(rec.results) != 1 || rec.results[0].score != ScorePass || rec.results[0].mode != ModeDrill {
		t.Fatalf("results = %+v, want one drill pass", rec.results)
	}
}

func TestAssembleFailureReshufflesWithoutLoss(t *testing.T) {
	s := New([]string{"人|你好|你好，世界"}, ModeDrill, Config{Repetitions: 1}, nil, nil, testRand())
	s.RepDone()
	s.Submit("x")
	s.TimerDone()
	s.TimerDone()

	cur, _ := s.Item()
	canonical := append([]string(nil), cur.Units...)

	// Place everything in pool order; with a wrong order the check fails.
	for len(s.Pool()) > 0 {
		s.Select(0)
	}
	placedWrong := strings.Join(s.Placed(), "") != cur.Sentence()
	out := s.Check()
	if !placedWrong {
		// The shuffle may legitimately produce the canonical order.
		if out != OutcomeComplete {
			t.Fatalf("canonical placement outcome = %v, want complete", out)
		}
		return
	}
	if out != OutcomeRetry {
		t.Fatalf("failed check outcome = %v, want retry", out)
	}
	if len(s.Placed()) != 0 {
		t.Fatalf("failed check must clear placements")
	}
	pool := append([]string(nil), s.Pool()...)
	sort.Strings(pool)
	want := append([]string(nil), canonical...)
	sort.Strings(want)
	if strings.Join(pool, "") != strings.Join(want, "") {
		t.Fatalf("reshuffle lost units: %v vs %v", pool, want)
	}

	// Undo keeps the partition intact.
	s.Select(0)
	if out := s.Undo(); out != OutcomeRetry {
		t.Fatalf("undo outcome = %v", out)
	}
	if len(s.Placed()) != 0 || len(s.Pool()) != len(canonical) {
		t.Fatalf("undo broke the pool partition")
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		s := New([]string{"人|你好|你好，世界"}, ModeDrill, Config{Repetitions: 1}, nil, nil, rnd)
		s.RepDone()
		s.Submit("x")
		s.TimerDone()
		s.TimerDone()
		cur, _ := s.Item()
		pool := append([]string(nil), s.Pool()...)
		sort.Strings(pool)
		want := append([]string(nil), cur.Units...)
		sort.Strings(want)
		if strings.Join(pool, " ") != strings.Join(want, " ") {
			t.Fatalf("seed %d: shuffle changed multiset: %v vs %v", seed, pool, want)
		}
	}
}

func TestTimerIgnoredAfterExit(t *testing.T) {
	s := New([]string{"人|你好|你好"}, ModeDrill, Config{Repetitions: 1}, nil, nil, testRand())
	s.RepDone()
	s.Submit("x")
	s.Exit()
	if out := s.TimerDone(); out != OutcomeNone {
		t.Fatalf("timer after exit outcome = %v, want none", out)
	}
	if !s.Done() {
		t.Fatalf("exited session must report done")
	}
}

func TestExitRecordsNothing(t *testing.T) {
	rec := &recorder{}
	s := New([]string{"好|你好|你好"}, ModeTranscribe, Config{},
		rec.record, answers(map[string]string{"好": "hao3"}), testRand())
	s.Submit("wrong1")
	s.Exit()
	if len(rec.results) != 0 {
		t.Fatalf("exit must not record the in-progress item: %+v", rec.results)
	}
	if out := s.Submit("hao3"); out != OutcomeNone {
		t.Fatalf("actions after exit must be ignored")
	}
}

func TestEmptyEntriesFinishImmediately(t *testing.T) {
	s := New(nil, ModeTranscribe, Config{}, nil, nil, testRand())
	if !s.Done() || s.Status() != StatusComplete {
		t.Fatalf("empty session should be complete at start")
	}
}
