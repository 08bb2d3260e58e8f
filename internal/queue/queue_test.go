package queue

import (
	"testing"

	"github.com/verte-zerg/hantui/internal/item"
)

func items(words ...string) []item.Item {
	out := make([]item.Item, 0, len(words))
	for _, w := range words {
		out = append(out, item.Item{Raw: w, TargetWord: w})
	}
	return out
}

func TestCleanPassFinishes(t *testing.T) {
	q := New(items("一", "二", "三"))
	for i := 0; i < 2; i++ {
		if st := q.Advance(); st != StatusActive {
			t.Fatalf("advance %d: status = %v, want active", i, st)
		}
	}
	if st := q.Advance(); st != StatusFinished {
		t.Fatalf("final advance: status = %v, want finished", st)
	}
	if _, ok := q.Current(); ok {
		t.Fatalf("finished queue still serves an item")
	}
}

func TestReviewRoundKeepsFailureOrder(t *testing.T) {
	q := New(items("一", "二", "三"))
	first, _ := q.Current()

	// Fail items one and three; item order in the review round must be
	// failure order, not original order.
	q.RecordMistake(first)
	q.Advance()
	q.Advance()
	third, _ := q.Current()
	q.RecordMistake(third)

	if st := q.Advance(); st != StatusActive {
		t.Fatalf("expected review round, got %v", st)
	}
	if q.Round() != 2 {
		t.Fatalf("round = %d, want 2", q.Round())
	}
	if q.Len() != 2 || q.Index() != 0 {
		t.Fatalf("review round len=%d index=%d", q.Len(), q.Index())
	}
	if len(q.Mistakes()) != 0 {
		t.Fatalf("mistakes not cleared at round start")
	}
	cur, _ := q.Current()
	if cur.TargetWord != "一" {
		t.Fatalf("first review item = %q, want 一", cur.TargetWord)
	}
	q.Advance()
	cur, _ = q.Current()
	if cur.TargetWord != "三" {
		t.Fatalf("second review item = %q, want 三", cur.TargetWord)
	}
}

func TestReviewRoundsRepeatUntilClean(t *testing.T) {
	q := New(items("一"))
	for round := 1; round <= 3; round++ {
		cur, ok := q.Current()
		if !ok {
			t.Fatalf("round %d: no current item", round)
		}
		q.RecordMistake(cur)
		if st := q.Advance(); st != StatusActive {
			t.Fatalf("round %d: expected another review round", round)
		}
	}
	if st := q.Advance(); st != StatusFinished {
		t.Fatalf("clean pass should finish, got %v", st)
	}
}

func TestEmptyQueueIsFinished(t *testing.T) {
	q := New(nil)
	if q.Status() != StatusFinished {
		t.Fatalf("empty queue status = %v, want finished", q.Status())
	}
	if st := q.Advance(); st != StatusFinished {
		t.Fatalf("advance on finished queue = %v", st)
	}
}
