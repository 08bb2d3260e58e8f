// Package queue owns the ordered item sequence of one practice session,
// including the mistake list and review-round reloading.
package queue

import "github.com/verte-zerg/hantui/internal/item"

// Status reports whether the queue still has items to serve.
type Status int

const (
	// StatusActive means the cursor points at a valid item.
	StatusActive Status = iota
	// StatusFinished means a full pass completed with no recorded mistakes.
	StatusFinished
)

// Queue holds session items, the cursor, and the accumulated mistakes.
// Mistakes keep failure order, so a review round may reorder items
// relative to the original queue.
type Queue struct {
	items    []item.Item
	index    int
	mistakes []item.Item
	round    int
	status   Status
}

// New builds an active queue over the given items. An empty item list
// yields a finished queue.
func New(items []item.Item) *Queue {
	q := &Queue{}
	q.Reset(items)
	return q
}

// Reset replaces the queue contents and rewinds the cursor.
func (q *Queue) Reset(items []item.Item) {
	q.items = items
	q.index = 0
	q.mistakes = nil
	q.round = 1
	q.status = StatusActive
	if len(items) == 0 {
		q.status = StatusFinished
	}
}

// Current returns the item under the cursor. ok is false once finished.
func (q *Queue) Current() (item.Item, bool) {
	if q.status == StatusFinished || q.index >= len(q.items) {
		return item.Item{}, false
	}
	return q.items[q.index], true
}

// Len returns the number of items in the current round.
func (q *Queue) Len() int {
	return len(q.items)
}

// Index returns the 0-based cursor position within the current round.
func (q *Queue) Index() int {
	return q.index
}

// Round returns the 1-based pass number; 2 and above are review rounds.
func (q *Queue) Round() int {
	return q.round
}

// Mistakes returns the items failed so far this round, in failure order.
func (q *Queue) Mistakes() []item.Item {
	return q.mistakes
}

// Status returns the queue status.
func (q *Queue) Status() Status {
	return q.status
}

// RecordMistake appends it to the mistake list. The cursor does not move;
// the phase decides when to call Advance.
func (q *Queue) RecordMistake(it item.Item) {
	q.mistakes = append(q.mistakes, it)
}

// Advance moves the cursor past the current item. At the end of a pass the
// queue reloads itself from the mistake list for a review round, or becomes
// finished when no mistakes were recorded.
func (q *Queue) Advance() Status {
	if q.status == StatusFinished {
		return StatusFinished
	}
	if q.index < len(q.items)-1 {
		q.index++
		return StatusActive
	}
	if len(q.mistakes) == 0 {
		q.status = StatusFinished
		return StatusFinished
	}
	q.items = q.mistakes
	q.mistakes = nil
	q.index = 0
	q.round++
	return StatusActive
}
