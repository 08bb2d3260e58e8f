// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lesson      string
	Items       int
	Attempts    int
	Repetitions int
	RecordWait  time.Duration
	ConfirmWait time.Duration
	FocusWeak   bool
	WeakTop     int
	WeakFactor  float64
	WeakWindow  int
	Endpoint    string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lesson      string
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Items       string
}

// SessionRecord captures a completed practice session.
type SessionRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Lesson    string
	Mode      string
	Items     int
	Rounds    int
	Passed    int
	Failed    int
}

// Result is one graded outcome delivered to the result sink.
type Result struct {
	SessionID  string
	RecordedAt time.Time
	ItemKey    string
	Score      int
	Mode       string
}

// ItemAggregate aggregates results per item across sessions.
type ItemAggregate struct {
	ItemKey  string
	Results  int
	Passed   int
	Failed   int
	ScoreSum int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID string
	EndedAt   time.Time
	Mode      string
	Passed    int
	Failed    int
	Rounds    int
}
