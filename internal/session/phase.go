// Package session drives one practice session: the per-item phase state
// machine, the mistake-driven queue, and result recording.
package session

// Mode selects the game variant.
type Mode string

const (
	// ModeTranscribe is the simple grading loop: type the pinyin for the
	// shown phrase, three attempts, mistake requeue.
	ModeTranscribe Mode = "transcribe"
	// ModeDrill is the compound pipeline: practice, transcribe, produce,
	// assemble, strictly in order, no mistake requeue.
	ModeDrill Mode = "drill"
)

// Phase is the state of the active item.
type Phase int

const (
	// PhaseIdle awaits a transcription submit in the simple loop.
	PhaseIdle Phase = iota
	// PhaseCorrect shows a passed item until the learner continues.
	PhaseCorrect
	// PhaseWrong shows a failed item until the learner continues.
	PhaseWrong
	// PhasePractice repeats the writing sub-task a fixed number of times.
	PhasePractice
	// PhaseTranscribe accepts any non-empty transcription plus a check.
	PhaseTranscribe
	// PhaseProduce runs the timed record wait and confirm wait.
	PhaseProduce
	// PhaseAssemble rebuilds the sentence from the shuffled unit pool.
	PhaseAssemble
	// PhaseDone is terminal.
	PhaseDone
)

// String returns the human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseCorrect:
		return "Correct"
	case PhaseWrong:
		return "Wrong"
	case PhasePractice:
		return "Practice"
	case PhaseTranscribe:
		return "Transcribe"
	case PhaseProduce:
		return "Produce"
	case PhaseAssemble:
		return "Assemble"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Status is the coarse session state exposed to the presentation layer.
type Status int

const (
	// StatusActive means the current item still needs learner actions.
	StatusActive Status = iota
	// StatusItemComplete means the item is graded and awaits continue.
	StatusItemComplete
	// StatusComplete means the session is over.
	StatusComplete
)

// Outcome describes the effect of a learner action.
type Outcome int

const (
	// OutcomeNone means the action did not apply in the current phase.
	OutcomeNone Outcome = iota
	// OutcomeRetry means the attempt failed but the item is still live.
	OutcomeRetry
	// OutcomeCorrect means the item was graded as passed.
	OutcomeCorrect
	// OutcomeWrong means the retry ceiling was reached.
	OutcomeWrong
	// OutcomeAdvanced means the session moved to a new phase or item.
	OutcomeAdvanced
	// OutcomeComplete means the session finished.
	OutcomeComplete
)
