package game

import "time"

// Game configuration constants
const (
	MaxGuesses    = 6 // Maximum number of guesses per session
	MinWordLength = 3
	MaxWordLength = 8
)

// LetterState classifies a single letter of a guess.
type LetterState string

const (
	LetterCorrect LetterState = "correct"
	LetterPresent LetterState = "present"
	LetterAbsent  LetterState = "absent"
	LetterEmpty   LetterState = "empty"
	LetterTBD     LetterState = "tbd"
)

// rank orders keyboard precedence: correct > present > absent > unseen.
func (s LetterState) rank() int {
	switch s {
	case LetterCorrect:
		return 3
	case LetterPresent:
		return 2
	case LetterAbsent:
		return 1
	default:
		return 0
	}
}

// Outranks reports whether s takes precedence over other for keyboard display.
func (s LetterState) Outranks(other LetterState) bool {
	return s.rank() > other.rank()
}

// LetterEvaluation is a single letter's evaluation against the target.
// Produced only by Evaluate, never hand-constructed elsewhere.
type LetterEvaluation struct {
	Letter string      `json:"letter"`
	State  LetterState `json:"state"`
}

// Guess is a submitted word plus its per-letter evaluation, immutable once
// appended to the session history.
type Guess struct {
	Word       string             `json:"word"`
	Evaluation []LetterEvaluation `json:"evaluation"`
}

// SessionStatus is the session lifecycle state. Won and lost are terminal.
type SessionStatus string

const (
	StatusPlaying SessionStatus = "playing"
	StatusWon     SessionStatus = "won"
	StatusLost    SessionStatus = "lost"
)

// SessionSnapshot is the persisted form of a Session. The keyboard map is
// deliberately absent: it is derived state, recomputed from the guess history
// on restore.
type SessionSnapshot struct {
	TargetWord     string        `json:"targetWord"`
	Guesses        []Guess       `json:"guesses"`
	CurrentGuess   string        `json:"currentGuess"`
	Status         SessionStatus `json:"status"`
	StartTime      *time.Time    `json:"startTime"`
	EndTime        *time.Time    `json:"endTime"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
	DateKey        string        `json:"dateKey"`
}
