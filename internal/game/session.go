package game

import (
	"errors"
	"log"
	"maps"
	"slices"
	"strings"
	"time"
)

// Validation errors surfaced to the player. Both leave the session unchanged.
var (
	ErrNotEnoughLetters = errors.New("not enough letters")
	ErrNotInWordList    = errors.New("not in word list")
)

// ErrTargetLength is a configuration error: the supplied target word falls
// outside the supported 3-8 letter range. Reported before a session exists.
var ErrTargetLength = errors.New("target word must be 3 to 8 letters")

// Dictionary gates guess submission. Target words are not checked against it;
// target curation is the caller's responsibility.
type Dictionary interface {
	IsValid(word string) bool
}

// Store receives the full session snapshot after every mutation.
type Store interface {
	Save(*SessionSnapshot) error
}

// Recorder is notified exactly when a session transitions into a terminal
// state. A nil recorder (archive replays) skips completion tracking.
type Recorder interface {
	RecordCompletion(dateKey string, guessCount, elapsedSeconds int, won bool)
}

// Deps carries the session's collaborators. Now defaults to time.Now.
type Deps struct {
	Dict     Dictionary
	Store    Store
	Recorder Recorder
	Now      func() time.Time
}

// Session is the authoritative state machine for one calendar day's puzzle.
// All mutations go through AddLetter, DeleteLetter, SubmitGuess and Reset;
// each persists the snapshot before returning.
type Session struct {
	TargetWord     string
	Guesses        []Guess
	CurrentGuess   string
	Status         SessionStatus
	StartTime      *time.Time
	EndTime        *time.Time
	ElapsedSeconds int
	DateKey        string

	dict     Dictionary
	store    Store
	recorder Recorder
	keyboard KeyboardState
	now      func() time.Time
}

// NewSession constructs a fresh session for the given target word and day key.
func NewSession(target, dateKey string, deps Deps) (*Session, error) {
	target = strings.ToUpper(strings.TrimSpace(target))
	if len(target) < MinWordLength || len(target) > MaxWordLength {
		return nil, ErrTargetLength
	}
	s := &Session{
		TargetWord: target,
		Guesses:    []Guess{},
		Status:     StatusPlaying,
		DateKey:    dateKey,
		keyboard:   KeyboardState{},
	}
	s.applyDeps(deps)
	return s, nil
}

// Restore rebuilds a session from a stored snapshot. The snapshot is reused
// only when its day key and target word still match; a stale snapshot from a
// previous day (or a different word, or a mangled structure) is discarded and
// a fresh session returned instead.
func Restore(snap *SessionSnapshot, target, dateKey string, deps Deps) (*Session, error) {
	s, err := NewSession(target, dateKey, deps)
	if err != nil {
		return nil, err
	}
	if !snapshotUsable(snap, s.TargetWord, dateKey) {
		return s, nil
	}
	s.Guesses = slices.Clone(snap.Guesses)
	if s.Guesses == nil {
		s.Guesses = []Guess{}
	}
	s.CurrentGuess = snap.CurrentGuess
	s.Status = snap.Status
	s.StartTime = snap.StartTime
	s.EndTime = snap.EndTime
	s.ElapsedSeconds = snap.ElapsedSeconds
	s.keyboard = KeyboardFromGuesses(s.Guesses)
	return s, nil
}

func snapshotUsable(snap *SessionSnapshot, target, dateKey string) bool {
	if snap == nil || snap.DateKey != dateKey {
		return false
	}
	if !strings.EqualFold(snap.TargetWord, target) {
		return false
	}
	switch snap.Status {
	case StatusPlaying, StatusWon, StatusLost:
	default:
		return false
	}
	if len(snap.Guesses) > MaxGuesses || len(snap.CurrentGuess) > len(target) {
		return false
	}
	return true
}

func (s *Session) applyDeps(deps Deps) {
	s.dict = deps.Dict
	s.store = deps.Store
	s.recorder = deps.Recorder
	s.now = deps.Now
	if s.now == nil {
		s.now = time.Now
	}
}

// AddLetter appends one letter to the in-progress guess. Stray input is
// ignored: terminal sessions, full rows and non-letter keys are all no-ops.
// The first accepted letter of a session starts the timer.
func (s *Session) AddLetter(ch string) {
	if s.Status != StatusPlaying {
		return
	}
	runes := []rune(strings.ToUpper(ch))
	if len(runes) != 1 || runes[0] < 'A' || runes[0] > 'Z' {
		return
	}
	if len(s.CurrentGuess) >= len(s.TargetWord) {
		return
	}
	if s.StartTime == nil {
		t := s.now()
		s.StartTime = &t
	}
	s.CurrentGuess += string(runes[0])
	s.persist()
}

// DeleteLetter removes the last character of the in-progress guess.
func (s *Session) DeleteLetter() {
	if s.Status != StatusPlaying || len(s.CurrentGuess) == 0 {
		return
	}
	s.CurrentGuess = s.CurrentGuess[:len(s.CurrentGuess)-1]
	s.persist()
}

// SubmitGuess evaluates the in-progress guess against the target. Validation
// failures return an error with the session untouched. A terminal session
// ignores the call entirely.
func (s *Session) SubmitGuess() error {
	if s.Status != StatusPlaying {
		return nil
	}
	if len(s.CurrentGuess) != len(s.TargetWord) {
		return ErrNotEnoughLetters
	}
	if s.dict != nil && !s.dict.IsValid(s.CurrentGuess) {
		return ErrNotInWordList
	}

	word := s.CurrentGuess
	eval := Evaluate(word, s.TargetWord)
	s.Guesses = append(s.Guesses, Guess{Word: word, Evaluation: eval})
	s.CurrentGuess = ""
	s.keyboard.Apply(eval)

	switch {
	case word == s.TargetWord:
		s.finish(StatusWon)
	case len(s.Guesses) >= MaxGuesses:
		s.finish(StatusLost)
	}

	s.persist()
	return nil
}

// finish freezes the session in a terminal state and reports the result.
func (s *Session) finish(status SessionStatus) {
	s.Status = status
	end := s.now()
	s.EndTime = &end
	if s.StartTime != nil {
		s.ElapsedSeconds = int(end.Sub(*s.StartTime).Seconds())
	}
	if s.recorder != nil {
		s.recorder.RecordCompletion(s.DateKey, len(s.Guesses), s.ElapsedSeconds, status == StatusWon)
	}
}

// Reset reinitializes the session, optionally with a new target word. Not
// part of the daily flow; used for archive replays and tooling.
func (s *Session) Reset(newTarget string) error {
	target := s.TargetWord
	if newTarget != "" {
		newTarget = strings.ToUpper(strings.TrimSpace(newTarget))
		if len(newTarget) < MinWordLength || len(newTarget) > MaxWordLength {
			return ErrTargetLength
		}
		target = newTarget
	}
	s.TargetWord = target
	s.Guesses = []Guess{}
	s.CurrentGuess = ""
	s.Status = StatusPlaying
	s.StartTime = nil
	s.EndTime = nil
	s.ElapsedSeconds = 0
	s.keyboard = KeyboardState{}
	s.persist()
	return nil
}

// Keyboard returns a copy of the derived keyboard state.
func (s *Session) Keyboard() KeyboardState {
	return maps.Clone(s.keyboard)
}

// Elapsed reports whole seconds for display: a live clock while playing, the
// frozen value once terminal.
func (s *Session) Elapsed(now time.Time) int {
	if s.Status != StatusPlaying {
		return s.ElapsedSeconds
	}
	if s.StartTime == nil {
		return 0
	}
	return int(now.Sub(*s.StartTime).Seconds())
}

// Snapshot returns the persisted form of the session.
func (s *Session) Snapshot() *SessionSnapshot {
	return &SessionSnapshot{
		TargetWord:     s.TargetWord,
		Guesses:        slices.Clone(s.Guesses),
		CurrentGuess:   s.CurrentGuess,
		Status:         s.Status,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		ElapsedSeconds: s.ElapsedSeconds,
		DateKey:        s.DateKey,
	}
}

// persist writes the snapshot through the store. A write failure never blocks
// play; it is logged and the in-memory state stays authoritative.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.Snapshot()); err != nil {
		log.Printf("[WARN] Failed to persist session for %s: %v", s.DateKey, err)
	}
}
