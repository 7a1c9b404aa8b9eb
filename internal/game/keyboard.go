package game

import "github.com/samber/lo"

// KeyboardState maps an uppercase letter to its best-known state across all
// submitted guesses. Absence of a key means the letter is unseen.
type KeyboardState map[string]LetterState

// Apply folds one evaluated guess into the keyboard state. Updates are
// upgrade-only: once a letter is known correct, a later absent classification
// of the same letter (legitimate with duplicates) does not erase it.
func (k KeyboardState) Apply(eval []LetterEvaluation) {
	for _, le := range eval {
		switch le.State {
		case LetterCorrect, LetterPresent, LetterAbsent:
		default:
			continue
		}
		if le.State.Outranks(k[le.Letter]) {
			k[le.Letter] = le.State
		}
	}
}

// KeyboardFromGuesses recomputes keyboard state from scratch by folding the
// full guess history in submission order. Equivalent to applying each guess
// incrementally as it arrived.
func KeyboardFromGuesses(guesses []Guess) KeyboardState {
	return lo.Reduce(guesses, func(acc KeyboardState, g Guess, _ int) KeyboardState {
		acc.Apply(g.Evaluation)
		return acc
	}, KeyboardState{})
}
