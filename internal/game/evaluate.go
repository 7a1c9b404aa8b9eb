package game

import "strings"

// Evaluate compares a guess to the target word and returns per-letter results.
// Both inputs must be the same length; callers enforce that before invoking.
//
// The two passes matter for duplicate letters: a matched target position is
// blanked out so it can never be claimed twice. A guess with two of the same
// letter against a target holding only one marks exactly one occurrence
// present (or correct) and the other absent.
func Evaluate(guess, target string) []LetterEvaluation {
	guessRunes := []rune(strings.ToUpper(guess))
	targetCopy := []rune(strings.ToUpper(target))
	n := len(targetCopy)
	result := make([]LetterEvaluation, n)

	for i := range n {
		if guessRunes[i] == targetCopy[i] {
			result[i] = LetterEvaluation{Letter: string(guessRunes[i]), State: LetterCorrect}
			targetCopy[i] = ' '
		}
	}

	for i := range n {
		if result[i].State != "" {
			continue
		}
		result[i].Letter = string(guessRunes[i])

		found := false
		for j := range n {
			if targetCopy[j] == guessRunes[i] {
				result[i].State = LetterPresent
				targetCopy[j] = ' '
				found = true
				break
			}
		}

		if !found {
			result[i].State = LetterAbsent
		}
	}

	return result
}
