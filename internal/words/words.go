// Package words owns the word list: membership checks for guesses, random
// selection for tooling and archive replays, and the deterministic daily
// puzzle pick. The list is loaded once and immutable afterwards.
package words

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
)

const (
	MinLength     = 3
	MaxLength     = 8
	DefaultLength = 5

	// FallbackWord is returned only when even the default bucket is empty.
	FallbackWord = "CRANE"
)

// WordList mirrors the JSON structure of data/words.json.
type WordList struct {
	Words []string `json:"words"`
}

// Dictionary is the loaded word index: a flat membership set plus
// length-keyed buckets for sampling. Read-only after construction.
type Dictionary struct {
	words   []string
	set     map[string]struct{}
	buckets map[int][]string
}

// Load reads and indexes a word list from a JSON file.
func Load(path string) (*Dictionary, error) {
	log.Printf("[INFO] Loading words from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wl WordList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, err
	}
	dict := New(wl.Words)
	log.Printf("[INFO] Successfully loaded %d words", dict.Total())
	return dict, nil
}

// New builds a dictionary from raw words, normalizing to uppercase and
// dropping duplicates and anything outside 3-8 alphabetic letters.
func New(raw []string) *Dictionary {
	words := lo.FilterMap(raw, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) < MinLength || len(w) > MaxLength || !isAlpha(w) {
			return "", false
		}
		return w, true
	})
	words = lo.Uniq(words)

	set := make(map[string]struct{}, len(words))
	lo.ForEach(words, func(w string, _ int) {
		set[w] = struct{}{}
	})

	return &Dictionary{
		words: words,
		set:   set,
		buckets: lo.GroupBy(words, func(w string) int {
			return len(w)
		}),
	}
}

// IsValid reports case-insensitive membership in the full word list.
func (d *Dictionary) IsValid(word string) bool {
	_, ok := d.set[strings.ToUpper(strings.TrimSpace(word))]
	return ok
}

// RandomWord picks uniformly from the requested length bucket, degrading to
// the default bucket and finally a fixed fallback word. Never errors.
func (d *Dictionary) RandomWord(length int) string {
	bucket := d.bucketOrDefault(length)
	if len(bucket) == 0 {
		return FallbackWord
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bucket))))
	if err != nil {
		log.Printf("[WARN] Error generating random number: %v, using fallback", err)
		return bucket[0]
	}
	return bucket[n.Int64()]
}

// Count returns the number of words of the given length.
func (d *Dictionary) Count(length int) int {
	return len(d.buckets[length])
}

// Total returns the full word count.
func (d *Dictionary) Total() int {
	return len(d.words)
}

func (d *Dictionary) bucketOrDefault(length int) []string {
	if bucket := d.buckets[length]; len(bucket) > 0 {
		return bucket
	}
	return d.buckets[DefaultLength]
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
