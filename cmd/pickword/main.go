// Command pickword prints random words from the loaded dictionary. Handy for
// smoke-testing a word list and seeding archive replays.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Ministry-of-Technology-AU/dailyword/internal/words"
)

func main() {
	var (
		wordsFile = flag.String("words", "data/words.json", "path to the word list JSON file")
		length    = flag.Int("length", words.DefaultLength, "word length to sample")
		count     = flag.Int("n", 1, "number of words to print")
	)
	flag.Parse()

	dict, err := words.Load(*wordsFile)
	if err != nil {
		log.Fatalf("Failed to load words: %v", err)
	}

	fmt.Printf("%d words loaded, %d of length %d\n", dict.Total(), dict.Count(*length), *length)
	for range *count {
		fmt.Println(dict.RandomWord(*length))
	}
}
