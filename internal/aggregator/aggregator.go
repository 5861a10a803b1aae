package aggregator

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

// Aggregator merges word entries from consecutive images. The first entry
// seen for a lower-cased English word wins. An Aggregator belongs to one run
// and is not safe for concurrent use.
type Aggregator struct {
	lower   cases.Caser
	seen    map[string]struct{}
	entries []models.WordEntry
}

func New() *Aggregator {
	return &Aggregator{
		lower: cases.Lower(language.Und),
		seen:  make(map[string]struct{}),
	}
}

// Key returns the deduplication key of an English word.
func (a *Aggregator) Key(word string) string {
	return a.lower.String(word)
}

// Add inserts entries in order and reports how many were new.
func (a *Aggregator) Add(entries ...models.WordEntry) int {
	added := 0
	for _, e := range entries {
		key := a.Key(e.EnglishWord)
		if _, dup := a.seen[key]; dup {
			continue
		}
		a.seen[key] = struct{}{}
		a.entries = append(a.entries, e)
		added++
	}
	return added
}

func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Result returns a copy of the accepted entries in insertion order.
func (a *Aggregator) Result() models.AnalysisResult {
	out := make(models.AnalysisResult, len(a.entries))
	copy(out, a.entries)
	return out
}
