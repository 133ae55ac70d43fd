// Package profile turns quiz answers into a personality summary.
package profile

import (
	"sort"

	"github.com/abhisek/persona/internal/personality"
	"github.com/abhisek/persona/internal/quiz"
)

// TraitCount is how many selected options carried a trait.
type TraitCount struct {
	Trait string
	Count int
}

// Tally counts the traits of every selected option, most frequent first
// (ties alphabetical). Answers are matched to questions by id, so records
// loaded back from storage tally the same as fresh ones. Selections that
// no longer match an option text are skipped.
func Tally(questions []personality.Question, answers []quiz.Answer) []TraitCount {
	byID := make(map[personality.QuestionID]personality.Question, len(questions))
	for i, q := range questions {
		byID[q.IDOrIndex(i)] = q
	}

	counts := map[string]int{}
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		for _, sel := range a.SelectedOptions {
			for _, opt := range q.Options {
				if opt.Text == sel && opt.Trait != "" {
					counts[opt.Trait]++
					break
				}
			}
		}
	}

	out := make([]TraitCount, 0, len(counts))
	for trait, n := range counts {
		out = append(out, TraitCount{Trait: trait, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Trait < out[j].Trait
	})
	return out
}

// Dominant returns the leading trait, if any option carried one.
func Dominant(counts []TraitCount) (string, bool) {
	if len(counts) == 0 {
		return "", false
	}
	return counts[0].Trait, true
}
