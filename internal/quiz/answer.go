package quiz

import (
	"slices"

	"github.com/abhisek/persona/internal/personality"
)

// Answer is the user's response to one question. It is never modified
// after creation.
type Answer struct {
	QuestionID      personality.QuestionID `json:"questionId"`
	QuestionText    string                 `json:"questionText"`
	SelectedOptions []string               `json:"selectedOptions"`
}

// Selection is what the question view reports when the user submits.
type Selection struct {
	OptionTexts []string
}

// AnswerLog holds answers by question position. A nil slot is a question
// that has not been answered (skipped or not reached yet).
//
// Logs are values: With returns a new log and never writes to the
// receiver's backing array, so a log captured by a background save is
// unaffected by later answers.
type AnswerLog struct {
	slots []*Answer
}

// NewAnswerLog returns an empty log sized for n questions.
func NewAnswerLog(n int) AnswerLog {
	return AnswerLog{slots: make([]*Answer, n)}
}

// Len returns the number of slots, answered or not.
func (l AnswerLog) Len() int {
	return len(l.slots)
}

// At returns the answer at index, or nil when the slot is empty or out of
// range.
func (l AnswerLog) At(index int) *Answer {
	if index < 0 || index >= len(l.slots) {
		return nil
	}
	return l.slots[index]
}

// With returns a copy of the log with answer stored at index. Any existing
// answer at index is replaced.
func (l AnswerLog) With(index int, answer Answer) AnswerLog {
	size := max(len(l.slots), index+1)
	slots := make([]*Answer, size)
	copy(slots, l.slots)

	a := answer
	a.SelectedOptions = slices.Clone(answer.SelectedOptions)
	if a.SelectedOptions == nil {
		a.SelectedOptions = []string{}
	}
	slots[index] = &a

	return AnswerLog{slots: slots}
}

// Answered returns the number of filled slots.
func (l AnswerLog) Answered() int {
	n := 0
	for _, a := range l.slots {
		if a != nil {
			n++
		}
	}
	return n
}

// Records returns the filled slots in question order, skipping gaps. This
// is the shape persisted to the backend.
func (l AnswerLog) Records() []Answer {
	out := make([]Answer, 0, len(l.slots))
	for _, a := range l.slots {
		if a == nil {
			continue
		}
		out = append(out, Answer{
			QuestionID:      a.QuestionID,
			QuestionText:    a.QuestionText,
			SelectedOptions: slices.Clone(a.SelectedOptions),
		})
	}
	return out
}

// Selected returns the option texts previously chosen for index, or an
// empty slice.
func (l AnswerLog) Selected(index int) []string {
	a := l.At(index)
	if a == nil {
		return []string{}
	}
	return slices.Clone(a.SelectedOptions)
}
