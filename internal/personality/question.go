package personality

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// QuestionID identifies a question. IDs read from JSON keep their kind:
// a numeric id marshals back as a JSON number, a string id as a string.
// The zero value means "no id".
type QuestionID struct {
	value   string
	numeric bool
}

// StringID returns a string-valued QuestionID.
func StringID(s string) QuestionID {
	return QuestionID{value: s}
}

// NumericID returns a numeric QuestionID.
func NumericID(n int) QuestionID {
	return QuestionID{value: strconv.Itoa(n), numeric: true}
}

// IsZero reports whether the id is absent.
func (id QuestionID) IsZero() bool {
	return id.value == ""
}

// IsNumeric reports whether the id came from (or marshals to) a JSON number.
func (id QuestionID) IsNumeric() bool {
	return id.numeric
}

func (id QuestionID) String() string {
	return id.value
}

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = QuestionID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("question id: %w", err)
		}
		*id = QuestionID{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*id = QuestionID{value: n.String(), numeric: true}
	return nil
}

// Option is one selectable answer to a question. Trait tags the
// personality dimension the option leans towards; it may be empty.
type Option struct {
	Text  string `json:"text"`
	Trait string `json:"trait,omitempty"`
}

// Question is a single quiz question. MaxSelect is the number of options
// that may be chosen together; 1 means single choice.
type Question struct {
	ID        QuestionID `json:"id"`
	Text      string     `json:"text"`
	Options   []Option   `json:"options"`
	MaxSelect int        `json:"maxSelect,omitempty"`
}

// OptionTexts returns the option labels in display order.
func (q Question) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, o := range q.Options {
		texts[i] = o.Text
	}
	return texts
}

// MultiSelect reports whether more than one option may be chosen.
func (q Question) MultiSelect() bool {
	return q.MaxSelect > 1
}

// IDOrIndex returns the question's id, or the position as a numeric id
// when the question has none.
func (q Question) IDOrIndex(index int) QuestionID {
	if q.ID.IsZero() {
		return NumericID(index)
	}
	return q.ID
}
