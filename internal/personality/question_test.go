package personality

import (
	"encoding/json"
	"testing"
)

func TestQuestionID_UnmarshalKinds(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		numeric bool
		zero    bool
	}{
		{in: `"weekend"`, want: "weekend"},
		{in: `12`, want: "12", numeric: true},
		{in: `0`, want: "0", numeric: true},
		{in: `null`, zero: true},
		{in: `""`, zero: true},
	}

	for _, tt := range tests {
		var id QuestionID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if id.IsZero() != tt.zero {
			t.Errorf("%s: IsZero = %v, want %v", tt.in, id.IsZero(), tt.zero)
		}
		if tt.zero {
			continue
		}
		if id.String() != tt.want {
			t.Errorf("%s: String = %q, want %q", tt.in, id.String(), tt.want)
		}
		if id.IsNumeric() != tt.numeric {
			t.Errorf("%s: IsNumeric = %v, want %v", tt.in, id.IsNumeric(), tt.numeric)
		}
	}
}

func TestQuestionID_MarshalKeepsKind(t *testing.T) {
	out, err := json.Marshal([]QuestionID{StringID("a"), NumericID(3), {}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["a",3,null]` {
		t.Errorf("got %s", out)
	}
}

func TestQuestion_MissingIDDecodesAsZero(t *testing.T) {
	var q Question
	if err := json.Unmarshal([]byte(`{"text":"x","options":[{"text":"a"},{"text":"b"}]}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !q.ID.IsZero() {
		t.Errorf("expected zero id, got %q", q.ID)
	}
	if got := q.IDOrIndex(7); got != NumericID(7) {
		t.Errorf("IDOrIndex = %v, want numeric 7", got)
	}
}

func TestQuestion_EmptyStringIDFallsBackToIndex(t *testing.T) {
	var q Question
	if err := json.Unmarshal([]byte(`{"id":"","text":"x","options":[{"text":"a"},{"text":"b"}]}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := q.IDOrIndex(3); got != NumericID(3) {
		t.Errorf("IDOrIndex = %v, want numeric 3", got)
	}
	if got := (Question{ID: StringID("")}).IDOrIndex(0); got != NumericID(0) {
		t.Errorf("IDOrIndex = %v, want numeric 0", got)
	}
	if got := (Question{ID: NumericID(0)}).IDOrIndex(5); got != NumericID(0) {
		t.Errorf("numeric 0 id = %v, want kept", got)
	}
}

func TestQuestion_IDOrIndexPrefersID(t *testing.T) {
	q := Question{ID: StringID("gift")}
	if got := q.IDOrIndex(2); got != StringID("gift") {
		t.Errorf("IDOrIndex = %v, want gift", got)
	}
}

func TestQuestion_OptionTexts(t *testing.T) {
	q := Question{Options: []Option{{Text: "A"}, {Text: "B", Trait: "x"}}}
	texts := q.OptionTexts()
	if len(texts) != 2 || texts[0] != "A" || texts[1] != "B" {
		t.Errorf("OptionTexts = %v", texts)
	}
}
