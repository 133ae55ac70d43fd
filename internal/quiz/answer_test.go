package quiz

import (
	"encoding/json"
	"testing"

	"github.com/abhisek/persona/internal/personality"
)

func TestAnswerLog_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewAnswerLog(3).With(0, Answer{QuestionText: "first"})
	next := base.With(1, Answer{QuestionText: "second"})

	if base.At(1) != nil {
		t.Error("With wrote into the receiver's slots")
	}
	if next.At(0) == nil || next.At(0).QuestionText != "first" {
		t.Error("With dropped an existing answer")
	}
	if next.At(1) == nil || next.At(1).QuestionText != "second" {
		t.Error("With did not store the new answer")
	}
}

func TestAnswerLog_WithGrows(t *testing.T) {
	log := AnswerLog{}.With(4, Answer{QuestionText: "late"})
	if log.Len() != 5 {
		t.Fatalf("expected 5 slots, got %d", log.Len())
	}
	if log.Answered() != 1 {
		t.Errorf("expected 1 answered, got %d", log.Answered())
	}
}

func TestAnswerLog_WithCopiesSelection(t *testing.T) {
	sel := []string{"a"}
	log := NewAnswerLog(1).With(0, Answer{SelectedOptions: sel})
	sel[0] = "changed"

	if got := log.At(0).SelectedOptions[0]; got != "a" {
		t.Errorf("answer shares the caller's slice, got %q", got)
	}
}

func TestAnswerLog_Records(t *testing.T) {
	log := NewAnswerLog(4).
		With(1, Answer{QuestionID: personality.StringID("b"), QuestionText: "B", SelectedOptions: []string{"x"}}).
		With(3, Answer{QuestionID: personality.NumericID(3), QuestionText: "D"})

	recs := log.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	out, err := json.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"questionId":"b","questionText":"B","selectedOptions":["x"]},{"questionId":3,"questionText":"D","selectedOptions":[]}]`
	if string(out) != want {
		t.Errorf("got  %s\nwant %s", out, want)
	}
}

func TestAnswerLog_Selected(t *testing.T) {
	log := NewAnswerLog(2).With(0, Answer{SelectedOptions: []string{"a", "b"}})

	if got := log.Selected(0); len(got) != 2 {
		t.Errorf("expected 2 selected, got %v", got)
	}
	if got := log.Selected(1); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if got := log.Selected(9); len(got) != 0 {
		t.Errorf("expected empty for out of range, got %v", got)
	}
}
