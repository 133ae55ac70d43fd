package personality

import "testing"

func threeQuestions() []Question {
	return []Question{{Text: "a"}, {Text: "b"}, {Text: "c"}}
}

func TestState_SetCurrentQuestionClamps(t *testing.T) {
	s := NewState(threeQuestions())

	s.SetCurrentQuestion(2)
	if got := s.CurrentQuestion(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}

	s.SetCurrentQuestion(10)
	if got := s.CurrentQuestion(); got != 2 {
		t.Errorf("expected clamp to 2, got %d", got)
	}

	s.SetCurrentQuestion(-1)
	if got := s.CurrentQuestion(); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestState_UpdateCurrentQuestion(t *testing.T) {
	s := NewState(threeQuestions())
	s.UpdateCurrentQuestion(func(i int) int { return i + 1 })
	s.UpdateCurrentQuestion(func(i int) int { return i + 1 })
	if got := s.CurrentQuestion(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestState_SetQuestionsRewinds(t *testing.T) {
	s := NewState(threeQuestions())
	s.SetCurrentQuestion(2)

	s.SetQuestions([]Question{{Text: "only"}})
	if got := s.CurrentQuestion(); got != 0 {
		t.Errorf("expected rewind to 0, got %d", got)
	}
	if got := len(s.Questions()); got != 1 {
		t.Errorf("expected 1 question, got %d", got)
	}
}

func TestState_EmptyListStaysAtZero(t *testing.T) {
	s := NewState(nil)
	s.SetCurrentQuestion(3)
	if got := s.CurrentQuestion(); got != 0 {
		t.Errorf("expected 0 on empty list, got %d", got)
	}
}
