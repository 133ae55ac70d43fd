package personality

import "sync"

// QuestionsChangedMsg is broadcast to screens after the question list held
// by a State has been replaced. Err is set when loading failed.
type QuestionsChangedMsg struct {
	Err error
}

// State holds the question list and the index of the question currently
// on screen. It is shared by every screen of a run and is safe for
// concurrent use.
type State struct {
	mu        sync.RWMutex
	questions []Question
	current   int
}

// NewState creates a State holding questions, positioned at the first one.
func NewState(questions []Question) *State {
	return &State{questions: questions}
}

// Questions returns the current question list. Callers must not modify it.
func (s *State) Questions() []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions
}

// CurrentQuestion returns the index of the question on screen.
func (s *State) CurrentQuestion() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrentQuestion moves to index, clamped to the question list.
func (s *State) SetCurrentQuestion(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.clamp(index)
}

// UpdateCurrentQuestion applies fn to the current index atomically.
func (s *State) UpdateCurrentQuestion(fn func(int) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.clamp(fn(s.current))
}

// SetQuestions replaces the question list and rewinds to the first question.
func (s *State) SetQuestions(questions []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions
	s.current = 0
}

func (s *State) clamp(index int) int {
	if index >= len(s.questions) {
		index = len(s.questions) - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
