package quiz

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/persona/internal/personality"
)

// fakeBackend records every update it receives.
type fakeBackend struct {
	mu         sync.Mutex
	session    *Session
	sessionErr error
	updateErr  error
	panicOn    bool
	block      chan struct{}
	started    chan struct{}
	updates    [][]Answer
	infos      []SaveInfo
}

func (f *fakeBackend) CurrentSession(context.Context) (*Session, error) {
	if f.panicOn {
		panic("boom")
	}
	return f.session, f.sessionErr
}

func (f *fakeBackend) UpdateSelectedOptions(ctx context.Context, userID string, answers []Answer) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, answers)
	if info, ok := SaveInfoFrom(ctx); ok {
		f.infos = append(f.infos, info)
	}
	return f.updateErr
}

func (f *fakeBackend) Updates() [][]Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]Answer(nil), f.updates...)
}

func signedIn() *fakeBackend {
	return &fakeBackend{session: &Session{UserID: "user-1"}}
}

func makeQuestions(n int) []personality.Question {
	qs := make([]personality.Question, n)
	for i := range qs {
		qs[i] = personality.Question{
			ID:   personality.StringID(string(rune('a' + i))),
			Text: "question " + string(rune('A'+i)),
			Options: []personality.Option{
				{Text: "yes", Trait: "Explorer"},
				{Text: "no", Trait: "Thinker"},
			},
			MaxSelect: 1,
		}
	}
	return qs
}

func newTestController(t *testing.T, n int, backend Backend) (*Controller, *personality.State) {
	t.Helper()
	state := personality.NewState(makeQuestions(n))
	c := New(state, backend, Options{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		AttemptID: "attempt-1",
	})
	return c, state
}

func waitSaves(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Tracker().Wait(ctx))
}

func TestSubmitAnswer_RecordsAndAdvances(t *testing.T) {
	c, state := newTestController(t, 5, signedIn())

	for i := 0; i < 4; i++ {
		step, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
		require.NoError(t, err)

		assert.Equal(t, i, step.Index)
		assert.False(t, step.Last)
		assert.Equal(t, i+1, state.CurrentQuestion())

		got := c.Log().At(i)
		require.NotNil(t, got)
		q := state.Questions()[i]
		assert.Equal(t, q.ID, got.QuestionID)
		assert.Equal(t, q.Text, got.QuestionText)
		assert.Equal(t, []string{"yes"}, got.SelectedOptions)
	}
	waitSaves(t, c)
}

func TestSubmitAnswer_LastQuestionFinishes(t *testing.T) {
	c, state := newTestController(t, 2, signedIn())
	state.SetCurrentQuestion(1)

	step, err := c.SubmitAnswer(Selection{OptionTexts: []string{"no"}})
	require.NoError(t, err)

	assert.True(t, step.Last)
	assert.Equal(t, 1, state.CurrentQuestion(), "index must not move past the last question")
	waitSaves(t, c)
}

func TestSubmitAnswer_FallsBackToIndexID(t *testing.T) {
	state := personality.NewState([]personality.Question{
		{Text: "no id", Options: []personality.Option{{Text: "a"}, {Text: "b"}}},
		{Text: "second", Options: []personality.Option{{Text: "a"}, {Text: "b"}}},
	})
	c := New(state, signedIn(), Options{Logger: slog.New(slog.DiscardHandler)})

	_, err := c.SubmitAnswer(Selection{OptionTexts: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, personality.NumericID(0), c.Log().At(0).QuestionID)
	waitSaves(t, c)
}

func TestSubmitAnswer_NotReady(t *testing.T) {
	state := personality.NewState(nil)
	c := New(state, signedIn(), Options{Logger: slog.New(slog.DiscardHandler)})

	assert.False(t, c.Ready())
	_, err := c.SubmitAnswer(Selection{OptionTexts: []string{"a"}})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSavePolicy_TriggeredIndices(t *testing.T) {
	backend := signedIn()
	c, _ := newTestController(t, 8, backend)

	var saved []int
	for i := 0; i < 8; i++ {
		step, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
		require.NoError(t, err)
		if step.Saved {
			saved = append(saved, step.Index)
		}
	}
	waitSaves(t, c)

	assert.Equal(t, []int{0, 3, 6, 7}, saved)
	assert.Len(t, backend.Updates(), 4)
}

func TestShouldSave(t *testing.T) {
	tests := []struct {
		index, total int
		want         bool
	}{
		{0, 10, true},
		{1, 10, false},
		{2, 10, false},
		{3, 10, true},
		{8, 10, false},
		{9, 10, true},
		{0, 1, true},
		{4, 5, true},
	}
	for _, tt := range tests {
		if got := ShouldSave(tt.index, tt.total, DefaultSaveEvery); got != tt.want {
			t.Errorf("ShouldSave(%d, %d) = %v, want %v", tt.index, tt.total, got, tt.want)
		}
	}
}

func TestSaveSnapshotIncludesJustGivenAnswer(t *testing.T) {
	backend := signedIn()
	c, _ := newTestController(t, 5, backend)

	for i := 0; i < 4; i++ {
		_, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
		require.NoError(t, err)
		waitSaves(t, c)
	}

	updates := backend.Updates()
	require.Len(t, updates, 2)
	require.Len(t, updates[0], 1, "save after question 0 must contain question 0")
	assert.Equal(t, personality.StringID("a"), updates[0][0].QuestionID)
	require.Len(t, updates[1], 4, "save after question 3 must contain questions 0-3")
	assert.Equal(t, personality.StringID("d"), updates[1][3].QuestionID)
}

func TestSaveCarriesAttemptAndIndex(t *testing.T) {
	backend := signedIn()
	c, _ := newTestController(t, 2, backend)

	_, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
	require.NoError(t, err)
	_, err = c.SubmitAnswer(Selection{OptionTexts: []string{"no"}})
	require.NoError(t, err)
	waitSaves(t, c)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Len(t, backend.infos, 2)
	assert.ElementsMatch(t, []SaveInfo{
		{AttemptID: "attempt-1", QuestionIndex: 0},
		{AttemptID: "attempt-1", QuestionIndex: 1},
	}, backend.infos)
}

func TestGoBack(t *testing.T) {
	c, state := newTestController(t, 3, signedIn())

	assert.False(t, c.GoBack())
	assert.Equal(t, 0, state.CurrentQuestion())

	state.SetCurrentQuestion(2)
	assert.True(t, c.GoBack())
	assert.Equal(t, 1, state.CurrentQuestion())
}

func TestGoBack_KeepsAnswersAndReanswerOverwrites(t *testing.T) {
	c, _ := newTestController(t, 3, &fakeBackend{})

	_, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
	require.NoError(t, err)
	require.True(t, c.GoBack())

	props, _, ok := c.View()
	require.True(t, ok)
	assert.Equal(t, []string{"yes"}, props.SelectedOptions)

	_, err = c.SubmitAnswer(Selection{OptionTexts: []string{"no"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"no"}, c.Log().At(0).SelectedOptions)
	assert.Equal(t, 1, c.Log().Answered())
	waitSaves(t, c)
}

func TestPersistAnswers_NoSession(t *testing.T) {
	backend := &fakeBackend{}
	c, _ := newTestController(t, 2, backend)

	assert.NotPanics(t, func() {
		c.PersistAnswers(context.Background(), NewAnswerLog(2).With(0, Answer{QuestionText: "x"}))
	})
	assert.Empty(t, backend.Updates())
	assert.False(t, c.IsSaving())
}

func TestPersistAnswers_EmptyUserID(t *testing.T) {
	backend := &fakeBackend{session: &Session{}}
	c, _ := newTestController(t, 2, backend)

	c.PersistCurrent(context.Background())
	assert.Empty(t, backend.Updates())
}

func TestPersistAnswers_ErrorsAreSwallowed(t *testing.T) {
	cases := map[string]*fakeBackend{
		"session error": {sessionErr: errors.New("auth down")},
		"update error":  {session: &Session{UserID: "u"}, updateErr: errors.New("write failed")},
		"panic":         {panicOn: true},
	}
	for name, backend := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestController(t, 1, backend)
			assert.NotPanics(t, func() {
				c.PersistCurrent(context.Background())
			})
			assert.False(t, c.IsSaving())
		})
	}
}

func TestPersistAnswers_SavingFlag(t *testing.T) {
	backend := signedIn()
	backend.block = make(chan struct{})
	backend.started = make(chan struct{}, 1)
	c, _ := newTestController(t, 3, backend)

	_, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
	require.NoError(t, err)

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("save never reached the backend")
	}
	assert.True(t, c.IsSaving())

	props, _, ok := c.View()
	require.True(t, ok)
	assert.True(t, props.IsSaving)

	close(backend.block)
	waitSaves(t, c)
	assert.False(t, c.IsSaving())
}

func TestPersistAnswers_FiltersGaps(t *testing.T) {
	backend := signedIn()
	c, _ := newTestController(t, 5, backend)

	log := NewAnswerLog(5).
		With(0, Answer{QuestionText: "zero"}).
		With(3, Answer{QuestionText: "three"})
	c.PersistAnswers(context.Background(), log)

	updates := backend.Updates()
	require.Len(t, updates, 1)
	require.Len(t, updates[0], 2)
	assert.Equal(t, "zero", updates[0][0].QuestionText)
	assert.Equal(t, "three", updates[0][1].QuestionText)
}

func TestView(t *testing.T) {
	c, state := newTestController(t, 3, signedIn())

	q, p, ok := c.View()
	require.True(t, ok)
	assert.Equal(t, ProgressProps{Current: 1, Total: 3}, p)
	assert.True(t, q.IsFirstQuestion)
	assert.False(t, q.ShowBack)
	assert.False(t, q.IsLastQuestion)
	assert.Empty(t, q.SelectedOptions)

	state.SetCurrentQuestion(2)
	q, p, ok = c.View()
	require.True(t, ok)
	assert.Equal(t, ProgressProps{Current: 3, Total: 3}, p)
	assert.True(t, q.ShowBack)
	assert.True(t, q.IsLastQuestion)
	assert.Equal(t, "question C", q.Question.Text)
}

func TestView_NotReady(t *testing.T) {
	c := New(personality.NewState(nil), signedIn(), Options{Logger: slog.New(slog.DiscardHandler)})
	_, _, ok := c.View()
	assert.False(t, ok)
}

// Four questions: saves after Q0 and Q3, finishing on Q3.
func TestFourQuestionWalkthrough(t *testing.T) {
	backend := signedIn()
	c, state := newTestController(t, 4, backend)

	want := []struct {
		saved bool
		last  bool
		next  int
	}{
		{saved: true, next: 1},
		{next: 2},
		{next: 3},
		{saved: true, last: true, next: 3},
	}

	for i, w := range want {
		step, err := c.SubmitAnswer(Selection{OptionTexts: []string{"yes"}})
		require.NoError(t, err)
		assert.Equal(t, w.saved, step.Saved, "question %d", i)
		assert.Equal(t, w.last, step.Last, "question %d", i)
		assert.Equal(t, w.next, state.CurrentQuestion(), "question %d", i)
		waitSaves(t, c)
	}

	updates := backend.Updates()
	require.Len(t, updates, 2)
	assert.Len(t, updates[1], 4)
}
