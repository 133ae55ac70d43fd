package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/persona/internal/personality"
)

// ErrNotReady is returned when answering before any questions are loaded.
var ErrNotReady = errors.New("quiz: no questions loaded")

// DefaultSaveTimeout bounds a single background save.
const DefaultSaveTimeout = 15 * time.Second

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Tracker     *Tracker
	Logger      *slog.Logger
	SaveEvery   int
	SaveTimeout time.Duration
	AttemptID   string
}

// Step reports what a submitted answer caused.
type Step struct {
	Index  int
	Answer Answer
	// Saved is true when a background save was started.
	Saved bool
	// Last is true when the answered question was the final one; the
	// caller should move on to the results screen.
	Last bool
}

// Controller drives one run through the quiz: it records answers,
// decides when to persist them and moves the shared question index.
// The answer log lives only as long as the controller.
type Controller struct {
	src     QuestionSource
	backend Backend
	tracker *Tracker
	logger  *slog.Logger

	saveEvery   int
	saveTimeout time.Duration
	attemptID   string

	mu  sync.Mutex
	log AnswerLog

	saving atomic.Bool
}

// New creates a Controller with an empty answer log.
func New(src QuestionSource, backend Backend, opts Options) *Controller {
	c := &Controller{
		src:         src,
		backend:     backend,
		tracker:     opts.Tracker,
		logger:      opts.Logger,
		saveEvery:   opts.SaveEvery,
		saveTimeout: opts.SaveTimeout,
		attemptID:   opts.AttemptID,
	}
	if c.tracker == nil {
		c.tracker = NewTracker()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.saveEvery < 1 {
		c.saveEvery = DefaultSaveEvery
	}
	if c.saveTimeout <= 0 {
		c.saveTimeout = DefaultSaveTimeout
	}
	if c.attemptID == "" {
		c.attemptID = uuid.NewString()
	}
	c.log = NewAnswerLog(len(src.Questions()))
	return c
}

// AttemptID identifies this run in save events.
func (c *Controller) AttemptID() string {
	return c.attemptID
}

// Tracker returns the tracker background saves run on.
func (c *Controller) Tracker() *Tracker {
	return c.tracker
}

// Ready reports whether there is a question to show.
func (c *Controller) Ready() bool {
	return len(c.src.Questions()) > 0
}

// Log returns the current answer log.
func (c *Controller) Log() AnswerLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

// IsSaving reports whether a save is in progress.
func (c *Controller) IsSaving() bool {
	return c.saving.Load()
}

// SubmitAnswer records sel as the answer to the current question, starts a
// save when the save policy asks for one, and advances to the next
// question unless this was the last.
func (c *Controller) SubmitAnswer(sel Selection) (Step, error) {
	questions := c.src.Questions()
	if len(questions) == 0 {
		return Step{}, ErrNotReady
	}
	index := c.src.CurrentQuestion()
	if index < 0 || index >= len(questions) {
		return Step{}, fmt.Errorf("quiz: question index %d out of range [0,%d)", index, len(questions))
	}

	q := questions[index]
	answer := Answer{
		QuestionID:      q.IDOrIndex(index),
		QuestionText:    q.Text,
		SelectedOptions: append([]string{}, sel.OptionTexts...),
	}

	// The save below must see this answer, so it gets the new log
	// rather than re-reading c.log later.
	c.mu.Lock()
	next := c.log.With(index, answer)
	c.log = next
	c.mu.Unlock()

	last := index == len(questions)-1
	step := Step{Index: index, Answer: answer, Last: last}

	if ShouldSave(index, len(questions), c.saveEvery) {
		step.Saved = true
		c.scheduleSave(index, next)
	}

	if !last {
		c.src.SetCurrentQuestion(index + 1)
	}

	return step, nil
}

// GoBack moves to the previous question. It returns false at the first
// question. Recorded answers are kept.
func (c *Controller) GoBack() bool {
	moved := false
	c.src.UpdateCurrentQuestion(func(i int) int {
		if i > 0 {
			moved = true
			return i - 1
		}
		return i
	})
	return moved
}

func (c *Controller) scheduleSave(index int, log AnswerLog) {
	info := SaveInfo{AttemptID: c.attemptID, QuestionIndex: index}
	c.tracker.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
		defer cancel()
		c.PersistAnswers(WithSaveInfo(ctx, info), log)
	})
}

// PersistCurrent saves the controller's current log.
func (c *Controller) PersistCurrent(ctx context.Context) {
	c.PersistAnswers(ctx, c.Log())
}

// PersistAnswers replaces the signed-in user's saved answers with log.
// It never fails from the caller's point of view: a missing session is a
// no-op and every error is logged and dropped.
func (c *Controller) PersistAnswers(ctx context.Context, log AnswerLog) {
	c.saving.Store(true)
	defer c.saving.Store(false)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("failed to save answers", "attempt", c.attemptID, "panic", r)
		}
	}()

	sess, err := c.backend.CurrentSession(ctx)
	if err != nil {
		c.logger.Error("failed to save answers", "attempt", c.attemptID, "err", err)
		return
	}
	if sess == nil || sess.UserID == "" {
		c.logger.Info("no active session found, answers kept locally", "attempt", c.attemptID)
		return
	}

	records := log.Records()
	if err := c.backend.UpdateSelectedOptions(ctx, sess.UserID, records); err != nil {
		c.logger.Error("error saving answers",
			"attempt", c.attemptID,
			"user", sess.UserID,
			"answers", len(records),
			"err", err,
		)
		return
	}

	c.logger.Info("saved answers",
		"attempt", c.attemptID,
		"user", sess.UserID,
		"answers", len(records),
	)
}

// QuestionProps is everything the question view needs to render.
type QuestionProps struct {
	Question        personality.Question
	SelectedOptions []string
	ShowBack        bool
	IsLastQuestion  bool
	IsFirstQuestion bool
	IsSaving        bool
}

// ProgressProps feeds the progress indicator. Current is 1-based.
type ProgressProps struct {
	Current int
	Total   int
}

// View returns the props for the question on screen. ok is false while
// no questions are loaded; the caller shows a loading placeholder.
func (c *Controller) View() (q QuestionProps, p ProgressProps, ok bool) {
	questions := c.src.Questions()
	if len(questions) == 0 {
		return QuestionProps{}, ProgressProps{}, false
	}
	index := c.src.CurrentQuestion()
	if index < 0 || index >= len(questions) {
		return QuestionProps{}, ProgressProps{}, false
	}

	q = QuestionProps{
		Question:        questions[index],
		SelectedOptions: c.Log().Selected(index),
		ShowBack:        index > 0,
		IsLastQuestion:  index == len(questions)-1,
		IsFirstQuestion: index == 0,
		IsSaving:        c.IsSaving(),
	}
	p = ProgressProps{Current: index + 1, Total: len(questions)}
	return q, p, true
}
