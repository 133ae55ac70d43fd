package quiz

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/persona/internal/personality"
	flow "github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/router"
	"github.com/abhisek/persona/internal/screen"
	"github.com/abhisek/persona/internal/ui/components"
	"github.com/abhisek/persona/internal/ui/layout"
	"github.com/abhisek/persona/internal/ui/theme"
)

// Default delays.
const (
	DefaultGraceDelay   = 100 * time.Millisecond
	DefaultResultsDelay = 80 * time.Millisecond
)

// Options configures the quiz screen. Zero delays select the defaults.
type Options struct {
	GraceDelay   time.Duration
	ResultsDelay time.Duration
}

// QuizScreen hosts a flow.Controller: it renders the current question,
// turns key presses into answers and navigation, and sends the user home
// when there is nothing to answer.
type QuizScreen struct {
	ctrl *flow.Controller
	opts Options

	view      components.QuestionView
	viewIndex int
	hasView   bool

	spinner  spinner.Model
	spinning bool

	guardGen int
	disposed bool
	finished bool
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ router.Disposer = (*QuizScreen)(nil)

// New creates a QuizScreen for ctrl.
func New(ctrl *flow.Controller, opts Options) *QuizScreen {
	if opts.GraceDelay <= 0 {
		opts.GraceDelay = DefaultGraceDelay
	}
	if opts.ResultsDelay <= 0 {
		opts.ResultsDelay = DefaultResultsDelay
	}
	return &QuizScreen{
		ctrl:      ctrl,
		opts:      opts,
		viewIndex: -1,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Checked),
		),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.checkReady()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// Dispose stops the screen from acting on timers that fire after it has
// left the stack.
func (s *QuizScreen) Dispose() {
	s.disposed = true
	s.guardGen++
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if !s.hasView {
		return []layout.KeyHint{{Key: "Esc", Description: "Home"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
	}
	if s.view.MaxSelect > 1 {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"})
	}
	hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	if s.view.ShowBack {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case personality.QuestionsChangedMsg:
		// Any pending redirect was armed for the old list.
		s.guardGen++
		s.hasView = false
		return s, s.checkReady()

	case guardTickMsg:
		if s.disposed || msg.gen != s.guardGen || s.ctrl.Ready() {
			return s, nil
		}
		return s, router.Navigate(flow.PathHome, nil)

	case components.QuestionSubmittedMsg:
		return s.submit(msg.OptionTexts)

	case components.QuestionBackMsg:
		if s.ctrl.GoBack() {
			s.syncView()
		}
		return s, nil

	case resultsTickMsg:
		if s.disposed {
			return s, nil
		}
		return s, router.Navigate(flow.PathResults, s.ctrl.Log().Records())

	case savesSettledMsg:
		if s.ctrl.Tracker().InFlight() > 0 {
			return s, s.waitForSaves()
		}
		s.spinning = false
		s.view.IsSaving = s.ctrl.IsSaving()
		return s, nil

	case spinner.TickMsg:
		if !s.spinning {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, router.Navigate(flow.PathHome, nil)
		}
		if s.finished || !s.hasView {
			return s, nil
		}
		var cmd tea.Cmd
		s.view, cmd = s.view.Update(msg)
		return s, cmd
	}
	return s, nil
}

// checkReady arms the redirect guard when there is nothing to show, or
// builds the question view when there is.
func (s *QuizScreen) checkReady() tea.Cmd {
	if s.ctrl.Ready() {
		s.syncView()
		return nil
	}
	s.guardGen++
	gen := s.guardGen
	return tea.Tick(s.opts.GraceDelay, func(time.Time) tea.Msg {
		return guardTickMsg{gen: gen}
	})
}

func (s *QuizScreen) submit(texts []string) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}
	step, err := s.ctrl.SubmitAnswer(flow.Selection{OptionTexts: texts})
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	var cmds []tea.Cmd
	if step.Saved {
		cmds = append(cmds, s.startSpinner(), s.waitForSaves())
	}
	if step.Last {
		s.finished = true
		cmds = append(cmds, tea.Tick(s.opts.ResultsDelay, func(time.Time) tea.Msg {
			return resultsTickMsg{}
		}))
	} else {
		s.syncView()
	}
	return s, tea.Batch(cmds...)
}

func (s *QuizScreen) startSpinner() tea.Cmd {
	if s.spinning {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

func (s *QuizScreen) waitForSaves() tea.Cmd {
	tracker := s.ctrl.Tracker()
	return func() tea.Msg {
		_ = tracker.Wait(context.Background())
		return savesSettledMsg{}
	}
}

// syncView rebuilds the question view from the controller, restoring any
// answer already recorded for the question.
func (s *QuizScreen) syncView() {
	props, prog, ok := s.ctrl.View()
	if !ok {
		s.hasView = false
		return
	}
	q := props.Question
	s.view = components.NewQuestionView(q.Text, q.OptionTexts(), q.MaxSelect, props.SelectedOptions)
	s.view.ShowBack = props.ShowBack
	s.view.IsFirst = props.IsFirstQuestion
	s.view.IsLast = props.IsLastQuestion
	s.view.IsSaving = props.IsSaving
	s.viewIndex = prog.Current - 1
	s.hasView = true
}
