package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/backend"
	"github.com/abhisek/persona/internal/personality"
	"github.com/abhisek/persona/internal/profile"
	flow "github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/router"
	"github.com/abhisek/persona/internal/screen"
	"github.com/abhisek/persona/internal/screens/home"
	quizscreen "github.com/abhisek/persona/internal/screens/quiz"
	"github.com/abhisek/persona/internal/screens/results"
	"github.com/abhisek/persona/internal/screens/signin"
	"github.com/abhisek/persona/internal/ui/layout"
)

// Options carries everything the TUI needs. Profiles may be nil when no
// LLM provider is configured.
type Options struct {
	Accounts      home.Account
	Backend       *backend.Client
	LoadQuestions func() (*personality.Bank, error)
	Profiles      *profile.Service
	Logger        *slog.Logger

	GraceDelay   time.Duration
	ResultsDelay time.Duration
	SaveEvery    int
	SaveTimeout  time.Duration
}

// DefaultExitWait bounds how long Run waits for background saves after
// the UI has closed.
const DefaultExitWait = 15 * time.Second

type questionsLoadedMsg struct {
	bank *personality.Bank
	err  error
}

// shared is state that route constructors read after the model has been
// copied by Bubble Tea.
type shared struct {
	opts      Options
	state     *personality.State
	tracker   *flow.Tracker
	bankTitle string
	loadErr   error
	userLabel string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	shared *shared
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	sh := &shared{
		opts:    opts,
		state:   personality.NewState(nil),
		tracker: flow.NewTracker(),
	}

	r := router.New(sh.newHome(nil))
	r.Handle(flow.PathHome, sh.newHome)
	r.Handle(flow.PathQuiz, sh.newQuiz)
	r.Handle(flow.PathResults, sh.newResults)

	return AppModel{router: r, shared: sh}
}

func (sh *shared) newHome(any) screen.Screen {
	return home.New(home.Deps{
		Accounts:  sh.opts.Accounts,
		State:     sh.state,
		BankTitle: func() string { return sh.bankTitle },
		LoadErr:   func() error { return sh.loadErr },
	})
}

func (sh *shared) newQuiz(any) screen.Screen {
	// Each run starts at the first question with an empty answer log.
	sh.state.SetCurrentQuestion(0)
	ctrl := flow.New(sh.state, sh.opts.Backend, flow.Options{
		Tracker:     sh.tracker,
		Logger:      sh.opts.Logger,
		SaveEvery:   sh.opts.SaveEvery,
		SaveTimeout: sh.opts.SaveTimeout,
	})
	sh.opts.Logger.Info("quiz started", "attempt", ctrl.AttemptID(), "questions", len(sh.state.Questions()))
	return quizscreen.New(ctrl, quizscreen.Options{
		GraceDelay:   sh.opts.GraceDelay,
		ResultsDelay: sh.opts.ResultsDelay,
	})
}

func (sh *shared) newResults(data any) screen.Screen {
	records, _ := data.([]flow.Answer)
	deps := results.Deps{
		Saved:     sh.opts.Backend,
		Tracker:   sh.tracker,
		Questions: sh.state.Questions(),
		Logger:    sh.opts.Logger,
	}
	if sh.opts.Profiles != nil {
		deps.Profiles = sh.opts.Profiles
	}
	return results.New(deps, records)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.loadQuestions(), m.router.Active().Init())
}

func (m AppModel) loadQuestions() tea.Cmd {
	load := m.shared.opts.LoadQuestions
	return func() tea.Msg {
		if load == nil {
			return questionsLoadedMsg{err: fmt.Errorf("no question source")}
		}
		bank, err := load()
		return questionsLoadedMsg{bank: bank, err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case questionsLoadedMsg:
		sh := m.shared
		sh.loadErr = msg.err
		if msg.err != nil {
			sh.opts.Logger.Error("failed to load questions", "err", msg.err)
			sh.state.SetQuestions(nil)
		} else {
			sh.bankTitle = msg.bank.Title
			sh.state.SetQuestions(msg.bank.Questions)
			sh.opts.Logger.Info("questions loaded", "count", len(msg.bank.Questions), "version", msg.bank.Version)
		}
		return m, m.router.Update(personality.QuestionsChangedMsg{Err: msg.err})

	case signin.SessionChangedMsg:
		m.shared.userLabel = ""
		if msg.Session != nil {
			m.shared.userLabel = msg.Session.UserID
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.shared.userLabel, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and, once it exits, waits (bounded)
// for background saves so answers are not lost on quit.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	_, err := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultExitWait)
	defer cancel()
	if werr := m.shared.tracker.Wait(ctx); werr != nil {
		m.shared.opts.Logger.Warn("exited with saves still running", "in_flight", m.shared.tracker.InFlight())
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
