package results

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/persona/internal/backend"
	"github.com/abhisek/persona/internal/personality"
	"github.com/abhisek/persona/internal/profile"
	flow "github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/router"
	"github.com/abhisek/persona/internal/screen"
	"github.com/abhisek/persona/internal/ui/layout"
	"github.com/abhisek/persona/internal/ui/theme"
)

// DefaultSettleTimeout bounds how long the screen waits for in-flight
// saves before reading the stored answers.
const DefaultSettleTimeout = 3 * time.Second

type saveStatus int

const (
	statusChecking saveStatus = iota
	statusSaved
	statusNoSession
	statusStillSaving
	statusMismatch
	statusFailed
)

// SavedAnswers reads back what the backend holds for the signed-in user.
type SavedAnswers interface {
	SavedAnswers(ctx context.Context) ([]flow.Answer, error)
}

// ProfileGenerator writes a personality profile from answers.
type ProfileGenerator interface {
	Generate(ctx context.Context, questions []personality.Question, answers []flow.Answer) (*profile.Profile, error)
}

// Deps are the results screen's collaborators. Profiles may be nil.
type Deps struct {
	Saved         SavedAnswers
	Tracker       *flow.Tracker
	Questions     []personality.Question
	Profiles      ProfileGenerator
	Logger        *slog.Logger
	SettleTimeout time.Duration
}

// ResultsScreen shows the answers just given, the trait tally and whether
// the answers reached storage.
type ResultsScreen struct {
	deps    Deps
	records []flow.Answer
	tally   []profile.TraitCount

	status  saveStatus
	saveErr error

	profile        *profile.Profile
	profileErr     error
	profilePending bool

	spinner spinner.Model
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for records.
func New(deps Deps, records []flow.Answer) *ResultsScreen {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.SettleTimeout <= 0 {
		deps.SettleTimeout = DefaultSettleTimeout
	}
	if deps.Tracker == nil {
		deps.Tracker = flow.NewTracker()
	}
	return &ResultsScreen{
		deps:           deps,
		records:        records,
		tally:          profile.Tally(deps.Questions, records),
		status:         statusChecking,
		profilePending: deps.Profiles != nil && len(records) > 0,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Checked),
		),
	}
}

func (r *ResultsScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{r.checkSaved(), r.spinner.Tick}
	if r.profilePending {
		cmds = append(cmds, r.generateProfile())
	}
	return tea.Batch(cmds...)
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case saveCheckedMsg:
		r.status = msg.status
		r.saveErr = msg.err
		return r, nil

	case profileMsg:
		r.profilePending = false
		r.profile = msg.profile
		r.profileErr = msg.err
		return r, nil

	case spinner.TickMsg:
		if r.status != statusChecking && !r.profilePending {
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q":
			return r, router.Navigate(flow.PathHome, nil)
		}
	}
	return r, nil
}

// checkSaved waits (bounded) for background saves, then compares the
// stored answers with this run's records.
func (r *ResultsScreen) checkSaved() tea.Cmd {
	deps := r.deps
	records := r.records
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.SettleTimeout)
		defer cancel()

		if err := deps.Tracker.Wait(ctx); err != nil {
			deps.Logger.Warn("saves still running when results opened", "err", err)
			return saveCheckedMsg{status: statusStillSaving}
		}

		saved, err := deps.Saved.SavedAnswers(ctx)
		switch {
		case errors.Is(err, backend.ErrNoSession):
			return saveCheckedMsg{status: statusNoSession}
		case err != nil:
			deps.Logger.Error("failed to load saved answers", "err", err)
			return saveCheckedMsg{status: statusFailed, err: err}
		}
		if !sameRecords(saved, records) {
			return saveCheckedMsg{status: statusMismatch}
		}
		return saveCheckedMsg{status: statusSaved}
	}
}

func (r *ResultsScreen) generateProfile() tea.Cmd {
	gen := r.deps.Profiles
	questions := r.deps.Questions
	records := r.records
	logger := r.deps.Logger
	return func() tea.Msg {
		p, err := gen.Generate(context.Background(), questions, records)
		if err != nil {
			logger.Warn("profile unavailable", "err", err)
		}
		return profileMsg{profile: p, err: err}
	}
}

func sameRecords(a, b []flow.Answer) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
