package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/personality"
	flow "github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/router"
	"github.com/abhisek/persona/internal/screen"
	"github.com/abhisek/persona/internal/screens/signin"
	"github.com/abhisek/persona/internal/ui/components"
	"github.com/abhisek/persona/internal/ui/layout"
	"github.com/abhisek/persona/internal/ui/theme"
)

// Account looks up, starts and ends sessions.
type Account interface {
	signin.Account
	Current(ctx context.Context) (*auth.Session, error)
	SignOut() error
}

// Deps are the home screen's collaborators. BankTitle and LoadErr are
// read lazily because the bank loads after the screen is built; either
// may be nil.
type Deps struct {
	Accounts  Account
	State     *personality.State
	BankTitle func() string
	LoadErr   func() error
}

// HomeScreen is the entry screen ("/").
type HomeScreen struct {
	deps    Deps
	menu    components.Menu
	session *auth.Session
	notice  string
	loadErr error
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	if deps.LoadErr != nil {
		h.loadErr = deps.LoadErr()
	}
	h.buildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSession()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signin.SessionChangedMsg:
		h.session = msg.Session
		h.notice = ""
		if msg.Err != nil {
			h.notice = "Could not read your session: " + msg.Err.Error()
		}
		h.buildMenu()
		return h, nil

	case personality.QuestionsChangedMsg:
		h.loadErr = msg.Err
		h.buildMenu()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) loadSession() tea.Cmd {
	accounts := h.deps.Accounts
	return func() tea.Msg {
		s, err := accounts.Current(context.Background())
		return signin.SessionChangedMsg{Session: s, Err: err}
	}
}

func (h *HomeScreen) signOut() tea.Cmd {
	accounts := h.deps.Accounts
	return func() tea.Msg {
		if err := accounts.SignOut(); err != nil {
			return signin.SessionChangedMsg{Session: h.session, Err: err}
		}
		return signin.SessionChangedMsg{}
	}
}

func (h *HomeScreen) questionCount() int {
	if h.deps.State == nil {
		return 0
	}
	return len(h.deps.State.Questions())
}

func (h *HomeScreen) buildMenu() {
	n := h.questionCount()
	start := components.MenuItem{
		Label: "Start quiz",
		Hint:  fmt.Sprintf("%d questions", n),
		Action: func() tea.Cmd {
			return router.Navigate(flow.PathQuiz, nil)
		},
	}
	if n == 0 {
		start.Hint = "questions not loaded"
	}

	account := components.MenuItem{
		Label: "Sign in",
		Hint:  "save your answers",
		Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: signin.New(h.deps.Accounts)}
			}
		},
	}
	if h.session != nil {
		account = components.MenuItem{
			Label:  "Sign out",
			Hint:   h.session.UserID,
			Action: h.signOut,
		}
	}

	items := []components.MenuItem{
		start,
		account,
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	selected := 0
	if len(h.menu.Items) == len(items) {
		selected = h.menu.Selected
	}
	h.menu = components.NewMenu(items)
	h.menu.Selected = selected
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompact(width, height+6)

	sections := []string{renderBanner(cw, compact)}

	subtitle := "A short quiz about how you like to spend your time."
	if h.deps.BankTitle != nil {
		if t := h.deps.BankTitle(); t != "" {
			subtitle = t
		}
	}
	sections = append(sections, components.Centered(theme.Subtitle.Render(subtitle), cw))

	if h.session != nil {
		who := h.session.UserID
		if h.session.Name != "" {
			who = h.session.Name
		}
		sections = append(sections, components.Centered(theme.Body.Render("Welcome back, "+who), cw))
	} else {
		sections = append(sections, components.Centered(theme.Hint.Render("Answers are only kept for signed-in users."), cw))
	}

	if h.loadErr != nil {
		sections = append(sections, components.Centered(theme.ErrorText.Render("Question bank failed to load: "+h.loadErr.Error()), cw))
	}
	if h.notice != "" {
		sections = append(sections, components.Centered(theme.Warning.Render(h.notice), cw))
	}

	sections = append(sections, components.Centered(h.menu.View(), cw))
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
