// Package signin is the screen that starts a session from inside the TUI.
package signin

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/persona/internal/auth"
	flow "github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/router"
	"github.com/abhisek/persona/internal/screen"
	"github.com/abhisek/persona/internal/ui/components"
	"github.com/abhisek/persona/internal/ui/layout"
	"github.com/abhisek/persona/internal/ui/theme"
)

// SessionChangedMsg is broadcast whenever the signed-in user is looked up,
// starts or ends. Session is nil when nobody is signed in.
type SessionChangedMsg struct {
	Session *auth.Session
	Err     error
}

// Account starts sessions.
type Account interface {
	SignIn(ctx context.Context, userID, name string, ttl time.Duration) (*auth.Session, error)
}

type signInResultMsg struct {
	session *auth.Session
	err     error
}

// SignInScreen asks for a user id and signs it in.
type SignInScreen struct {
	account Account
	input   components.TextInput
	busy    bool
}

var _ screen.Screen = (*SignInScreen)(nil)
var _ screen.KeyHintProvider = (*SignInScreen)(nil)

// New creates a SignInScreen.
func New(account Account) *SignInScreen {
	return &SignInScreen{
		account: account,
		input:   components.NewTextInput("User id", "e.g. ada", 64),
	}
}

func (s *SignInScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SignInScreen) Title() string {
	return "Sign in"
}

func (s *SignInScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SignInScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		s.busy = false
		if msg.err != nil {
			s.input.SetError(msg.err.Error())
			return s, nil
		}
		session := msg.session
		return s, tea.Sequence(
			func() tea.Msg { return SessionChangedMsg{Session: session} },
			router.Navigate(flow.PathHome, nil),
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			if s.busy {
				return s, nil
			}
			id := s.input.Value()
			if id == "" {
				s.input.SetError("enter a user id")
				return s, nil
			}
			s.busy = true
			return s, s.signIn(id)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SignInScreen) signIn(id string) tea.Cmd {
	account := s.account
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		session, err := account.SignIn(ctx, id, "", 0)
		return signInResultMsg{session: session, err: err}
	}
}

func (s *SignInScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Sign in to keep your answers between runs."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	if s.busy {
		b.WriteString("\n\n" + theme.Hint.Render("Signing in…"))
	}
	return components.Frame(components.Card(b.String(), cw), width, height)
}
