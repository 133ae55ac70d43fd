package home

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/personality"
	flow "github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/router"
	"github.com/abhisek/persona/internal/screens/signin"
)

type stubAccount struct {
	session    *auth.Session
	signedOut  bool
	signOutErr error
}

func (a *stubAccount) Current(context.Context) (*auth.Session, error) { return a.session, nil }

func (a *stubAccount) SignIn(_ context.Context, id, _ string, _ time.Duration) (*auth.Session, error) {
	a.session = &auth.Session{UserID: id}
	return a.session, nil
}

func (a *stubAccount) SignOut() error {
	a.signedOut = true
	return a.signOutErr
}

func newHome(acct *stubAccount, n int) *HomeScreen {
	qs := make([]personality.Question, n)
	for i := range qs {
		qs[i] = personality.Question{Text: "q", Options: []personality.Option{{Text: "a"}}}
	}
	return New(Deps{Accounts: acct, State: personality.NewState(qs)})
}

func TestHome_LoadsSession(t *testing.T) {
	acct := &stubAccount{session: &auth.Session{UserID: "ada", Name: "Ada"}}
	h := newHome(acct, 3)

	msg := h.Init()()
	changed, ok := msg.(signin.SessionChangedMsg)
	require.True(t, ok)
	h.Update(changed)

	assert.Equal(t, "Sign out", h.menu.Items[1].Label)
	assert.Contains(t, h.View(100, 40), "Welcome back, Ada")
}

func TestHome_StartNavigatesToQuiz(t *testing.T) {
	h := newHome(&stubAccount{}, 3)
	assert.Equal(t, "3 questions", h.menu.Items[0].Hint)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	nav, ok := cmd().(router.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, flow.PathQuiz, nav.Path)
}

func TestHome_SignInPushesScreen(t *testing.T) {
	h := newHome(&stubAccount{}, 1)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &signin.SignInScreen{}, push.Screen)
}

func TestHome_SignOut(t *testing.T) {
	acct := &stubAccount{session: &auth.Session{UserID: "ada"}}
	h := newHome(acct, 1)
	h.Update(signin.SessionChangedMsg{Session: acct.session})

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	h.Update(cmd())

	assert.True(t, acct.signedOut)
	assert.Nil(t, h.session)
	assert.Equal(t, "Sign in", h.menu.Items[1].Label)
	assert.Equal(t, 1, h.menu.Selected)
}

func TestHome_SignOutFailureKeepsSession(t *testing.T) {
	acct := &stubAccount{session: &auth.Session{UserID: "ada"}, signOutErr: errors.New("read-only fs")}
	h := newHome(acct, 1)
	h.Update(signin.SessionChangedMsg{Session: acct.session})

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	h.Update(cmd())

	require.NotNil(t, h.session)
	assert.Contains(t, h.View(100, 40), "read-only fs")
}

func TestHome_LoadError(t *testing.T) {
	h := newHome(&stubAccount{}, 0)
	h.Update(personality.QuestionsChangedMsg{Err: errors.New("bad version")})

	assert.Equal(t, "questions not loaded", h.menu.Items[0].Hint)
	assert.Contains(t, h.View(100, 40), "bad version")
}
