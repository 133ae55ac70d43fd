package signin

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/router"
)

type stubAccount struct {
	gotID string
	err   error
}

func (a *stubAccount) SignIn(_ context.Context, userID, _ string, _ time.Duration) (*auth.Session, error) {
	a.gotID = userID
	if a.err != nil {
		return nil, a.err
	}
	return &auth.Session{UserID: userID}, nil
}

func typeText(s *SignInScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestSignIn_Success(t *testing.T) {
	acct := &stubAccount{}
	s := New(acct)
	typeText(s, "ada")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	res, ok := cmd().(signInResultMsg)
	require.True(t, ok)
	assert.Equal(t, "ada", acct.gotID)

	_, cmd = s.Update(res)
	require.NotNil(t, cmd)
	assert.False(t, s.busy)
}

func TestSignIn_EmptyID(t *testing.T) {
	s := New(&stubAccount{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "enter a user id", s.input.Err())
}

func TestSignIn_ErrorShown(t *testing.T) {
	s := New(&stubAccount{err: errors.New("user id must be non-empty and contain no spaces")})
	typeText(s, "a")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	assert.Contains(t, s.View(80, 24), "contain no spaces")
}

func TestSignIn_EscPops(t *testing.T) {
	s := New(&stubAccount{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}
