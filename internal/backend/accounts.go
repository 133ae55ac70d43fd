package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/store"
)

// ErrInvalidUserID is returned for empty ids or ids containing whitespace.
var ErrInvalidUserID = errors.New("user id must be non-empty and contain no spaces")

// SessionStore is a session source that can also start and end sessions.
type SessionStore interface {
	SessionSource
	Login(userID, name string, ttl time.Duration) (*auth.Session, error)
	Logout() error
}

// Accounts signs users in and out. Signing in makes sure the user row
// exists so later answer saves have somewhere to go.
type Accounts struct {
	sessions SessionStore
	users    store.UserRepo
}

// NewAccounts creates an Accounts.
func NewAccounts(sessions SessionStore, users store.UserRepo) *Accounts {
	return &Accounts{sessions: sessions, users: users}
}

// Current returns the signed-in session or nil.
func (a *Accounts) Current(ctx context.Context) (*auth.Session, error) {
	return a.sessions.CurrentSession(ctx)
}

// SignIn registers userID (keeping any saved answers) and starts a session.
// ttl <= 0 selects auth.DefaultTTL.
func (a *Accounts) SignIn(ctx context.Context, userID, name string, ttl time.Duration) (*auth.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.IndexFunc(userID, unicode.IsSpace) >= 0 {
		return nil, ErrInvalidUserID
	}
	if ttl <= 0 {
		ttl = auth.DefaultTTL
	}
	if err := a.users.EnsureUser(ctx, userID, strings.TrimSpace(name)); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	s, err := a.sessions.Login(userID, strings.TrimSpace(name), ttl)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

// SignOut ends the current session. Saved answers are kept.
func (a *Accounts) SignOut() error {
	if err := a.sessions.Logout(); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}
