// Package backend persists quiz answers for the signed-in user.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/persona/internal/auth"
	"github.com/abhisek/persona/internal/quiz"
	"github.com/abhisek/persona/internal/store"
)

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = errors.New("not signed in")

// SessionSource looks up the signed-in user.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*auth.Session, error)
}

// Client composes a session source with user and event repositories. It
// satisfies quiz.Backend.
type Client struct {
	sessions SessionSource
	users    store.UserRepo
	events   store.EventRepo
	logger   *slog.Logger
}

var _ quiz.Backend = (*Client)(nil)

// New creates a Client. events may be nil to skip the save audit trail.
func New(sessions SessionSource, users store.UserRepo, events store.EventRepo, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		sessions: sessions,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

// CurrentSession returns the signed-in user, or nil when nobody is.
func (c *Client) CurrentSession(ctx context.Context) (*quiz.Session, error) {
	s, err := c.sessions.CurrentSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	return &quiz.Session{UserID: s.UserID}, nil
}

// UpdateSelectedOptions overwrites the user's stored answers and records
// the attempt.
func (c *Client) UpdateSelectedOptions(ctx context.Context, userID string, answers []quiz.Answer) error {
	if answers == nil {
		answers = []quiz.Answer{}
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	updateErr := c.users.UpdateSelectedOptions(ctx, userID, payload)
	c.recordSave(ctx, userID, len(answers), updateErr)
	return updateErr
}

func (c *Client) recordSave(ctx context.Context, userID string, count int, saveErr error) {
	if c.events == nil {
		return
	}
	data := store.SaveEventData{
		UserID:      userID,
		AnswerCount: count,
		Success:     saveErr == nil,
	}
	if info, ok := quiz.SaveInfoFrom(ctx); ok {
		data.AttemptID = info.AttemptID
		data.QuestionIndex = info.QuestionIndex
	}
	if saveErr != nil {
		data.ErrorMessage = saveErr.Error()
	}
	if err := c.events.AppendSaveEvent(ctx, data); err != nil {
		c.logger.Warn("failed to record save event", "user", userID, "err", err)
	}
}

// SavedAnswers returns the answers stored for the signed-in user.
func (c *Client) SavedAnswers(ctx context.Context) ([]quiz.Answer, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.users.SelectedOptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var answers []quiz.Answer
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("decode saved answers: %w", err)
	}
	return answers, nil
}

// ClearAnswers removes the signed-in user's stored answers.
func (c *Client) ClearAnswers(ctx context.Context) error {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}
	return c.users.ClearSelectedOptions(ctx, userID)
}

// RecentSaves returns the signed-in user's latest save attempts.
func (c *Client) RecentSaves(ctx context.Context, limit int) ([]store.SaveEvent, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if c.events == nil {
		return nil, nil
	}
	return c.events.RecentSaveEvents(ctx, userID, limit)
}

func (c *Client) requireUser(ctx context.Context) (string, error) {
	s, err := c.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	if s == nil || s.UserID == "" {
		return "", ErrNoSession
	}
	return s.UserID, nil
}
