package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrUserNotFound is returned when an update targets a user row that does
// not exist.
var ErrUserNotFound = errors.New("user not found")

// UserRepo manages user records and their saved quiz answers.
type UserRepo interface {
	// EnsureUser creates the user row if missing. A non-empty name
	// replaces the stored display name.
	EnsureUser(ctx context.Context, id, name string) error

	// UpdateSelectedOptions overwrites the stored answers wholesale.
	// Returns ErrUserNotFound when no row matched.
	UpdateSelectedOptions(ctx context.Context, id string, answers json.RawMessage) error

	// SelectedOptions returns the stored answers, or nil if none were saved.
	SelectedOptions(ctx context.Context, id string) (json.RawMessage, error)

	// ClearSelectedOptions removes the stored answers.
	ClearSelectedOptions(ctx context.Context, id string) error
}

// SaveEventData captures a single attempt to persist quiz answers.
type SaveEventData struct {
	AttemptID     string
	UserID        string
	QuestionIndex int
	AnswerCount   int
	Success       bool
	ErrorMessage  string
}

// SaveEvent is a stored SaveEventData.
type SaveEvent struct {
	ID        int64
	Sequence  int64
	CreatedAt time.Time
	SaveEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to audit events.
type EventRepo interface {
	// AppendSaveEvent records an answer persistence attempt.
	AppendSaveEvent(ctx context.Context, data SaveEventData) error

	// RecentSaveEvents returns up to limit save events for userID,
	// newest first. limit <= 0 means no limit.
	RecentSaveEvents(ctx context.Context, userID string, limit int) ([]SaveEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
