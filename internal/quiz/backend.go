package quiz

import (
	"context"

	"github.com/abhisek/persona/internal/personality"
)

// Session identifies the signed-in user a save is addressed to.
type Session struct {
	UserID string
}

// Backend is where answers are persisted.
type Backend interface {
	// CurrentSession returns the active session, or nil when nobody is
	// signed in.
	CurrentSession(ctx context.Context) (*Session, error)

	// UpdateSelectedOptions replaces the user's saved answers with answers.
	UpdateSelectedOptions(ctx context.Context, userID string, answers []Answer) error
}

// QuestionSource is the shared question list and position.
type QuestionSource interface {
	Questions() []personality.Question
	CurrentQuestion() int
	SetCurrentQuestion(index int)
	UpdateCurrentQuestion(fn func(int) int)
}

// SaveInfo describes the save a backend call belongs to.
type SaveInfo struct {
	AttemptID     string
	QuestionIndex int
}

type saveInfoKey struct{}

// WithSaveInfo attaches save metadata to ctx.
func WithSaveInfo(ctx context.Context, info SaveInfo) context.Context {
	return context.WithValue(ctx, saveInfoKey{}, info)
}

// SaveInfoFrom extracts save metadata from ctx.
func SaveInfoFrom(ctx context.Context) (SaveInfo, bool) {
	info, ok := ctx.Value(saveInfoKey{}).(SaveInfo)
	return info, ok
}
