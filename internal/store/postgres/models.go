package postgres

import (
	"time"

	"gorm.io/datatypes"

	"github.com/abhisek/persona/internal/store"
)

type UserInfo struct {
	ID              string         `gorm:"primaryKey;type:text"`
	DisplayName     string         `gorm:"not null;default:''"`
	SelectedOptions datatypes.JSON `gorm:"type:jsonb"` // []quiz.Answer

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserInfo) TableName() string { return "userinfo" }

// SaveEvent rows are ordered by their auto-increment id.
type SaveEvent struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	AttemptID     string `gorm:"not null;index"`
	UserID        string `gorm:"not null;index"`
	QuestionIndex int
	AnswerCount   int
	Success       bool
	ErrorMessage  string

	CreatedAt time.Time
}

type LLMRequest struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	Provider     string
	Model        string
	Purpose      string `gorm:"index"`
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string

	CreatedAt time.Time
}

func (e SaveEvent) toStore() store.SaveEvent {
	return store.SaveEvent{
		ID:        e.ID,
		Sequence:  e.ID,
		CreatedAt: e.CreatedAt,
		SaveEventData: store.SaveEventData{
			AttemptID:     e.AttemptID,
			UserID:        e.UserID,
			QuestionIndex: e.QuestionIndex,
			AnswerCount:   e.AnswerCount,
			Success:       e.Success,
			ErrorMessage:  e.ErrorMessage,
		},
	}
}
