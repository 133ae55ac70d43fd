package postgres

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u:p@localhost/db", true},
		{"postgresql://localhost/db", true},
		{"/home/u/.local/share/persona/persona.db", false},
		{"file:persona.db", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.dsn); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestTableNames(t *testing.T) {
	if got := (UserInfo{}).TableName(); got != "userinfo" {
		t.Errorf("UserInfo table = %q", got)
	}
}

func TestSaveEventToStore(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	got := SaveEvent{
		ID: 9, AttemptID: "a", UserID: "u", QuestionIndex: 3,
		AnswerCount: 4, Success: false, ErrorMessage: "down", CreatedAt: at,
	}.toStore()

	if got.ID != 9 || got.Sequence != 9 {
		t.Errorf("id/sequence = %d/%d, want 9/9", got.ID, got.Sequence)
	}
	if got.UserID != "u" || got.QuestionIndex != 3 || got.AnswerCount != 4 {
		t.Errorf("unexpected data: %+v", got.SaveEventData)
	}
	if got.Success || got.ErrorMessage != "down" || !got.CreatedAt.Equal(at) {
		t.Errorf("unexpected outcome: %+v", got)
	}
}

func TestGormLoggerWritesToSlog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	slogWriter{log: log}.Printf("slow query %d", 42)
	if !strings.Contains(buf.String(), "slow query 42") || !strings.Contains(buf.String(), "component=gorm") {
		t.Errorf("unexpected log output: %q", buf.String())
	}

	if newGormLogger(nil) != logger.Discard {
		t.Error("nil slog logger should discard gorm output")
	}
}
