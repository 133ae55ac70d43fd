// Package postgres stores user records and audit events in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhisek/persona/internal/store"
)

// IsURL reports whether dsn names a Postgres database.
func IsURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Store wraps a gorm connection.
type Store struct {
	db *gorm.DB
}

// Open connects to the database at dsn and migrates the models.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	db, err := openDB(postgres.Open(dsn), log)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&UserInfo{}, &SaveEvent{}, &LLMRequest{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func openDB(dialector gorm.Dialector, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Users returns a store.UserRepo backed by Postgres.
func (s *Store) Users() store.UserRepo {
	return &userRepo{db: s.db}
}

// Events returns a store.EventRepo backed by Postgres.
func (s *Store) Events() store.EventRepo {
	return &eventRepo{db: s.db}
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) EnsureUser(ctx context.Context, id, name string) error {
	if id == "" {
		return errors.New("ensure user: empty id")
	}
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}
	if name != "" {
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
		}
	}
	err := r.db.WithContext(ctx).
		Clauses(conflict).
		Create(&UserInfo{ID: id, DisplayName: name}).Error
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateSelectedOptions(ctx context.Context, id string, answers json.RawMessage) error {
	res := r.db.WithContext(ctx).
		Model(&UserInfo{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"selected_options": datatypes.JSON(answers),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update selected options: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update selected options for %s: %w", id, store.ErrUserNotFound)
	}
	return nil
}

func (r *userRepo) SelectedOptions(ctx context.Context, id string) (json.RawMessage, error) {
	var u UserInfo
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("selected options for %s: %w", id, store.ErrUserNotFound)
		}
		return nil, fmt.Errorf("query selected options: %w", err)
	}
	if len(u.SelectedOptions) == 0 {
		return nil, nil
	}
	return json.RawMessage(u.SelectedOptions), nil
}

func (r *userRepo) ClearSelectedOptions(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&UserInfo{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"selected_options": gorm.Expr("NULL"),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("clear selected options: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("clear selected options for %s: %w", id, store.ErrUserNotFound)
	}
	return nil
}

type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendSaveEvent(ctx context.Context, data store.SaveEventData) error {
	e := &SaveEvent{
		AttemptID:     data.AttemptID,
		UserID:        data.UserID,
		QuestionIndex: data.QuestionIndex,
		AnswerCount:   data.AnswerCount,
		Success:       data.Success,
		ErrorMessage:  data.ErrorMessage,
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("save save event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSaveEvents(ctx context.Context, userID string, limit int) ([]store.SaveEvent, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []SaveEvent
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query save events: %w", err)
	}
	out := make([]store.SaveEvent, len(rows))
	for i, row := range rows {
		out[i] = row.toStore()
	}
	return out, nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	e := &LLMRequest{
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}
