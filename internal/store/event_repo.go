package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendSaveEvent(ctx context.Context, data SaveEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSaveEvents).
		Columns(colSequence, colAttemptID, colUserID, colQuestionIndex,
			colAnswerCount, colSuccess, colErrorMessage, colCreatedAt).
		Values(seqNum, data.AttemptID, data.UserID, data.QuestionIndex,
			data.AnswerCount, data.Success, data.ErrorMessage, time.Now().UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save save event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSaveEvents(ctx context.Context, userID string, limit int) ([]SaveEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(colID, colSequence, colAttemptID, colUserID, colQuestionIndex,
			colAnswerCount, colSuccess, colErrorMessage, colCreatedAt).
		From(entsql.Table(tableSaveEvents)).
		Where(entsql.EQ(colUserID, userID)).
		OrderBy(entsql.Desc(colSequence))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query save events: %w", err)
	}
	defer rows.Close()

	var events []SaveEvent
	for rows.Next() {
		var e SaveEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.AttemptID, &e.UserID,
			&e.QuestionIndex, &e.AnswerCount, &e.Success, &e.ErrorMessage,
			&e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan save event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate save events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableLLMRequest).
		Columns(colSequence, colProvider, colModel, colPurpose, colInputTokens,
			colOutputTokens, colLatencyMs, colSuccess, colErrorMessage, colCreatedAt).
		Values(seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, time.Now().UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}
