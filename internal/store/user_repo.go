package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// userRepo implements UserRepo with the ent SQL builder.
type userRepo struct {
	db *sql.DB
}

func (r *userRepo) EnsureUser(ctx context.Context, id, name string) error {
	if id == "" {
		return errors.New("ensure user: empty id")
	}
	now := time.Now().UTC()

	insert := entsql.Dialect(dialect.SQLite).
		Insert(tableUserInfo).
		Columns(colID, colDisplayName, colCreatedAt, colUpdatedAt).
		Values(id, name, now, now)
	if name == "" {
		insert.OnConflict(entsql.ConflictColumns(colID), entsql.DoNothing())
	} else {
		insert.OnConflict(
			entsql.ConflictColumns(colID),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded(colDisplayName)
				u.SetExcluded(colUpdatedAt)
			}),
		)
	}

	query, args := insert.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateSelectedOptions(ctx context.Context, id string, answers json.RawMessage) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tableUserInfo).
		Set(colSelectedOptions, string(answers)).
		Set(colUpdatedAt, time.Now().UTC()).
		Where(entsql.EQ(colID, id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update selected options: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update selected options: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update selected options for %s: %w", id, ErrUserNotFound)
	}
	return nil
}

func (r *userRepo) SelectedOptions(ctx context.Context, id string) (json.RawMessage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(colSelectedOptions).
		From(entsql.Table(tableUserInfo)).
		Where(entsql.EQ(colID, id)).
		Query()

	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("selected options for %s: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("query selected options: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	return json.RawMessage(raw.String), nil
}

func (r *userRepo) ClearSelectedOptions(ctx context.Context, id string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tableUserInfo).
		SetNull(colSelectedOptions).
		Set(colUpdatedAt, time.Now().UTC()).
		Where(entsql.EQ(colID, id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("clear selected options: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("clear selected options for %s: %w", id, ErrUserNotFound)
	}
	return nil
}
