package settingsrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"schoollib/model"
)

type Repo interface {
	// Get returns (value, found, error). Absence is not an error: the
	// policy resolver substitutes defaults.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	List(ctx context.Context) ([]model.Setting, error)
	Upsert(ctx context.Context, key string, value json.RawMessage, description string) error
	Delete(ctx context.Context, key string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var v []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *repo) List(ctx context.Context) ([]model.Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, description, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Setting
	for rows.Next() {
		var s model.Setting
		var v []byte
		if err := rows.Scan(&s.Key, &v, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Value = v
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) Upsert(ctx context.Context, key string, value json.RawMessage, description string) error {
	const q = `
		INSERT INTO settings (key, value, description, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			description = CASE WHEN EXCLUDED.description <> '' THEN EXCLUDED.description ELSE settings.description END,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, key, []byte(value), description)
	return err
}

func (r *repo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	return err
}
