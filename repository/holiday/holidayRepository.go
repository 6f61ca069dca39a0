package holidayrepo

import (
	"context"
	"database/sql"
	"time"

	"schoollib/model"
)

type Repo interface {
	ListAll(ctx context.Context) ([]model.Holiday, error)
	ListYear(ctx context.Context, year int) ([]model.Holiday, error)
	Add(ctx context.Context, h *model.Holiday) (int64, error)
	Delete(ctx context.Context, id int64) error
	ExistsOn(ctx context.Context, day time.Time) (bool, error)

	// Dates returns just the calendar days, for due-date computation.
	Dates(ctx context.Context) ([]time.Time, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func collect(rows *sql.Rows) ([]model.Holiday, error) {
	defer rows.Close()
	var out []model.Holiday
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.Type, &h.IsRecurring); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) ListAll(ctx context.Context) ([]model.Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, name, type, is_recurring FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repo) ListYear(ctx context.Context, year int) ([]model.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, name, type, is_recurring
		FROM holidays
		WHERE EXTRACT(YEAR FROM date) = $1
		ORDER BY date`, year)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repo) Add(ctx context.Context, h *model.Holiday) (int64, error) {
	const q = `
		INSERT INTO holidays (date, name, type, is_recurring)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (date, name) DO NOTHING
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q, h.Date, h.Name, h.Type, h.IsRecurring).Scan(&id)
	if err == sql.ErrNoRows {
		// Already registered; not an error for preset seeding.
		return 0, nil
	}
	return id, err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	return err
}

func (r *repo) ExistsOn(ctx context.Context, day time.Time) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM holidays WHERE date = $1 LIMIT 1`, day.Format("2006-01-02")).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *repo) Dates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM holidays`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
