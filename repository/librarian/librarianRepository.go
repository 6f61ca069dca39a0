package librarianrepo

import (
	"context"
	"database/sql"

	"schoollib/model"
)

type Repo interface {
	Create(ctx context.Context, l *model.Librarian) error
	ByEmail(ctx context.Context, email string) (*model.Librarian, error)
	ByID(ctx context.Context, id int64) (*model.Librarian, error)
	List(ctx context.Context) ([]model.Librarian, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const cols = `id, name, email, password_hash, role, employee_id, phone, is_active, created_at`

func scan(row *sql.Row) (*model.Librarian, error) {
	var l model.Librarian
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.PasswordHash, &l.Role,
		&l.EmployeeID, &l.Phone, &l.IsActive, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repo) Create(ctx context.Context, l *model.Librarian) error {
	const q = `
		INSERT INTO librarians (name, email, password_hash, role, employee_id, phone)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		l.Name, l.Email, l.PasswordHash, l.Role, l.EmployeeID, l.Phone,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.Librarian, error) {
	return scan(r.db.QueryRowContext(ctx,
		`SELECT `+cols+` FROM librarians WHERE email = $1`, email))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Librarian, error) {
	return scan(r.db.QueryRowContext(ctx,
		`SELECT `+cols+` FROM librarians WHERE id = $1`, id))
}

func (r *repo) List(ctx context.Context) ([]model.Librarian, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cols+` FROM librarians ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Librarian
	for rows.Next() {
		var l model.Librarian
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.PasswordHash, &l.Role,
			&l.EmployeeID, &l.Phone, &l.IsActive, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE librarians SET is_active = $2 WHERE id = $1`, id, active)
	return err
}
