package studentrepo

import (
	"context"
	"database/sql"

	"schoollib/model"
)

type Repo interface {
	Create(ctx context.Context, s *model.Student) (int64, error)
	Get(ctx context.Context, id int64) (*model.Student, error)
	GetByStudentID(ctx context.Context, code string) (*model.Student, error)
	List(ctx context.Context, grade int, limit int) ([]model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	SetBlocked(ctx context.Context, id int64, blocked bool, reason string) error
	Delete(ctx context.Context, id int64) error
	ExistsStudentID(ctx context.Context, code string) (bool, error)

	// GetForUpdate serializes concurrent checkouts for one student.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Student, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const studentCols = `id, student_id, name, grade_level, section, email, phone,
	guardian, guardian_phone, borrowing_limit, is_blocked, block_reason,
	created_at, updated_at`

func scanStudent(row *sql.Row) (*model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID, &s.StudentID, &s.Name, &s.GradeLevel, &s.Section, &s.Email,
		&s.Phone, &s.Guardian, &s.GuardianPhone, &s.BorrowingLimit,
		&s.IsBlocked, &s.BlockReason, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, s *model.Student) (int64, error) {
	const q = `
		INSERT INTO students (student_id, name, grade_level, section, email, phone,
			guardian, guardian_phone, borrowing_limit)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		s.StudentID, s.Name, s.GradeLevel, s.Section, s.Email, s.Phone,
		s.Guardian, s.GuardianPhone, s.BorrowingLimit,
	).Scan(&id)
	return id, err
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Student, error) {
	return scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM students WHERE id = $1`, id))
}

func (r *repo) GetByStudentID(ctx context.Context, code string) (*model.Student, error) {
	return scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM students WHERE student_id = $1`, code))
}

func (r *repo) List(ctx context.Context, grade int, limit int) ([]model.Student, error) {
	const q = `
		SELECT ` + studentCols + `
		FROM students
		WHERE ($1 = 0 OR grade_level = $1)
		ORDER BY name
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, grade, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.Name, &s.GradeLevel, &s.Section, &s.Email,
			&s.Phone, &s.Guardian, &s.GuardianPhone, &s.BorrowingLimit,
			&s.IsBlocked, &s.BlockReason, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, s *model.Student) error {
	const q = `
		UPDATE students
		SET name=$2, grade_level=$3, section=$4, email=$5, phone=$6,
			guardian=$7, guardian_phone=$8, borrowing_limit=$9, updated_at=NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.Name, s.GradeLevel, s.Section, s.Email, s.Phone,
		s.Guardian, s.GuardianPhone, s.BorrowingLimit)
	return err
}

func (r *repo) SetBlocked(ctx context.Context, id int64, blocked bool, reason string) error {
	const q = `
		UPDATE students
		SET is_blocked = $2, block_reason = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, blocked, reason)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

func (r *repo) ExistsStudentID(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM students WHERE student_id = $1`, code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Student, error) {
	return scanStudent(tx.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM students WHERE id = $1 FOR UPDATE`, id))
}
