package loanrepo

import (
	"context"
	"database/sql"
	"time"

	"schoollib/model"
)

type Repo interface {
	// In-transaction steps for the circulation engine.
	Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) (int64, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error)
	GetOpenByBookForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*model.Transaction, error)
	ListOpenByStudent(ctx context.Context, tx *sql.Tx, studentID int64) ([]model.Transaction, error)
	Close(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time, wasOverdue bool, notes string) error
	Renew(ctx context.Context, tx *sql.Tx, id int64, newDue time.Time) error

	// Sweep + reads.
	FlagOverdue(ctx context.Context, now time.Time) (int64, error)
	CountOpenByStudent(ctx context.Context, studentID int64) (int, error)
	// OpenByStudent is the lock-free read used by the validate pre-check.
	OpenByStudent(ctx context.Context, studentID int64) ([]model.Transaction, error)
	ListActive(ctx context.Context, limit int) ([]model.LoanRow, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.LoanRow, error)
	ListRecent(ctx context.Context, limit int) ([]model.LoanRow, error)
	HistoryByStudent(ctx context.Context, studentID int64, limit int) ([]model.LoanRow, error)
	OpenLoansForKiosk(ctx context.Context, studentID int64) ([]model.LoanRow, error)
	Stats(ctx context.Context, since, until time.Time) (model.CirculationStats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const txCols = `id, student_id, book_id, librarian_id, checkout_date, due_date,
	return_date, is_returned, is_overdue, renewal_count, max_renewals, device, notes`

func scanTx(row *sql.Row) (*model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(
		&t.ID, &t.StudentID, &t.BookID, &t.LibrarianID, &t.CheckoutDate,
		&t.DueDate, &t.ReturnDate, &t.IsReturned, &t.IsOverdue,
		&t.RenewalCount, &t.MaxRenewals, &t.Device, &t.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) (int64, error) {
	const q = `
		INSERT INTO transactions (student_id, book_id, librarian_id, checkout_date,
			due_date, is_returned, is_overdue, renewal_count, max_renewals, device)
		VALUES ($1,$2,$3,$4,$5,FALSE,FALSE,0,$6,$7)
		RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q,
		t.StudentID, t.BookID, t.LibrarianID, t.CheckoutDate, t.DueDate,
		t.MaxRenewals, t.Device,
	).Scan(&id)
	return id, err
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	return scanTx(tx.QueryRowContext(ctx,
		`SELECT `+txCols+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) GetOpenByBookForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*model.Transaction, error) {
	const q = `
		SELECT ` + txCols + `
		FROM transactions
		WHERE book_id = $1 AND NOT is_returned
		FOR UPDATE`
	return scanTx(tx.QueryRowContext(ctx, q, bookID))
}

const openByStudentQ = `
	SELECT ` + txCols + `
	FROM transactions
	WHERE student_id = $1 AND NOT is_returned
	ORDER BY id`

func collectTxRows(rows *sql.Rows) ([]model.Transaction, error) {
	defer rows.Close()
	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(
			&t.ID, &t.StudentID, &t.BookID, &t.LibrarianID, &t.CheckoutDate,
			&t.DueDate, &t.ReturnDate, &t.IsReturned, &t.IsOverdue,
			&t.RenewalCount, &t.MaxRenewals, &t.Device, &t.Notes,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) ListOpenByStudent(ctx context.Context, tx *sql.Tx, studentID int64) ([]model.Transaction, error) {
	rows, err := tx.QueryContext(ctx, openByStudentQ, studentID)
	if err != nil {
		return nil, err
	}
	return collectTxRows(rows)
}

// Close finalizes a loan. is_overdue only ever goes from false to true here;
// a loan flagged overdue by the sweep stays flagged even when returned late
// and re-run dates would disagree.
func (r *repo) Close(ctx context.Context, tx *sql.Tx, id int64, returnedAt time.Time, wasOverdue bool, notes string) error {
	const q = `
		UPDATE transactions
		SET return_date = $2,
			is_returned = TRUE,
			is_overdue = is_overdue OR $3,
			notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, returnedAt, wasOverdue, notes)
	return err
}

func (r *repo) Renew(ctx context.Context, tx *sql.Tx, id int64, newDue time.Time) error {
	const q = `
		UPDATE transactions
		SET due_date = $2, renewal_count = renewal_count + 1
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, newDue)
	return err
}

// FlagOverdue is the sweep's single idempotent statement: rows already
// flagged are not touched, so a second run in the same state affects zero.
func (r *repo) FlagOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE transactions
		SET is_overdue = TRUE
		WHERE NOT is_returned AND NOT is_overdue AND due_date < $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) OpenByStudent(ctx context.Context, studentID int64) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, openByStudentQ, studentID)
	if err != nil {
		return nil, err
	}
	return collectTxRows(rows)
}

func (r *repo) CountOpenByStudent(ctx context.Context, studentID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE student_id = $1 AND NOT is_returned`,
		studentID).Scan(&n)
	return n, err
}

const loanRowSelect = `
	SELECT t.id, s.id, s.student_id, s.name, s.grade_level,
		b.id, b.title, b.accession_number,
		t.checkout_date, t.due_date, t.return_date,
		t.is_returned, t.is_overdue, t.renewal_count, t.device
	FROM transactions t
	JOIN students s ON s.id = t.student_id
	JOIN books b ON b.id = t.book_id`

func collectLoanRows(rows *sql.Rows) ([]model.LoanRow, error) {
	defer rows.Close()
	var out []model.LoanRow
	for rows.Next() {
		var l model.LoanRow
		if err := rows.Scan(
			&l.TransactionID, &l.StudentRowID, &l.StudentID, &l.StudentName,
			&l.GradeLevel, &l.BookID, &l.BookTitle, &l.AccessionNumber,
			&l.CheckoutDate, &l.DueDate, &l.ReturnDate,
			&l.IsReturned, &l.IsOverdue, &l.RenewalCount, &l.Device,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) ListActive(ctx context.Context, limit int) ([]model.LoanRow, error) {
	rows, err := r.db.QueryContext(ctx, loanRowSelect+`
		WHERE NOT t.is_returned
		ORDER BY t.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectLoanRows(rows)
}

func (r *repo) ListOverdue(ctx context.Context, now time.Time) ([]model.LoanRow, error) {
	rows, err := r.db.QueryContext(ctx, loanRowSelect+`
		WHERE NOT t.is_returned AND t.due_date < $1
		ORDER BY t.due_date`, now)
	if err != nil {
		return nil, err
	}
	out, err := collectLoanRows(rows)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].DaysOverdue = int(now.Sub(out[i].DueDate).Hours() / 24)
	}
	return out, nil
}

func (r *repo) ListRecent(ctx context.Context, limit int) ([]model.LoanRow, error) {
	rows, err := r.db.QueryContext(ctx, loanRowSelect+`
		ORDER BY t.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectLoanRows(rows)
}

func (r *repo) HistoryByStudent(ctx context.Context, studentID int64, limit int) ([]model.LoanRow, error) {
	rows, err := r.db.QueryContext(ctx, loanRowSelect+`
		WHERE t.student_id = $1
		ORDER BY t.id DESC
		LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, err
	}
	return collectLoanRows(rows)
}

func (r *repo) OpenLoansForKiosk(ctx context.Context, studentID int64) ([]model.LoanRow, error) {
	rows, err := r.db.QueryContext(ctx, loanRowSelect+`
		WHERE t.student_id = $1 AND NOT t.is_returned
		ORDER BY t.due_date`, studentID)
	if err != nil {
		return nil, err
	}
	return collectLoanRows(rows)
}

func (r *repo) Stats(ctx context.Context, since, until time.Time) (model.CirculationStats, error) {
	var st model.CirculationStats
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE checkout_date >= $1 AND checkout_date <= $2),
			COUNT(*) FILTER (WHERE checkout_date >= $1 AND checkout_date <= $2 AND is_returned),
			COUNT(*) FILTER (WHERE checkout_date >= $1 AND checkout_date <= $2 AND is_overdue AND is_returned),
			COUNT(*) FILTER (WHERE NOT is_returned),
			COUNT(*) FILTER (WHERE NOT is_returned AND due_date < $2)
		FROM transactions`
	err := r.db.QueryRowContext(ctx, q, since, until).Scan(
		&st.Checkouts, &st.Returns, &st.OverdueReturns,
		&st.ActiveLoans, &st.CurrentOverdue,
	)
	return st, err
}
