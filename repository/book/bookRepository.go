package bookrepo

import (
	"context"
	"database/sql"
	"time"

	"schoollib/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) (int64, error)
	Get(ctx context.Context, id int64) (*model.Book, error)
	GetByAccession(ctx context.Context, accession string) (*model.Book, error)
	List(ctx context.Context, status string, limit int) ([]model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	ExistsAccession(ctx context.Context, accession string) (bool, error)

	// In-transaction steps used by the circulation engine.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Book, error)
	MarkBorrowed(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error
	MarkAvailable(ctx context.Context, tx *sql.Tx, id int64) error
	SetStatus(ctx context.Context, id int64, status model.BookStatus, notes string) error

	// Census aggregates collection counters for the monthly summary.
	// weedBefore is the cutoff: books never borrowed, or not borrowed since
	// then, count as weeding candidates.
	Census(ctx context.Context, weedBefore time.Time) (model.BookCensus, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, accession_number, isbn, title, author, category, condition, location,
	status, replacement_cost, summary, total_borrows,
	last_borrowed_at, last_inventoried_at, inventory_notes, created_at, updated_at`

func scanBook(row *sql.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.AccessionNumber, &b.ISBN, &b.Title, &b.Author, &b.Category,
		&b.Condition, &b.Location, &b.Status, &b.ReplacementCost, &b.Summary,
		&b.TotalBorrows, &b.LastBorrowedAt, &b.LastInventoriedAt,
		&b.InventoryNotes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Create(ctx context.Context, b *model.Book) (int64, error) {
	const q = `
		INSERT INTO books (accession_number, isbn, title, author, category, condition,
			location, status, replacement_cost, summary)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		b.AccessionNumber, b.ISBN, b.Title, b.Author, b.Category, b.Condition,
		b.Location, model.BookAvailable, b.ReplacementCost, b.Summary,
	).Scan(&id)
	return id, err
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Book, error) {
	return scanBook(r.db.QueryRowContext(ctx, `SELECT `+bookCols+` FROM books WHERE id = $1`, id))
}

func (r *repo) GetByAccession(ctx context.Context, accession string) (*model.Book, error) {
	return scanBook(r.db.QueryRowContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE accession_number = $1`, accession))
}

func (r *repo) List(ctx context.Context, status string, limit int) ([]model.Book, error) {
	const q = `
		SELECT ` + bookCols + `
		FROM books
		WHERE ($1 = '' OR status = $1)
		ORDER BY id DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.AccessionNumber, &b.ISBN, &b.Title, &b.Author, &b.Category,
			&b.Condition, &b.Location, &b.Status, &b.ReplacementCost, &b.Summary,
			&b.TotalBorrows, &b.LastBorrowedAt, &b.LastInventoriedAt,
			&b.InventoryNotes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
		UPDATE books
		SET isbn=$2, title=$3, author=$4, category=$5, condition=$6, location=$7,
			replacement_cost=$8, summary=$9, updated_at=NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.ISBN, b.Title, b.Author, b.Category, b.Condition, b.Location,
		b.ReplacementCost, b.Summary)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

func (r *repo) ExistsAccession(ctx context.Context, accession string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM books WHERE accession_number = $1`, accession).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Book, error) {
	return scanBook(tx.QueryRowContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) MarkBorrowed(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
	const q = `
		UPDATE books
		SET status = 'borrowed',
			last_borrowed_at = $2,
			total_borrows = total_borrows + 1,
			updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, at)
	return err
}

func (r *repo) MarkAvailable(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `
		UPDATE books
		SET status = 'available', updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.BookStatus, notes string) error {
	const q = `
		UPDATE books
		SET status = $2,
			inventory_notes = CASE WHEN $3 <> '' THEN $3 ELSE inventory_notes END,
			last_inventoried_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status, notes)
	return err
}

func (r *repo) Census(ctx context.Context, weedBefore time.Time) (model.BookCensus, error) {
	var c model.BookCensus
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'borrowed'),
			COUNT(*) FILTER (WHERE status = 'missing'),
			COUNT(*) FILTER (WHERE last_borrowed_at IS NULL OR last_borrowed_at < $1),
			COALESCE(SUM(replacement_cost), 0)
		FROM books`
	err := r.db.QueryRowContext(ctx, q, weedBefore).Scan(
		&c.Total, &c.Available, &c.Borrowed, &c.Missing,
		&c.WeedingCandidates, &c.CollectionValue,
	)
	return c, err
}
