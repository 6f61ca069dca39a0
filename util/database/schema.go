package database

import (
	"context"
	"database/sql"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so startup is safe against an already-provisioned database.
//
// The partial unique index on open transactions is what makes
// "at most one open loan per book" hold even if two checkouts race past the
// row locks.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS librarians (
			id            BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('admin','staff','student_assistant')),
			employee_id   TEXT NOT NULL DEFAULT '',
			phone         TEXT NOT NULL DEFAULT '',
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id              BIGSERIAL PRIMARY KEY,
			student_id      TEXT NOT NULL UNIQUE,
			name            TEXT NOT NULL,
			grade_level     INT NOT NULL,
			section         TEXT NOT NULL DEFAULT '',
			email           TEXT NOT NULL DEFAULT '',
			phone           TEXT NOT NULL DEFAULT '',
			guardian        TEXT NOT NULL DEFAULT '',
			guardian_phone  TEXT NOT NULL DEFAULT '',
			borrowing_limit INT NOT NULL,
			is_blocked      BOOLEAN NOT NULL DEFAULT FALSE,
			block_reason    TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_students_grade ON students (grade_level)`,
		`CREATE TABLE IF NOT EXISTS books (
			id                  BIGSERIAL PRIMARY KEY,
			accession_number    TEXT NOT NULL UNIQUE,
			isbn                TEXT NOT NULL DEFAULT '',
			title               TEXT NOT NULL,
			author              TEXT NOT NULL,
			category            TEXT NOT NULL DEFAULT '',
			condition           TEXT NOT NULL DEFAULT 'good',
			location            TEXT NOT NULL DEFAULT '',
			status              TEXT NOT NULL DEFAULT 'available'
				CHECK (status IN ('available','borrowed','reserved','missing','damaged','weeded')),
			replacement_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
			summary             TEXT NOT NULL DEFAULT '',
			total_borrows       BIGINT NOT NULL DEFAULT 0,
			last_borrowed_at    TIMESTAMPTZ,
			last_inventoried_at TIMESTAMPTZ,
			inventory_notes     TEXT NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_books_status ON books (status)`,
		`CREATE INDEX IF NOT EXISTS idx_books_last_borrowed ON books (last_borrowed_at)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id            BIGSERIAL PRIMARY KEY,
			student_id    BIGINT NOT NULL REFERENCES students(id),
			book_id       BIGINT NOT NULL REFERENCES books(id),
			librarian_id  BIGINT REFERENCES librarians(id),
			checkout_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			due_date      TIMESTAMPTZ NOT NULL,
			return_date   TIMESTAMPTZ,
			is_returned   BOOLEAN NOT NULL DEFAULT FALSE,
			is_overdue    BOOLEAN NOT NULL DEFAULT FALSE,
			renewal_count INT NOT NULL DEFAULT 0,
			max_renewals  INT NOT NULL,
			device        TEXT NOT NULL DEFAULT '',
			notes         TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_open_loan_per_book
			ON transactions (book_id) WHERE NOT is_returned`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_student ON transactions (student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_open ON transactions (is_returned, due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_checkout ON transactions (checkout_date)`,
		`CREATE TABLE IF NOT EXISTS holidays (
			id           BIGSERIAL PRIMARY KEY,
			date         DATE NOT NULL,
			name         TEXT NOT NULL,
			type         TEXT NOT NULL CHECK (type IN ('national','school','special')),
			is_recurring BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_holidays_date_name ON holidays (date, name)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key         TEXT PRIMARY KEY,
			value       JSONB NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id           BIGSERIAL PRIMARY KEY,
			librarian_id BIGINT REFERENCES librarians(id),
			action       TEXT NOT NULL,
			entity_type  TEXT NOT NULL,
			entity_id    TEXT NOT NULL DEFAULT '',
			details      JSONB,
			device       TEXT NOT NULL DEFAULT '',
			ip_address   TEXT NOT NULL DEFAULT '',
			timestamp    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_logs (action, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
