package auditrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"schoollib/model"
)

// Append-only: there is no update or delete on this table. Corrections are
// new entries.
type Repo interface {
	Insert(ctx context.Context, e *model.AuditLog) error
	InsertTx(ctx context.Context, tx *sql.Tx, e *model.AuditLog) error
	ListReportHistory(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const insertQ = `
	INSERT INTO audit_logs (librarian_id, action, entity_type, entity_id, details, device, ip_address)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

func args(e *model.AuditLog) []any {
	var details any
	if len(e.Details) > 0 {
		details = []byte(e.Details)
	}
	return []any{e.LibrarianID, e.Action, e.EntityType, e.EntityID, details, e.Device, e.IPAddress}
}

func (r *repo) Insert(ctx context.Context, e *model.AuditLog) error {
	_, err := r.db.ExecContext(ctx, insertQ, args(e)...)
	return err
}

func (r *repo) InsertTx(ctx context.Context, tx *sql.Tx, e *model.AuditLog) error {
	_, err := tx.ExecContext(ctx, insertQ, args(e)...)
	return err
}

func (r *repo) ListReportHistory(ctx context.Context, limit int) ([]model.AuditLog, error) {
	const q = `
		SELECT id, librarian_id, action, entity_type, entity_id, details, device, ip_address, timestamp
		FROM audit_logs
		WHERE action IN ('overdue_sweep','weekly_summary','monthly_summary')
		ORDER BY timestamp DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AuditLog
	for rows.Next() {
		var e model.AuditLog
		var details []byte
		if err := rows.Scan(&e.ID, &e.LibrarianID, &e.Action, &e.EntityType,
			&e.EntityID, &details, &e.Device, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Details = json.RawMessage(details)
		out = append(out, e)
	}
	return out, rows.Err()
}
