// model/audit.go
package model

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only trail entry. Circulation mutations write one
// inside the same database transaction as the state change; report sweeps
// store their snapshots here as well.
type AuditLog struct {
	ID          int64           `json:"id"`
	LibrarianID *int64          `json:"librarian_id,omitempty"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
	Device      string          `json:"device,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Audit actions.
const (
	AuditCheckout       = "checkout"
	AuditCheckin        = "checkin"
	AuditRenew          = "renew"
	AuditOverdueSweep   = "overdue_sweep"
	AuditWeeklySummary  = "weekly_summary"
	AuditMonthlySummary = "monthly_summary"
)
