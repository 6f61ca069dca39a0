// Package report holds the periodic sweeps: overdue reclassification and the
// weekly/monthly rollup snapshots. All of them are safe to re-run; the sweep
// changes nothing on a second pass and each summary run writes a fresh
// snapshot instead of updating a prior one.
package report

import (
	"context"
	"encoding/json"
	"time"

	"schoollib/model"
	auditrepo "schoollib/repository/audit"
	bookrepo "schoollib/repository/book"
	loanrepo "schoollib/repository/loan"
)

const weedingCutoffDays = 180

type SweepResult struct {
	OverdueCount int64     `json:"overdue_count"`
	CheckedAt    time.Time `json:"checked_at"`
}

type Service interface {
	// OverdueSweep flags open loans past due. Returns the count of loans
	// newly flagged by this run.
	OverdueSweep(ctx context.Context) (*SweepResult, error)

	WeeklySummary(ctx context.Context) (*model.WeeklySummary, error)
	MonthlySummary(ctx context.Context) (*model.MonthlySummary, error)
	History(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type service struct {
	loans loanrepo.Repo
	books bookrepo.Repo
	audit auditrepo.Repo
}

func New(loans loanrepo.Repo, books bookrepo.Repo, audit auditrepo.Repo) Service {
	return &service{loans: loans, books: books, audit: audit}
}

func (s *service) OverdueSweep(ctx context.Context) (*SweepResult, error) {
	now := time.Now()
	flagged, err := s.loans.FlagOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	res := &SweepResult{OverdueCount: flagged, CheckedAt: now}
	if err := s.snapshot(ctx, model.AuditOverdueSweep, "sweep", res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) WeeklySummary(ctx context.Context) (*model.WeeklySummary, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	st, err := s.loans.Stats(ctx, weekAgo, now)
	if err != nil {
		return nil, err
	}

	sum := &model.WeeklySummary{
		TotalCheckouts:   st.Checkouts,
		TotalReturns:     st.Returns,
		OverdueReturns:   st.OverdueReturns,
		CurrentlyOverdue: st.CurrentOverdue,
		PeriodStart:      weekAgo,
		PeriodEnd:        now,
		GeneratedAt:      now,
	}
	if err := s.snapshot(ctx, model.AuditWeeklySummary, "weekly", sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *service) MonthlySummary(ctx context.Context) (*model.MonthlySummary, error) {
	now := time.Now()
	monthAgo := now.AddDate(0, 0, -30)

	st, err := s.loans.Stats(ctx, monthAgo, now)
	if err != nil {
		return nil, err
	}
	census, err := s.books.Census(ctx, now.AddDate(0, 0, -weedingCutoffDays))
	if err != nil {
		return nil, err
	}

	sum := &model.MonthlySummary{
		TotalBooks:           census.Total,
		AvailableBooks:       census.Available,
		BorrowedBooks:        census.Borrowed,
		MissingBooks:         census.Missing,
		MonthlyCheckouts:     st.Checkouts,
		MonthlyReturns:       st.Returns,
		WeedingCandidates:    census.WeedingCandidates,
		TotalCollectionValue: census.CollectionValue,
		PeriodStart:          monthAgo,
		PeriodEnd:            now,
		GeneratedAt:          now,
	}
	if err := s.snapshot(ctx, model.AuditMonthlySummary, "monthly", sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *service) History(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.audit.ListReportHistory(ctx, limit)
}

func (s *service) snapshot(ctx context.Context, action, entityID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.audit.Insert(ctx, &model.AuditLog{
		Action:     action,
		EntityType: "report",
		EntityID:   entityID,
		Details:    raw,
	})
}
