package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoollib/model"
	auditrepo "schoollib/repository/audit"
	bookrepo "schoollib/repository/book"
	loanrepo "schoollib/repository/loan"
)

type loanRepoMock struct {
	loanrepo.Repo
	flagOverdueFn func(ctx context.Context, now time.Time) (int64, error)
	statsFn       func(ctx context.Context, since, until time.Time) (model.CirculationStats, error)
}

func (m *loanRepoMock) FlagOverdue(ctx context.Context, now time.Time) (int64, error) {
	return m.flagOverdueFn(ctx, now)
}

func (m *loanRepoMock) Stats(ctx context.Context, since, until time.Time) (model.CirculationStats, error) {
	return m.statsFn(ctx, since, until)
}

type bookRepoMock struct {
	bookrepo.Repo
	censusFn func(ctx context.Context, weedBefore time.Time) (model.BookCensus, error)
}

func (m *bookRepoMock) Census(ctx context.Context, weedBefore time.Time) (model.BookCensus, error) {
	return m.censusFn(ctx, weedBefore)
}

type auditRepoMock struct {
	auditrepo.Repo
	entries []*model.AuditLog
}

func (m *auditRepoMock) Insert(_ context.Context, e *model.AuditLog) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestOverdueSweep_FlagsAndSnapshots(t *testing.T) {
	loans := &loanRepoMock{
		flagOverdueFn: func(context.Context, time.Time) (int64, error) { return 3, nil },
	}
	audit := &auditRepoMock{}
	svc := New(loans, &bookRepoMock{}, audit)

	res, err := svc.OverdueSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.OverdueCount)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, model.AuditOverdueSweep, entry.Action)
	assert.Equal(t, "report", entry.EntityType)

	var snap SweepResult
	require.NoError(t, json.Unmarshal(entry.Details, &snap))
	assert.Equal(t, int64(3), snap.OverdueCount)
}

func TestOverdueSweep_SecondRunYieldsZero(t *testing.T) {
	// The sweep only counts newly flagged rows, so with nothing newly past
	// due the second run reports zero while still writing its snapshot.
	counts := []int64{2, 0}
	loans := &loanRepoMock{
		flagOverdueFn: func(context.Context, time.Time) (int64, error) {
			n := counts[0]
			counts = counts[1:]
			return n, nil
		},
	}
	audit := &auditRepoMock{}
	svc := New(loans, &bookRepoMock{}, audit)

	first, err := svc.OverdueSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.OverdueCount)

	second, err := svc.OverdueSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.OverdueCount)
	assert.Len(t, audit.entries, 2)
}

func TestWeeklySummary(t *testing.T) {
	loans := &loanRepoMock{
		statsFn: func(_ context.Context, since, until time.Time) (model.CirculationStats, error) {
			assert.WithinDuration(t, until.AddDate(0, 0, -7), since, time.Second)
			return model.CirculationStats{
				Checkouts: 12, Returns: 9, OverdueReturns: 2, CurrentOverdue: 4,
			}, nil
		},
	}
	audit := &auditRepoMock{}
	svc := New(loans, &bookRepoMock{}, audit)

	sum, err := svc.WeeklySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum.TotalCheckouts)
	assert.Equal(t, int64(9), sum.TotalReturns)
	assert.Equal(t, int64(2), sum.OverdueReturns)
	assert.Equal(t, int64(4), sum.CurrentlyOverdue)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, model.AuditWeeklySummary, audit.entries[0].Action)
}

func TestMonthlySummary(t *testing.T) {
	loans := &loanRepoMock{
		statsFn: func(context.Context, time.Time, time.Time) (model.CirculationStats, error) {
			return model.CirculationStats{Checkouts: 40, Returns: 35}, nil
		},
	}
	books := &bookRepoMock{
		censusFn: func(_ context.Context, weedBefore time.Time) (model.BookCensus, error) {
			assert.WithinDuration(t, time.Now().AddDate(0, 0, -180), weedBefore, time.Minute)
			return model.BookCensus{
				Total: 500, Available: 420, Borrowed: 70, Missing: 10,
				WeedingCandidates: 25, CollectionValue: 123456.78,
			}, nil
		},
	}
	audit := &auditRepoMock{}
	svc := New(loans, books, audit)

	sum, err := svc.MonthlySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(500), sum.TotalBooks)
	assert.Equal(t, int64(70), sum.BorrowedBooks)
	assert.Equal(t, int64(25), sum.WeedingCandidates)
	assert.Equal(t, 123456.78, sum.TotalCollectionValue)
	assert.Equal(t, int64(40), sum.MonthlyCheckouts)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, model.AuditMonthlySummary, audit.entries[0].Action)
}
