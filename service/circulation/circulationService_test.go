package circulation

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoollib/model"
	auditrepo "schoollib/repository/audit"
	bookrepo "schoollib/repository/book"
	loanrepo "schoollib/repository/loan"
	studentrepo "schoollib/repository/student"
)

type loanRepoMock struct {
	loanrepo.Repo
	getOpenByBookFn func(ctx context.Context, tx *sql.Tx, bookID int64) (*model.Transaction, error)
}

func (m *loanRepoMock) GetOpenByBookForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (*model.Transaction, error) {
	return m.getOpenByBookFn(ctx, tx, bookID)
}

// bookRepoMock fails loudly if the book row is touched; the absence path
// must not mutate anything.
type bookRepoMock struct {
	bookrepo.Repo
	t *testing.T
}

func (m *bookRepoMock) MarkAvailable(context.Context, *sql.Tx, int64) error {
	m.t.Fatal("MarkAvailable called on a rejected check-in")
	return nil
}

type studentRepoStub struct{ studentrepo.Repo }

type auditRepoStub struct {
	auditrepo.Repo
	t *testing.T
}

func (m *auditRepoStub) InsertTx(context.Context, *sql.Tx, *model.AuditLog) error {
	m.t.Fatal("audit written on a rejected check-in")
	return nil
}

func TestCheckIn_NoActiveLoan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	loans := &loanRepoMock{
		getOpenByBookFn: func(context.Context, *sql.Tx, int64) (*model.Transaction, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(db, loans, &bookRepoMock{t: t}, studentRepoStub{}, &auditRepoStub{t: t}, nil, nil)

	_, err = svc.CheckIn(context.Background(), 42, nil, "kiosk", "")
	require.Error(t, err)
	assert.Equal(t, ErrNoActiveLoan, Code(err))

	// The transaction rolled back and nothing else ran.
	assert.NoError(t, mock.ExpectationsWereMet())
}
