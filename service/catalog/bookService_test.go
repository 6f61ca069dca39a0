package catalogsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoollib/model"
	bookrepo "schoollib/repository/book"
	loanrepo "schoollib/repository/loan"
)

type bookRepoMock struct {
	bookrepo.Repo
	createFn    func(ctx context.Context, b *model.Book) (int64, error)
	getFn       func(ctx context.Context, id int64) (*model.Book, error)
	deleteFn    func(ctx context.Context, id int64) error
	setStatusFn func(ctx context.Context, id int64, status model.BookStatus, notes string) error
	existsFn    func(ctx context.Context, accession string) (bool, error)
}

func (m *bookRepoMock) Create(ctx context.Context, b *model.Book) (int64, error) {
	return m.createFn(ctx, b)
}

func (m *bookRepoMock) Get(ctx context.Context, id int64) (*model.Book, error) {
	return m.getFn(ctx, id)
}

func (m *bookRepoMock) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *bookRepoMock) SetStatus(ctx context.Context, id int64, status model.BookStatus, notes string) error {
	return m.setStatusFn(ctx, id, status, notes)
}

func (m *bookRepoMock) ExistsAccession(ctx context.Context, accession string) (bool, error) {
	return m.existsFn(ctx, accession)
}

type loanRepoStub struct{ loanrepo.Repo }

func validBook() *model.Book {
	return &model.Book{
		AccessionNumber: "ACC-0001",
		Title:           "Florante at Laura",
		Author:          "Francisco Balagtas",
	}
}

func TestCreate_MapsUniqueViolation(t *testing.T) {
	books := &bookRepoMock{
		createFn: func(context.Context, *model.Book) (int64, error) {
			return 0, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	svc := New(books, loanRepoStub{})

	_, err := svc.Create(context.Background(), validBook())
	assert.ErrorIs(t, err, ErrDuplicateAccession)
}

func TestCreate_RejectsMissingFields(t *testing.T) {
	svc := New(&bookRepoMock{}, loanRepoStub{})

	b := validBook()
	b.Title = ""
	_, err := svc.Create(context.Background(), b)
	assert.ErrorIs(t, err, ErrBadInput)

	b = validBook()
	b.ReplacementCost = -1
	_, err = svc.Create(context.Background(), b)
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestDelete_RefusedWhileBorrowed(t *testing.T) {
	books := &bookRepoMock{
		getFn: func(context.Context, int64) (*model.Book, error) {
			b := validBook()
			b.ID = 1
			b.Status = model.BookBorrowed
			return b, nil
		},
	}
	svc := New(books, loanRepoStub{})

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBookBorrowed)
}

func TestSetStatus_RejectsCirculationStatus(t *testing.T) {
	svc := New(&bookRepoMock{}, loanRepoStub{})

	err := svc.SetStatus(context.Background(), 1, model.BookBorrowed, "")
	assert.ErrorIs(t, err, ErrBadStatus)

	err = svc.SetStatus(context.Background(), 1, "shredded", "")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestSetStatus_InventoryPath(t *testing.T) {
	var gotStatus model.BookStatus
	var gotNotes string
	books := &bookRepoMock{
		getFn: func(context.Context, int64) (*model.Book, error) {
			b := validBook()
			b.ID = 1
			b.Status = model.BookAvailable
			return b, nil
		},
		setStatusFn: func(_ context.Context, _ int64, status model.BookStatus, notes string) error {
			gotStatus, gotNotes = status, notes
			return nil
		},
	}
	svc := New(books, loanRepoStub{})

	require.NoError(t, svc.SetStatus(context.Background(), 1, model.BookDamaged, "water damage"))
	assert.Equal(t, model.BookDamaged, gotStatus)
	assert.Equal(t, "water damage", gotNotes)
}

func TestGet_NotFound(t *testing.T) {
	books := &bookRepoMock{
		getFn: func(context.Context, int64) (*model.Book, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(books, loanRepoStub{})

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulkCreate_SkipsDuplicatesAndBadRows(t *testing.T) {
	seen := map[string]bool{"ACC-0002": true}
	books := &bookRepoMock{
		createFn: func(_ context.Context, b *model.Book) (int64, error) {
			if seen[b.AccessionNumber] {
				return 0, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
			}
			seen[b.AccessionNumber] = true
			return int64(len(seen)), nil
		},
	}
	svc := New(books, loanRepoStub{})

	first := validBook()
	dup := validBook()
	dup.AccessionNumber = "ACC-0002"
	bad := validBook()
	bad.AccessionNumber = "ACC-0003"
	bad.Title = ""
	last := validBook()
	last.AccessionNumber = "ACC-0004"

	res, err := svc.BulkCreate(context.Background(), []*model.Book{first, dup, bad, last})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)
}

func TestCheckDuplicates(t *testing.T) {
	books := &bookRepoMock{
		existsFn: func(_ context.Context, accession string) (bool, error) {
			return accession == "ACC-0002", nil
		},
	}
	svc := New(books, loanRepoStub{})

	dups, err := svc.CheckDuplicates(context.Background(), []string{"ACC-0001", "ACC-0002", "ACC-0003"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACC-0002"}, dups)
}
