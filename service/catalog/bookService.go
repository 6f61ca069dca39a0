package catalogsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"schoollib/model"
	bookrepo "schoollib/repository/book"
	loanrepo "schoollib/repository/loan"
)

var (
	ErrDuplicateAccession = errors.New("accession number already exists")
	ErrBadInput           = errors.New("bad input")
	ErrNotFound           = errors.New("book not found")
	ErrBookBorrowed       = errors.New("cannot delete a borrowed book")
	ErrBadStatus          = errors.New("invalid book status")
)

type BulkResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type Service interface {
	Create(ctx context.Context, b *model.Book) (int64, error)
	Get(ctx context.Context, id int64) (*model.Book, error)
	GetByAccession(ctx context.Context, accession string) (*model.Book, error)
	List(ctx context.Context, status string, limit int) ([]model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error

	// SetStatus is the inventory path: mark missing/damaged/weeded, or put
	// a repaired copy back to available. Circulation statuses (borrowed)
	// are owned by the circulation engine and rejected here.
	SetStatus(ctx context.Context, id int64, status model.BookStatus, notes string) error

	// BulkCreate imports accessioned rows, skipping duplicates instead of
	// failing the batch.
	BulkCreate(ctx context.Context, rows []*model.Book) (*BulkResult, error)

	// CheckDuplicates reports which accession numbers already exist,
	// shared with the bulk import path.
	CheckDuplicates(ctx context.Context, accessions []string) ([]string, error)
}

type service struct {
	books bookrepo.Repo
	loans loanrepo.Repo
}

func New(books bookrepo.Repo, loans loanrepo.Repo) Service {
	return &service{books: books, loans: loans}
}

func (s *service) Create(ctx context.Context, b *model.Book) (int64, error) {
	if b.AccessionNumber == "" || b.Title == "" || b.Author == "" || b.ReplacementCost < 0 {
		return 0, ErrBadInput
	}
	id, err := s.books.Create(ctx, b)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateAccession
		}
		return 0, err
	}
	return id, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.books.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) GetByAccession(ctx context.Context, accession string) (*model.Book, error) {
	b, err := s.books.GetByAccession(ctx, accession)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) List(ctx context.Context, status string, limit int) ([]model.Book, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.books.List(ctx, status, limit)
}

func (s *service) Update(ctx context.Context, b *model.Book) error {
	if b.Title == "" || b.Author == "" || b.ReplacementCost < 0 {
		return ErrBadInput
	}
	return s.books.Update(ctx, b)
}

// Delete refuses while the copy is out: the open loan references it.
func (s *service) Delete(ctx context.Context, id int64) error {
	b, err := s.books.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if b.Status == model.BookBorrowed {
		return ErrBookBorrowed
	}
	return s.books.Delete(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, id int64, status model.BookStatus, notes string) error {
	switch status {
	case model.BookAvailable, model.BookReserved, model.BookMissing,
		model.BookDamaged, model.BookWeeded:
	default:
		return ErrBadStatus
	}
	b, err := s.books.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if b.Status == model.BookBorrowed {
		return ErrBookBorrowed
	}
	return s.books.SetStatus(ctx, id, status, notes)
}

func (s *service) BulkCreate(ctx context.Context, rows []*model.Book) (*BulkResult, error) {
	res := &BulkResult{}
	for _, row := range rows {
		_, err := s.Create(ctx, row)
		switch {
		case errors.Is(err, ErrDuplicateAccession):
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("duplicate: %s", row.AccessionNumber))
			continue
		case errors.Is(err, ErrBadInput):
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("invalid row: %q", row.AccessionNumber))
			continue
		case err != nil:
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func (s *service) CheckDuplicates(ctx context.Context, accessions []string) ([]string, error) {
	var dups []string
	for _, a := range accessions {
		exists, err := s.books.ExistsAccession(ctx, a)
		if err != nil {
			return nil, err
		}
		if exists {
			dups = append(dups, a)
		}
	}
	return dups, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
