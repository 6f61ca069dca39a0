package studentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"schoollib/model"
	loanrepo "schoollib/repository/loan"
	studentrepo "schoollib/repository/student"
	"schoollib/service/policy"
)

var (
	ErrDuplicateStudentID = errors.New("student ID already exists")
	ErrBadInput           = errors.New("bad input")
	ErrNotFound           = errors.New("student not found")
	ErrHasActiveLoans     = errors.New("cannot delete student with active loans")
)

// NewStudent is one row of a registration or CSV-sourced bulk import. The
// borrowing limit is not part of it: it is assigned from the grade band
// unless staff override it later.
type NewStudent struct {
	StudentID     string
	Name          string
	GradeLevel    int
	Section       string
	Email         string
	Phone         string
	Guardian      string
	GuardianPhone string
}

type BulkResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type Service interface {
	Create(ctx context.Context, in NewStudent) (*model.Student, error)
	Get(ctx context.Context, id int64) (*model.Student, error)
	GetByStudentID(ctx context.Context, code string) (*model.Student, error)
	List(ctx context.Context, grade, limit int) ([]model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	Block(ctx context.Context, id int64, reason string) error
	Unblock(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error

	// BulkCreate imports parsed rows, skipping duplicates instead of
	// failing the batch.
	BulkCreate(ctx context.Context, rows []NewStudent) (*BulkResult, error)
	CheckDuplicates(ctx context.Context, studentIDs []string) ([]string, error)
}

type service struct {
	students studentrepo.Repo
	loans    loanrepo.Repo
	pol      policy.Service
}

func New(students studentrepo.Repo, loans loanrepo.Repo, pol policy.Service) Service {
	return &service{students: students, loans: loans, pol: pol}
}

func (s *service) Create(ctx context.Context, in NewStudent) (*model.Student, error) {
	if in.StudentID == "" || in.Name == "" {
		return nil, ErrBadInput
	}
	limit, err := s.pol.BorrowingLimit(ctx, in.GradeLevel)
	if err != nil {
		return nil, err
	}
	st := &model.Student{
		StudentID:      in.StudentID,
		Name:           in.Name,
		GradeLevel:     in.GradeLevel,
		Section:        in.Section,
		Email:          in.Email,
		Phone:          in.Phone,
		Guardian:       in.Guardian,
		GuardianPhone:  in.GuardianPhone,
		BorrowingLimit: limit,
	}
	id, err := s.students.Create(ctx, st)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateStudentID
		}
		return nil, err
	}
	st.ID = id
	return st, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Student, error) {
	st, err := s.students.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return st, err
}

func (s *service) GetByStudentID(ctx context.Context, code string) (*model.Student, error) {
	st, err := s.students.GetByStudentID(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return st, err
}

func (s *service) List(ctx context.Context, grade, limit int) ([]model.Student, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.students.List(ctx, grade, limit)
}

// Update recomputes the grade-band limit when the grade changed, unless the
// caller supplied an explicit override.
func (s *service) Update(ctx context.Context, in *model.Student) error {
	if in.Name == "" {
		return ErrBadInput
	}
	current, err := s.students.Get(ctx, in.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if in.BorrowingLimit == 0 {
		if in.GradeLevel != current.GradeLevel {
			limit, err := s.pol.BorrowingLimit(ctx, in.GradeLevel)
			if err != nil {
				return err
			}
			in.BorrowingLimit = limit
		} else {
			in.BorrowingLimit = current.BorrowingLimit
		}
	}
	return s.students.Update(ctx, in)
}

func (s *service) Block(ctx context.Context, id int64, reason string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.students.SetBlocked(ctx, id, true, reason)
}

func (s *service) Unblock(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.students.SetBlocked(ctx, id, false, "")
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	open, err := s.loans.CountOpenByStudent(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrHasActiveLoans
	}
	return s.students.Delete(ctx, id)
}

func (s *service) BulkCreate(ctx context.Context, rows []NewStudent) (*BulkResult, error) {
	res := &BulkResult{}
	for _, row := range rows {
		if row.StudentID == "" || row.Name == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("invalid row: %q", row.StudentID))
			continue
		}
		_, err := s.Create(ctx, row)
		if errors.Is(err, ErrDuplicateStudentID) {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("duplicate: %s", row.StudentID))
			continue
		}
		if err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func (s *service) CheckDuplicates(ctx context.Context, studentIDs []string) ([]string, error) {
	var dups []string
	for _, code := range studentIDs {
		exists, err := s.students.ExistsStudentID(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			dups = append(dups, code)
		}
	}
	return dups, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
