package studentsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoollib/model"
	loanrepo "schoollib/repository/loan"
	settingsrepo "schoollib/repository/settings"
	studentrepo "schoollib/repository/student"
	"schoollib/service/policy"
)

// Mocks embed the repo interface and override only what a test exercises.

type studentRepoMock struct {
	studentrepo.Repo
	createFn func(ctx context.Context, s *model.Student) (int64, error)
	getFn    func(ctx context.Context, id int64) (*model.Student, error)
	updateFn func(ctx context.Context, s *model.Student) error
	blockFn  func(ctx context.Context, id int64, blocked bool, reason string) error
	deleteFn func(ctx context.Context, id int64) error
	existsFn func(ctx context.Context, code string) (bool, error)
}

func (m *studentRepoMock) Create(ctx context.Context, s *model.Student) (int64, error) {
	return m.createFn(ctx, s)
}

func (m *studentRepoMock) Get(ctx context.Context, id int64) (*model.Student, error) {
	return m.getFn(ctx, id)
}

func (m *studentRepoMock) Update(ctx context.Context, s *model.Student) error {
	return m.updateFn(ctx, s)
}

func (m *studentRepoMock) SetBlocked(ctx context.Context, id int64, blocked bool, reason string) error {
	return m.blockFn(ctx, id, blocked, reason)
}

func (m *studentRepoMock) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *studentRepoMock) ExistsStudentID(ctx context.Context, code string) (bool, error) {
	return m.existsFn(ctx, code)
}

type loanRepoMock struct {
	loanrepo.Repo
	countOpenFn func(ctx context.Context, studentID int64) (int, error)
}

func (m *loanRepoMock) CountOpenByStudent(ctx context.Context, studentID int64) (int, error) {
	return m.countOpenFn(ctx, studentID)
}

type settingsMock struct {
	settingsrepo.Repo
}

func (settingsMock) Get(context.Context, string) (json.RawMessage, bool, error) {
	return nil, false, nil
}

func defaultPolicy() policy.Service { return policy.New(settingsMock{}) }

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
}

func TestCreate_AssignsGradeBandLimit(t *testing.T) {
	var created *model.Student
	students := &studentRepoMock{
		createFn: func(_ context.Context, s *model.Student) (int64, error) {
			created = s
			return 42, nil
		},
	}
	svc := New(students, &loanRepoMock{}, defaultPolicy())

	st, err := svc.Create(context.Background(), NewStudent{
		StudentID: "2026-0001", Name: "Ana Reyes", GradeLevel: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), st.ID)
	require.NotNil(t, created)
	assert.Equal(t, 5, created.BorrowingLimit)
}

func TestCreate_Duplicate(t *testing.T) {
	students := &studentRepoMock{
		createFn: func(context.Context, *model.Student) (int64, error) {
			return 0, uniqueViolation()
		},
	}
	svc := New(students, &loanRepoMock{}, defaultPolicy())

	_, err := svc.Create(context.Background(), NewStudent{StudentID: "2026-0001", Name: "Ana"})
	assert.ErrorIs(t, err, ErrDuplicateStudentID)
}

func TestCreate_BadInput(t *testing.T) {
	svc := New(&studentRepoMock{}, &loanRepoMock{}, defaultPolicy())

	_, err := svc.Create(context.Background(), NewStudent{Name: "No ID"})
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestBulkCreate_SkipsDuplicatesAndBadRows(t *testing.T) {
	seen := map[string]bool{"2026-0002": true}
	students := &studentRepoMock{
		createFn: func(_ context.Context, s *model.Student) (int64, error) {
			if seen[s.StudentID] {
				return 0, uniqueViolation()
			}
			seen[s.StudentID] = true
			return int64(len(seen)), nil
		},
	}
	svc := New(students, &loanRepoMock{}, defaultPolicy())

	res, err := svc.BulkCreate(context.Background(), []NewStudent{
		{StudentID: "2026-0001", Name: "Ana", GradeLevel: 3},
		{StudentID: "2026-0002", Name: "Ben", GradeLevel: 5},
		{StudentID: "", Name: "No ID"},
		{StudentID: "2026-0003", Name: "Carla", GradeLevel: 11},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)
}

func TestUpdate_RecomputesLimitOnGradeChange(t *testing.T) {
	var updated *model.Student
	students := &studentRepoMock{
		getFn: func(context.Context, int64) (*model.Student, error) {
			return &model.Student{ID: 1, Name: "Ana", GradeLevel: 2, BorrowingLimit: 1}, nil
		},
		updateFn: func(_ context.Context, s *model.Student) error {
			updated = s
			return nil
		},
	}
	svc := New(students, &loanRepoMock{}, defaultPolicy())

	err := svc.Update(context.Background(), &model.Student{ID: 1, Name: "Ana", GradeLevel: 8})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.BorrowingLimit)
}

func TestUpdate_KeepsExplicitOverride(t *testing.T) {
	var updated *model.Student
	students := &studentRepoMock{
		getFn: func(context.Context, int64) (*model.Student, error) {
			return &model.Student{ID: 1, Name: "Ana", GradeLevel: 2, BorrowingLimit: 1}, nil
		},
		updateFn: func(_ context.Context, s *model.Student) error {
			updated = s
			return nil
		},
	}
	svc := New(students, &loanRepoMock{}, defaultPolicy())

	err := svc.Update(context.Background(), &model.Student{
		ID: 1, Name: "Ana", GradeLevel: 8, BorrowingLimit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.BorrowingLimit)
}

func TestDelete_RefusedWithActiveLoans(t *testing.T) {
	students := &studentRepoMock{
		getFn: func(context.Context, int64) (*model.Student, error) {
			return &model.Student{ID: 1, Name: "Ana"}, nil
		},
	}
	loans := &loanRepoMock{
		countOpenFn: func(context.Context, int64) (int, error) { return 2, nil },
	}
	svc := New(students, loans, defaultPolicy())

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrHasActiveLoans)
}

func TestBlock_MissingStudent(t *testing.T) {
	students := &studentRepoMock{
		getFn: func(context.Context, int64) (*model.Student, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(students, &loanRepoMock{}, defaultPolicy())

	err := svc.Block(context.Background(), 99, "lost books")
	assert.ErrorIs(t, err, ErrNotFound)
}
