package authsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoollib/model"
	librarianrepo "schoollib/repository/librarian"
	"schoollib/util/hash"
	jwtutil "schoollib/util/jwt"
)

const testSecret = "unit-test-secret"

type librarianRepoMock struct {
	librarianrepo.Repo
	createFn    func(ctx context.Context, l *model.Librarian) error
	byEmailFn   func(ctx context.Context, email string) (*model.Librarian, error)
	byIDFn      func(ctx context.Context, id int64) (*model.Librarian, error)
	setActiveFn func(ctx context.Context, id int64, active bool) error
}

func (m *librarianRepoMock) Create(ctx context.Context, l *model.Librarian) error {
	return m.createFn(ctx, l)
}

func (m *librarianRepoMock) ByEmail(ctx context.Context, email string) (*model.Librarian, error) {
	return m.byEmailFn(ctx, email)
}

func (m *librarianRepoMock) ByID(ctx context.Context, id int64) (*model.Librarian, error) {
	return m.byIDFn(ctx, id)
}

func (m *librarianRepoMock) SetActive(ctx context.Context, id int64, active bool) error {
	return m.setActiveFn(ctx, id, active)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := New(&librarianRepoMock{}, testSecret)

	_, err := svc.Register(context.Background(), "Ana", "ana@school.ph", "secret123", "superuser", "", "")
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestRegister_HashesPassword(t *testing.T) {
	var created *model.Librarian
	repo := &librarianRepoMock{
		createFn: func(_ context.Context, l *model.Librarian) error {
			created = l
			l.ID = 7
			return nil
		},
	}
	svc := New(repo, testSecret)

	l, err := svc.Register(context.Background(), "Ana", "ana@school.ph", "secret123", model.RoleStaff, "EMP-01", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), l.ID)
	assert.True(t, l.IsActive)

	require.NotNil(t, created)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.True(t, hash.Check(created.PasswordHash, "secret123"))
}

func activeLibrarian(t *testing.T) *model.Librarian {
	t.Helper()
	hashed, err := hash.Password("secret123")
	require.NoError(t, err)
	return &model.Librarian{
		ID: 3, Name: "Ana", Email: "ana@school.ph",
		PasswordHash: hashed, Role: model.RoleAdmin, IsActive: true,
	}
}

func TestLogin_Success(t *testing.T) {
	repo := &librarianRepoMock{
		byEmailFn: func(context.Context, string) (*model.Librarian, error) {
			return activeLibrarian(t), nil
		},
	}
	svc := New(repo, testSecret)

	l, token, err := svc.Login(context.Background(), "ana@school.ph", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), l.ID)

	claims, err := jwtutil.ParseAuth("Bearer "+token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, float64(3), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &librarianRepoMock{
		byEmailFn: func(context.Context, string) (*model.Librarian, error) {
			return activeLibrarian(t), nil
		},
	}
	svc := New(repo, testSecret)

	_, _, err := svc.Login(context.Background(), "ana@school.ph", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &librarianRepoMock{
		byEmailFn: func(context.Context, string) (*model.Librarian, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(repo, testSecret)

	_, _, err := svc.Login(context.Background(), "nobody@school.ph", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestSetActive_MissingLibrarian(t *testing.T) {
	repo := &librarianRepoMock{
		byIDFn: func(context.Context, int64) (*model.Librarian, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(repo, testSecret)

	err := svc.SetActive(context.Background(), 99, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetActive_FlipsFlag(t *testing.T) {
	var gotID int64
	var gotActive bool
	repo := &librarianRepoMock{
		byIDFn: func(context.Context, int64) (*model.Librarian, error) {
			return activeLibrarian(t), nil
		},
		setActiveFn: func(_ context.Context, id int64, active bool) error {
			gotID, gotActive = id, active
			return nil
		},
	}
	svc := New(repo, testSecret)

	require.NoError(t, svc.SetActive(context.Background(), 3, false))
	assert.Equal(t, int64(3), gotID)
	assert.False(t, gotActive)
}

func TestLogin_Inactive(t *testing.T) {
	repo := &librarianRepoMock{
		byEmailFn: func(context.Context, string) (*model.Librarian, error) {
			l := activeLibrarian(t)
			l.IsActive = false
			return l, nil
		},
	}
	svc := New(repo, testSecret)

	_, _, err := svc.Login(context.Background(), "ana@school.ph", "secret123")
	assert.ErrorIs(t, err, ErrInactive)
}
