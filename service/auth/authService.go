package authsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"schoollib/model"
	librarianrepo "schoollib/repository/librarian"
	"schoollib/util/hash"
	jwtutil "schoollib/util/jwt"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadInput     = errors.New("bad input")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrInactive     = errors.New("account deactivated")
	ErrNotFound     = errors.New("librarian not found")
)

type Service interface {
	Register(ctx context.Context, name, email, password string, role model.Role, employeeID, phone string) (*model.Librarian, error)
	Login(ctx context.Context, email, password string) (*model.Librarian, string, error)
	List(ctx context.Context) ([]model.Librarian, error)

	// SetActive flips the login flag. A deactivated account keeps its
	// history; Login refuses it until reactivated.
	SetActive(ctx context.Context, id int64, active bool) error
}

type service struct {
	lr     librarianrepo.Repo
	secret string
}

func New(lr librarianrepo.Repo, secret string) Service {
	return &service{lr: lr, secret: secret}
}

func (s *service) Register(ctx context.Context, name, email, password string, role model.Role, employeeID, phone string) (*model.Librarian, error) {
	switch role {
	case model.RoleAdmin, model.RoleStaff, model.RoleStudentAssistant:
	default:
		return nil, ErrBadInput
	}

	hashed, err := hash.Password(password)
	if err != nil {
		return nil, err
	}

	l := &model.Librarian{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		EmployeeID:   employeeID,
		Phone:        phone,
		IsActive:     true,
	}
	if err := s.lr.Create(ctx, l); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return l, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*model.Librarian, string, error) {
	l, err := s.lr.ByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCreds
	}
	if err != nil {
		return nil, "", err
	}
	if !hash.Check(l.PasswordHash, password) {
		return nil, "", ErrInvalidCreds
	}
	if !l.IsActive {
		return nil, "", ErrInactive
	}
	token, err := jwtutil.Issue(s.secret, l.ID, string(l.Role), 24)
	if err != nil {
		return nil, "", err
	}
	return l, token, nil
}

func (s *service) List(ctx context.Context) ([]model.Librarian, error) {
	return s.lr.List(ctx)
}

func (s *service) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := s.lr.ByID(ctx, id); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.lr.SetActive(ctx, id, active)
}
