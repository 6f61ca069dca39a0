// Package circulation owns the loan lifecycle: checkout, check-in, renewal
// and the rules deciding whether each is allowed.
package circulation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"schoollib/model"
	auditrepo "schoollib/repository/audit"
	bookrepo "schoollib/repository/book"
	loanrepo "schoollib/repository/loan"
	studentrepo "schoollib/repository/student"
	"schoollib/service/calendar"
	"schoollib/service/policy"
)

type CheckoutResult struct {
	TransactionID int64     `json:"transaction_id"`
	DueDate       time.Time `json:"due_date"`
}

type CheckinResult struct {
	TransactionID int64 `json:"transaction_id"`
	WasOverdue    bool  `json:"was_overdue"`
	DaysOverdue   int   `json:"days_overdue"`
}

type RenewResult struct {
	NewDueDate   time.Time `json:"new_due_date"`
	RenewalCount int       `json:"renewal_count"`
}

type Service interface {
	// ValidateBorrow is the read-only pre-check for UI feedback. It never
	// fails with a reason error; a failed check comes back as the Reason.
	ValidateBorrow(ctx context.Context, studentID, bookID int64) (*Reason, error)

	CheckOut(ctx context.Context, studentID, bookID int64, librarianID *int64, device string) (*CheckoutResult, error)
	CheckIn(ctx context.Context, bookID int64, librarianID *int64, device, notes string) (*CheckinResult, error)
	Renew(ctx context.Context, transactionID int64, librarianID *int64, device string) (*RenewResult, error)

	ListActive(ctx context.Context, limit int) ([]model.LoanRow, error)
	ListOverdue(ctx context.Context) ([]model.LoanRow, error)
	ListRecent(ctx context.Context, limit int) ([]model.LoanRow, error)
	StudentHistory(ctx context.Context, studentID int64, limit int) ([]model.LoanRow, error)
	Stats(ctx context.Context, since, until time.Time) (model.CirculationStats, error)
}

type service struct {
	db       *sql.DB
	loans    loanrepo.Repo
	books    bookrepo.Repo
	students studentrepo.Repo
	audit    auditrepo.Repo
	pol      policy.Service
	cal      calendar.Service
}

func New(db *sql.DB, loans loanrepo.Repo, books bookrepo.Repo, students studentrepo.Repo,
	audit auditrepo.Repo, pol policy.Service, cal calendar.Service) Service {
	return &service{
		db: db, loans: loans, books: books, students: students,
		audit: audit, pol: pol, cal: cal,
	}
}

func (s *service) ValidateBorrow(ctx context.Context, studentID, bookID int64) (*Reason, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	var open []model.Transaction
	if student != nil {
		open, err = s.loans.OpenByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
	}
	return Evaluate(student, book, open, time.Now()), nil
}

// CheckOut re-validates inside its own transaction: the pre-check a UI ran
// earlier may be stale, this is the actual gate. Student and book rows are
// locked first so concurrent checkouts for the same student or book
// serialize, keeping the loan-count and one-open-loan-per-book invariants.
func (s *service) CheckOut(ctx context.Context, studentID, bookID int64, librarianID *int64, device string) (res *CheckoutResult, err error) {
	now := time.Now()

	borrowingDays, err := s.pol.BorrowingDays(ctx)
	if err != nil {
		return nil, err
	}
	maxRenewals, err := s.pol.MaxRenewals(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := s.cal.HolidaySet(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	student, err := s.students.GetForUpdate(ctx, tx, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		student, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetForUpdate(ctx, tx, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		book, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	var open []model.Transaction
	if student != nil {
		open, err = s.loans.ListOpenByStudent(ctx, tx, student.ID)
		if err != nil {
			return nil, err
		}
	}

	if reason := Evaluate(student, book, open, now); reason != nil {
		err = reason.err()
		return nil, err
	}

	dueDate := calendar.ComputeDueDate(now, borrowingDays, holidays)

	loan := &model.Transaction{
		StudentID:    student.ID,
		BookID:       book.ID,
		LibrarianID:  librarianID,
		CheckoutDate: now,
		DueDate:      dueDate,
		MaxRenewals:  maxRenewals,
		Device:       device,
	}
	id, err := s.loans.Insert(ctx, tx, loan)
	if err != nil {
		return nil, err
	}

	if err = s.books.MarkBorrowed(ctx, tx, book.ID, now); err != nil {
		return nil, err
	}

	if err = s.logTx(ctx, tx, librarianID, model.AuditCheckout, id, device, map[string]any{
		"student_id": student.ID,
		"book_id":    book.ID,
		"due_date":   dueDate,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &CheckoutResult{TransactionID: id, DueDate: dueDate}, nil
}

func (s *service) CheckIn(ctx context.Context, bookID int64, librarianID *int64, device, notes string) (res *CheckinResult, err error) {
	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	loan, err := s.loans.GetOpenByBookForUpdate(ctx, tx, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		err = makeErr(ErrNoActiveLoan, "No active loan found for this book")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	wasOverdue := loan.DueDate.Before(now)
	days := daysOverdue(loan.DueDate, now)

	if err = s.loans.Close(ctx, tx, loan.ID, now, wasOverdue, notes); err != nil {
		return nil, err
	}
	if err = s.books.MarkAvailable(ctx, tx, bookID); err != nil {
		return nil, err
	}

	if err = s.logTx(ctx, tx, librarianID, model.AuditCheckin, loan.ID, device, map[string]any{
		"student_id":   loan.StudentID,
		"book_id":      bookID,
		"was_overdue":  wasOverdue,
		"days_overdue": days,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &CheckinResult{TransactionID: loan.ID, WasOverdue: wasOverdue, DaysOverdue: days}, nil
}

// Renew extends the due date from now using the live borrowing-days policy.
// The renewal ceiling stays the checkout-time snapshot.
func (s *service) Renew(ctx context.Context, transactionID int64, librarianID *int64, device string) (res *RenewResult, err error) {
	now := time.Now()

	borrowingDays, err := s.pol.BorrowingDays(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := s.cal.HolidaySet(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	loan, err := s.loans.GetForUpdate(ctx, tx, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		err = makeErr(ErrNotFound, "Transaction not found")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if reason := renewCheck(loan, now); reason != nil {
		err = reason.err()
		return nil, err
	}

	newDue := calendar.ComputeDueDate(now, borrowingDays, holidays)
	if err = s.loans.Renew(ctx, tx, loan.ID, newDue); err != nil {
		return nil, err
	}

	if err = s.logTx(ctx, tx, librarianID, model.AuditRenew, loan.ID, device, map[string]any{
		"previous_due_date": loan.DueDate,
		"new_due_date":      newDue,
		"renewal_count":     loan.RenewalCount + 1,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &RenewResult{NewDueDate: newDue, RenewalCount: loan.RenewalCount + 1}, nil
}

func (s *service) logTx(ctx context.Context, tx *sql.Tx, librarianID *int64, action string, loanID int64, device string, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.audit.InsertTx(ctx, tx, &model.AuditLog{
		LibrarianID: librarianID,
		Action:      action,
		EntityType:  "transaction",
		EntityID:    strconv.FormatInt(loanID, 10),
		Details:     raw,
		Device:      device,
	})
}

func (s *service) ListActive(ctx context.Context, limit int) ([]model.LoanRow, error) {
	return s.loans.ListActive(ctx, limit)
}

func (s *service) ListOverdue(ctx context.Context) ([]model.LoanRow, error) {
	return s.loans.ListOverdue(ctx, time.Now())
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]model.LoanRow, error) {
	return s.loans.ListRecent(ctx, limit)
}

func (s *service) StudentHistory(ctx context.Context, studentID int64, limit int) ([]model.LoanRow, error) {
	return s.loans.HistoryByStudent(ctx, studentID, limit)
}

func (s *service) Stats(ctx context.Context, since, until time.Time) (model.CirculationStats, error) {
	return s.loans.Stats(ctx, since, until)
}
