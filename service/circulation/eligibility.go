package circulation

import (
	"fmt"
	"time"

	"schoollib/model"
)

// Evaluate decides whether a student may borrow a book. It is pure: callers
// load the entities (passing nil for a missing one) and the student's open
// loans. A nil result means the checkout may proceed.
//
// Check order is deliberate. Existence failures short-circuit before policy
// failures, and the student-side block is reported before book availability
// so the student's own problem surfaces first.
func Evaluate(student *model.Student, book *model.Book, openLoans []model.Transaction, now time.Time) *Reason {
	if student == nil {
		return &Reason{Code: ErrStudentNotFound, Message: "Student not found"}
	}
	if student.IsBlocked {
		reason := student.BlockReason
		if reason == "" {
			reason = "Contact librarian"
		}
		return &Reason{
			Code:    ErrStudentBlocked,
			Message: fmt.Sprintf("Student is blocked: %s", reason),
		}
	}
	if book == nil {
		return &Reason{Code: ErrBookNotFound, Message: "Book not found"}
	}
	if book.Status != model.BookAvailable {
		return &Reason{
			Code:    ErrBookNotAvailable,
			Message: fmt.Sprintf("Book is not available (status: %s)", book.Status),
		}
	}
	if len(openLoans) >= student.BorrowingLimit {
		return &Reason{
			Code:    ErrLimitReached,
			Message: fmt.Sprintf("Borrowing limit reached (%d/%d)", len(openLoans), student.BorrowingLimit),
		}
	}
	overdue := 0
	for _, loan := range openLoans {
		if loan.DueDate.Before(now) {
			overdue++
		}
	}
	if overdue > 0 {
		return &Reason{
			Code:    ErrHasOverdue,
			Message: fmt.Sprintf("Student has %d overdue book(s)", overdue),
		}
	}
	return nil
}

// renewCheck guards a renewal attempt against the loan's own state. The
// maxRenewals ceiling is the snapshot taken at checkout, not the live
// policy.
func renewCheck(t *model.Transaction, now time.Time) *Reason {
	if t.IsReturned {
		return &Reason{Code: ErrAlreadyReturned, Message: "Book has already been returned"}
	}
	if t.RenewalCount >= t.MaxRenewals {
		return &Reason{
			Code:    ErrMaxRenewalsReached,
			Message: fmt.Sprintf("Maximum renewals (%d) reached", t.MaxRenewals),
		}
	}
	if t.DueDate.Before(now) {
		return &Reason{Code: ErrCannotRenewOverdue, Message: "Cannot renew overdue books"}
	}
	return nil
}

// daysOverdue is whole days past due, zero when on time.
func daysOverdue(dueDate, now time.Time) int {
	if !dueDate.Before(now) {
		return 0
	}
	return int(now.Sub(dueDate).Hours() / 24)
}
