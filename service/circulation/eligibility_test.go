package circulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"schoollib/model"
)

var evalNow = time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC)

func okStudent() *model.Student {
	return &model.Student{ID: 1, StudentID: "S-001", Name: "Ana", GradeLevel: 8, BorrowingLimit: 5}
}

func okBook() *model.Book {
	return &model.Book{ID: 1, Title: "Noli Me Tangere", Status: model.BookAvailable}
}

func openLoan(due time.Time) model.Transaction {
	return model.Transaction{ID: 10, StudentID: 1, BookID: 2, DueDate: due}
}

func TestEvaluate_AllClear(t *testing.T) {
	r := Evaluate(okStudent(), okBook(), nil, evalNow)
	assert.Nil(t, r)
}

func TestEvaluate_StudentNotFound(t *testing.T) {
	r := Evaluate(nil, okBook(), nil, evalNow)
	assert.Equal(t, ErrStudentNotFound, r.Code)
}

func TestEvaluate_BlockedStudent(t *testing.T) {
	st := okStudent()
	st.IsBlocked = true
	st.BlockReason = "Lost 2 books"

	r := Evaluate(st, okBook(), nil, evalNow)
	assert.Equal(t, ErrStudentBlocked, r.Code)
	assert.Equal(t, "Student is blocked: Lost 2 books", r.Message)
}

func TestEvaluate_BlockedWithoutReason(t *testing.T) {
	st := okStudent()
	st.IsBlocked = true

	r := Evaluate(st, okBook(), nil, evalNow)
	assert.Equal(t, "Student is blocked: Contact librarian", r.Message)
}

func TestEvaluate_BlockedBeforeBookChecks(t *testing.T) {
	// A blocked student is reported even when the book is also missing.
	st := okStudent()
	st.IsBlocked = true

	r := Evaluate(st, nil, nil, evalNow)
	assert.Equal(t, ErrStudentBlocked, r.Code)
}

func TestEvaluate_BookNotFound(t *testing.T) {
	r := Evaluate(okStudent(), nil, nil, evalNow)
	assert.Equal(t, ErrBookNotFound, r.Code)
}

func TestEvaluate_BookNotAvailable(t *testing.T) {
	for _, status := range []model.BookStatus{
		model.BookBorrowed, model.BookReserved, model.BookMissing,
		model.BookDamaged, model.BookWeeded,
	} {
		b := okBook()
		b.Status = status
		r := Evaluate(okStudent(), b, nil, evalNow)
		assert.Equal(t, ErrBookNotAvailable, r.Code, "status %s", status)
		assert.Contains(t, r.Message, string(status))
	}
}

func TestEvaluate_LimitReached(t *testing.T) {
	st := okStudent()
	st.BorrowingLimit = 2
	loans := []model.Transaction{
		openLoan(evalNow.AddDate(0, 0, 5)),
		openLoan(evalNow.AddDate(0, 0, 9)),
	}

	r := Evaluate(st, okBook(), loans, evalNow)
	assert.Equal(t, ErrLimitReached, r.Code)
	assert.Equal(t, "Borrowing limit reached (2/2)", r.Message)
}

func TestEvaluate_LimitBeforeOverdue(t *testing.T) {
	// At the limit with an overdue loan, the limit is reported first.
	st := okStudent()
	st.BorrowingLimit = 1
	loans := []model.Transaction{openLoan(evalNow.AddDate(0, 0, -3))}

	r := Evaluate(st, okBook(), loans, evalNow)
	assert.Equal(t, ErrLimitReached, r.Code)
}

func TestEvaluate_HasOverdue(t *testing.T) {
	loans := []model.Transaction{
		openLoan(evalNow.AddDate(0, 0, -1)),
		openLoan(evalNow.AddDate(0, 0, -2)),
		openLoan(evalNow.AddDate(0, 0, 4)),
	}

	r := Evaluate(okStudent(), okBook(), loans, evalNow)
	assert.Equal(t, ErrHasOverdue, r.Code)
	assert.Equal(t, "Student has 2 overdue book(s)", r.Message)
}

func TestRenewCheck(t *testing.T) {
	base := model.Transaction{
		ID:           7,
		DueDate:      evalNow.AddDate(0, 0, 3),
		RenewalCount: 0,
		MaxRenewals:  2,
	}

	t.Run("ok", func(t *testing.T) {
		tr := base
		assert.Nil(t, renewCheck(&tr, evalNow))
	})

	t.Run("already returned", func(t *testing.T) {
		tr := base
		tr.IsReturned = true
		r := renewCheck(&tr, evalNow)
		assert.Equal(t, ErrAlreadyReturned, r.Code)
	})

	t.Run("max renewals reached", func(t *testing.T) {
		tr := base
		tr.RenewalCount = 2
		r := renewCheck(&tr, evalNow)
		assert.Equal(t, ErrMaxRenewalsReached, r.Code)
		assert.Equal(t, "Maximum renewals (2) reached", r.Message)
	})

	t.Run("overdue", func(t *testing.T) {
		tr := base
		tr.DueDate = evalNow.AddDate(0, 0, -1)
		r := renewCheck(&tr, evalNow)
		assert.Equal(t, ErrCannotRenewOverdue, r.Code)
	})

	t.Run("returned wins over max renewals", func(t *testing.T) {
		tr := base
		tr.IsReturned = true
		tr.RenewalCount = 2
		r := renewCheck(&tr, evalNow)
		assert.Equal(t, ErrAlreadyReturned, r.Code)
	})
}

func TestDaysOverdue(t *testing.T) {
	assert.Equal(t, 0, daysOverdue(evalNow.Add(time.Hour), evalNow))
	assert.Equal(t, 0, daysOverdue(evalNow, evalNow))
	assert.Equal(t, 0, daysOverdue(evalNow.Add(-time.Hour), evalNow))
	assert.Equal(t, 1, daysOverdue(evalNow.Add(-25*time.Hour), evalNow))
	assert.Equal(t, 3, daysOverdue(evalNow.AddDate(0, 0, -3), evalNow))
}

func TestCodeExtraction(t *testing.T) {
	r := &Reason{Code: ErrHasOverdue, Message: "Student has 1 overdue book(s)"}
	err := r.err()
	assert.Equal(t, ErrHasOverdue, Code(err))
	assert.Equal(t, "Student has 1 overdue book(s)", err.Error())

	assert.Equal(t, ErrCode(""), Code(nil))
	assert.Equal(t, ErrCode(""), Code(assert.AnError))
}
