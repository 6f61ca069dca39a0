// Package kiosk is the self-service surface. No staff authentication: the
// student scans their own card and the book barcode. Only checkout and
// check-in are exposed (no renewal), every mutation is tagged with the
// "kiosk" device, and reads return trimmed projections without guardian
// contact details.
package kiosk

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"schoollib/model"
	catalogsvc "schoollib/service/catalog"
	cs "schoollib/service/circulation"
	studentsvc "schoollib/service/student"
)

const deviceKiosk = "kiosk"

type Controller struct {
	Circ     cs.Service
	Students studentsvc.Service
	Books    catalogsvc.Service
	Loans    LoanReader
	V        *validator.Validate
	Log      *slog.Logger
}

// LoanReader is the slice of the loan store the kiosk needs for the
// student-card screen.
type LoanReader interface {
	OpenLoansForKiosk(ctx context.Context, studentID int64) ([]model.LoanRow, error)
}

// GET /kiosk/students/:studentId
func (h *Controller) Student(c echo.Context) error {
	st, err := h.Students.GetByStudentID(c.Request().Context(), c.Param("studentId"))
	if errors.Is(err, studentsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "student not found"})
	}
	if err != nil {
		h.Log.Error("kiosk student lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	loans, err := h.Loans.OpenLoansForKiosk(c.Request().Context(), st.ID)
	if err != nil {
		h.Log.Error("kiosk loans lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	now := time.Now()
	hasOverdue := false
	type kioskLoan struct {
		TransactionID   int64     `json:"transaction_id"`
		BookTitle       string    `json:"book_title"`
		AccessionNumber string    `json:"accession_number"`
		DueDate         time.Time `json:"due_date"`
		IsOverdue       bool      `json:"is_overdue"`
	}
	out := make([]kioskLoan, 0, len(loans))
	for _, l := range loans {
		overdue := l.DueDate.Before(now)
		if overdue {
			hasOverdue = true
		}
		out = append(out, kioskLoan{
			TransactionID:   l.TransactionID,
			BookTitle:       l.BookTitle,
			AccessionNumber: l.AccessionNumber,
			DueDate:         l.DueDate,
			IsOverdue:       overdue,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"student": model.KioskStudent{
			ID:             st.ID,
			StudentID:      st.StudentID,
			Name:           st.Name,
			GradeLevel:     st.GradeLevel,
			Section:        st.Section,
			BorrowingLimit: st.BorrowingLimit,
			IsBlocked:      st.IsBlocked,
			BlockReason:    st.BlockReason,
		},
		"active_loans":      out,
		"active_loan_count": len(out),
		"has_overdue":       hasOverdue,
	})
}

// GET /kiosk/books/:accession
func (h *Controller) Book(c echo.Context) error {
	b, err := h.Books.GetByAccession(c.Request().Context(), c.Param("accession"))
	if errors.Is(err, catalogsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	}
	if err != nil {
		h.Log.Error("kiosk book lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":               b.ID,
		"title":            b.Title,
		"author":           b.Author,
		"accession_number": b.AccessionNumber,
		"status":           b.Status,
	})
}

// POST /kiosk/checkout
func (h *Controller) CheckOut(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	st, err := h.Students.GetByStudentID(c.Request().Context(), req.StudentID)
	if errors.Is(err, studentsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Student not found. Please check your ID."})
	}
	if err != nil {
		h.Log.Error("kiosk checkout student", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	b, err := h.Books.GetByAccession(c.Request().Context(), req.AccessionNumber)
	if errors.Is(err, catalogsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found. Please check the accession number."})
	}
	if err != nil {
		h.Log.Error("kiosk checkout book", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	// librarianID is nil: the kiosk acts as the student themself.
	out, err := h.Circ.CheckOut(c.Request().Context(), st.ID, b.ID, nil, deviceKiosk)
	if err != nil {
		return h.fail(c, "kiosk checkout", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /kiosk/checkin
func (h *Controller) CheckIn(c echo.Context) error {
	var req CheckinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Books.GetByAccession(c.Request().Context(), req.AccessionNumber)
	if errors.Is(err, catalogsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found. Please check the accession number."})
	}
	if err != nil {
		h.Log.Error("kiosk checkin book", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	out, err := h.Circ.CheckIn(c.Request().Context(), b.ID, nil, deviceKiosk, "")
	if err != nil {
		return h.fail(c, "kiosk checkin", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	code := cs.Code(err)
	if code == "" {
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	status := http.StatusConflict
	switch code {
	case cs.ErrStudentNotFound, cs.ErrBookNotFound, cs.ErrNoActiveLoan, cs.ErrNotFound:
		status = http.StatusNotFound
	}
	return c.JSON(status, echo.Map{"code": code, "message": err.Error()})
}
