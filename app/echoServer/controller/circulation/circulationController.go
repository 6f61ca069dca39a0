package circulation

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	cs "schoollib/service/circulation"
)

const defaultDevice = "admin_dashboard"

type Controller struct {
	Svc cs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func librarianID(c echo.Context) *int64 {
	if id, ok := c.Get("librarian_id").(int64); ok {
		return &id
	}
	return nil
}

func device(req string) string {
	if req != "" {
		return req
	}
	return defaultDevice
}

// statusFor maps circulation reason codes onto HTTP statuses: absence is
// 404, everything else is a policy conflict.
func statusFor(code cs.ErrCode) int {
	switch code {
	case cs.ErrStudentNotFound, cs.ErrBookNotFound, cs.ErrNotFound, cs.ErrNoActiveLoan:
		return http.StatusNotFound
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	code := cs.Code(err)
	if code == "" {
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(statusFor(code), echo.Map{"code": code, "message": err.Error()})
}

// POST /v1/circulation/validate
func (h *Controller) Validate(c echo.Context) error {
	var req ValidateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	reason, err := h.Svc.ValidateBorrow(c.Request().Context(), req.StudentID, req.BookID)
	if err != nil {
		h.Log.Error("validate borrow", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if reason != nil {
		return c.JSON(http.StatusOK, echo.Map{"ok": false, "reason": reason})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// POST /v1/circulation/checkout
func (h *Controller) CheckOut(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	out, err := h.Svc.CheckOut(c.Request().Context(), req.StudentID, req.BookID, librarianID(c), device(req.Device))
	if err != nil {
		return h.fail(c, "checkout", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /v1/circulation/checkin
func (h *Controller) CheckIn(c echo.Context) error {
	var req CheckinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	out, err := h.Svc.CheckIn(c.Request().Context(), req.BookID, librarianID(c), device(req.Device), req.Notes)
	if err != nil {
		return h.fail(c, "checkin", err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /v1/circulation/renew/:id
func (h *Controller) Renew(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RenewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	out, err := h.Svc.Renew(c.Request().Context(), id, librarianID(c), device(req.Device))
	if err != nil {
		return h.fail(c, "renew", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/transactions/active
func (h *Controller) Active(c echo.Context) error {
	rows, err := h.Svc.ListActive(c.Request().Context(), queryLimit(c, 100))
	if err != nil {
		h.Log.Error("active loans", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/transactions/overdue
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.ListOverdue(c.Request().Context())
	if err != nil {
		h.Log.Error("overdue loans", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/transactions/recent
func (h *Controller) Recent(c echo.Context) error {
	rows, err := h.Svc.ListRecent(c.Request().Context(), queryLimit(c, 20))
	if err != nil {
		h.Log.Error("recent loans", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/students/:id/history
func (h *Controller) StudentHistory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.StudentHistory(c.Request().Context(), id, queryLimit(c, 50))
	if err != nil {
		h.Log.Error("student history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/transactions/stats
func (h *Controller) Stats(c echo.Context) error {
	until := time.Now()
	since := until.AddDate(0, 0, -30)
	if v := c.QueryParam("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			since = until.AddDate(0, 0, -n)
		}
	}
	st, err := h.Svc.Stats(c.Request().Context(), since, until)
	if err != nil {
		h.Log.Error("circulation stats", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}

func queryLimit(c echo.Context, def int) int {
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return def
}
