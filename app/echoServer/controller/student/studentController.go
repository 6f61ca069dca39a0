package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"schoollib/model"
	studentsvc "schoollib/service/student"
)

type Controller struct {
	Svc studentsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/students
func (h *Controller) Create(c echo.Context) error {
	var req StudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	st, err := h.Svc.Create(c.Request().Context(), newStudent(req))
	switch {
	case errors.Is(err, studentsvc.ErrDuplicateStudentID):
		return c.JSON(http.StatusConflict, echo.Map{"message": "student ID already exists"})
	case errors.Is(err, studentsvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	case err != nil:
		h.Log.Error("student create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, st)
}

// GET /v1/students
func (h *Controller) List(c echo.Context) error {
	grade, _ := strconv.Atoi(c.QueryParam("grade"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.Svc.List(c.Request().Context(), grade, limit)
	if err != nil {
		h.Log.Error("student list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/students/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	st, err := h.Svc.Get(c.Request().Context(), id)
	if errors.Is(err, studentsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	if err != nil {
		h.Log.Error("student detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}

// PUT /v1/students/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err = h.Svc.Update(c.Request().Context(), &model.Student{
		ID:             id,
		Name:           req.Name,
		GradeLevel:     req.GradeLevel,
		Section:        req.Section,
		Email:          req.Email,
		Phone:          req.Phone,
		Guardian:       req.Guardian,
		GuardianPhone:  req.GuardianPhone,
		BorrowingLimit: req.BorrowingLimit,
	})
	switch {
	case errors.Is(err, studentsvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, studentsvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	case err != nil:
		h.Log.Error("student update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// POST /v1/students/:id/block
func (h *Controller) Block(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BlockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err = h.Svc.Block(c.Request().Context(), id, req.Reason)
	if errors.Is(err, studentsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	if err != nil {
		h.Log.Error("student block", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blocked"})
}

// POST /v1/students/:id/unblock
func (h *Controller) Unblock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	err = h.Svc.Unblock(c.Request().Context(), id)
	if errors.Is(err, studentsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	if err != nil {
		h.Log.Error("student unblock", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unblocked"})
}

// DELETE /v1/students/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	err = h.Svc.Delete(c.Request().Context(), id)
	switch {
	case errors.Is(err, studentsvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, studentsvc.ErrHasActiveLoans):
		return c.JSON(http.StatusConflict, echo.Map{"message": "student has active loans"})
	case err != nil:
		h.Log.Error("student delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/students/bulk
func (h *Controller) BulkImport(c echo.Context) error {
	var req BulkImportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rows := make([]studentsvc.NewStudent, 0, len(req.Students))
	for _, r := range req.Students {
		rows = append(rows, newStudent(r))
	}
	res, err := h.Svc.BulkCreate(c.Request().Context(), rows)
	if err != nil {
		h.Log.Error("student bulk import", "err", err, "created", res.Created)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error", "partial": res})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/students/check-duplicates
func (h *Controller) CheckDuplicates(c echo.Context) error {
	var req CheckDuplicatesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	dups, err := h.Svc.CheckDuplicates(c.Request().Context(), req.StudentIDs)
	if err != nil {
		h.Log.Error("student duplicates", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"duplicates": dups})
}

func newStudent(r StudentReq) studentsvc.NewStudent {
	return studentsvc.NewStudent{
		StudentID:     r.StudentID,
		Name:          r.Name,
		GradeLevel:    r.GradeLevel,
		Section:       r.Section,
		Email:         r.Email,
		Phone:         r.Phone,
		Guardian:      r.Guardian,
		GuardianPhone: r.GuardianPhone,
	}
}
