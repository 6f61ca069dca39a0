package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"schoollib/model"
	catalogsvc "schoollib/service/catalog"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/books
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	id, err := h.Svc.Create(c.Request().Context(), &model.Book{
		AccessionNumber: req.AccessionNumber,
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		Condition:       req.Condition,
		Location:        req.Location,
		ReplacementCost: req.ReplacementCost,
		Summary:         req.Summary,
	})
	switch {
	case errors.Is(err, catalogsvc.ErrDuplicateAccession):
		return c.JSON(http.StatusConflict, echo.Map{"message": "accession number already exists"})
	case errors.Is(err, catalogsvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	case err != nil:
		h.Log.Error("book create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("status"), limit)
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Get(c.Request().Context(), id)
	if errors.Is(err, catalogsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	if err != nil {
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// PUT /v1/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err = h.Svc.Update(c.Request().Context(), &model.Book{
		ID:              id,
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		Condition:       req.Condition,
		Location:        req.Location,
		ReplacementCost: req.ReplacementCost,
		Summary:         req.Summary,
	})
	switch {
	case errors.Is(err, catalogsvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	case err != nil:
		h.Log.Error("book update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// PATCH /v1/books/:id/status
func (h *Controller) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err = h.Svc.SetStatus(c.Request().Context(), id, model.BookStatus(req.Status), req.Notes)
	switch {
	case errors.Is(err, catalogsvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, catalogsvc.ErrBadStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
	case errors.Is(err, catalogsvc.ErrBookBorrowed):
		return c.JSON(http.StatusConflict, echo.Map{"message": "book is currently borrowed"})
	case err != nil:
		h.Log.Error("book status", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	err = h.Svc.Delete(c.Request().Context(), id)
	switch {
	case errors.Is(err, catalogsvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, catalogsvc.ErrBookBorrowed):
		return c.JSON(http.StatusConflict, echo.Map{"message": "book is currently borrowed"})
	case err != nil:
		h.Log.Error("book delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/books/bulk
func (h *Controller) BulkImport(c echo.Context) error {
	var req BulkImportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rows := make([]*model.Book, 0, len(req.Books))
	for _, r := range req.Books {
		rows = append(rows, &model.Book{
			AccessionNumber: r.AccessionNumber,
			ISBN:            r.ISBN,
			Title:           r.Title,
			Author:          r.Author,
			Category:        r.Category,
			Condition:       r.Condition,
			Location:        r.Location,
			ReplacementCost: r.ReplacementCost,
			Summary:         r.Summary,
		})
	}
	res, err := h.Svc.BulkCreate(c.Request().Context(), rows)
	if err != nil {
		h.Log.Error("book bulk import", "err", err, "created", res.Created)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error", "partial": res})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/books/check-duplicates
func (h *Controller) CheckDuplicates(c echo.Context) error {
	var req CheckDuplicatesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	dups, err := h.Svc.CheckDuplicates(c.Request().Context(), req.AccessionNumbers)
	if err != nil {
		h.Log.Error("book duplicates", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"duplicates": dups})
}
