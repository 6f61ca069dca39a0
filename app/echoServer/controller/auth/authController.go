package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"schoollib/model"
	authsvc "schoollib/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/auth/register (admin only)
func (h *Controller) Register(c echo.Context) error {
	var req RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	l, err := h.Svc.Register(c.Request().Context(), req.Name, req.Email, req.Password,
		model.Role(req.Role), req.EmployeeID, req.Phone)
	switch {
	case errors.Is(err, authsvc.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
	case errors.Is(err, authsvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid role"})
	case err != nil:
		h.Log.Error("register", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    l.ID,
		"name":  l.Name,
		"email": l.Email,
		"role":  l.Role,
	})
}

// GET /v1/librarians (admin only)
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("librarian list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/librarians/:id/deactivate (admin only)
func (h *Controller) Deactivate(c echo.Context) error {
	return h.setActive(c, false, "deactivated")
}

// POST /v1/librarians/:id/activate (admin only)
func (h *Controller) Activate(c echo.Context) error {
	return h.setActive(c, true, "activated")
}

func (h *Controller) setActive(c echo.Context, active bool, done string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	err = h.Svc.SetActive(c.Request().Context(), id, active)
	if errors.Is(err, authsvc.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	if err != nil {
		h.Log.Error("librarian set active", "err", err, "active", active)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": done})
}

// POST /v1/auth/login
func (h *Controller) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	l, token, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, authsvc.ErrInvalidCreds):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid email or password"})
	case errors.Is(err, authsvc.ErrInactive):
		return c.JSON(http.StatusForbidden, echo.Map{"message": "account deactivated"})
	case err != nil:
		h.Log.Error("login", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"librarian": echo.Map{
			"id":    l.ID,
			"name":  l.Name,
			"email": l.Email,
			"role":  l.Role,
		},
	})
}
