// Package settings exposes the policy knobs and the lending calendar to
// admins. Writes here change how due dates and limits are computed for every
// checkout after the change, never retroactively.
package settings

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"schoollib/model"
	"schoollib/service/calendar"
	"schoollib/service/policy"
)

type Controller struct {
	Pol policy.Service
	Cal calendar.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/settings
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Pol.List(c.Request().Context())
	if err != nil {
		h.Log.Error("settings list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/settings
func (h *Controller) Set(c echo.Context) error {
	var req SetSettingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err := h.Pol.Set(c.Request().Context(), req.Key, req.Value, req.Description)
	if errors.Is(err, policy.ErrInvalidValue) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if err != nil {
		h.Log.Error("settings set", "err", err, "key", req.Key)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "saved"})
}

// DELETE /v1/settings/:key
func (h *Controller) Delete(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing key"})
	}
	if err := h.Pol.Delete(c.Request().Context(), key); err != nil {
		h.Log.Error("settings delete", "err", err, "key", key)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/settings/initialize
func (h *Controller) InitializeDefaults(c echo.Context) error {
	if err := h.Pol.InitializeDefaults(c.Request().Context()); err != nil {
		h.Log.Error("settings initialize", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "defaults initialized"})
}

// GET /v1/holidays
func (h *Controller) Holidays(c echo.Context) error {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	rows, err := h.Cal.List(c.Request().Context(), year)
	if err != nil {
		h.Log.Error("holiday list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/holidays/check?date=2026-06-12
func (h *Controller) CheckHoliday(c echo.Context) error {
	date, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), time.Local)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, want YYYY-MM-DD"})
	}
	isHoliday, err := h.Cal.IsHoliday(c.Request().Context(), date)
	if err != nil {
		h.Log.Error("holiday check", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":       date.Format("2006-01-02"),
		"is_holiday": isHoliday,
	})
}

// POST /v1/holidays
func (h *Controller) AddHoliday(c echo.Context) error {
	var req AddHolidayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date"})
	}
	id, err := h.Cal.Add(c.Request().Context(), date, req.Name, model.HolidayType(req.Type), req.IsRecurring)
	if errors.Is(err, calendar.ErrBadHolidayType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid holiday type"})
	}
	if err != nil {
		h.Log.Error("holiday add", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if id == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "already registered"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DELETE /v1/holidays/:id
func (h *Controller) RemoveHoliday(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Cal.Remove(c.Request().Context(), id); err != nil {
		h.Log.Error("holiday remove", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/holidays/seed
func (h *Controller) SeedHolidays(c echo.Context) error {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	if year == 0 {
		year = time.Now().Year()
	}
	added, err := h.Cal.SeedPhilippineHolidays(c.Request().Context(), year)
	if err != nil {
		h.Log.Error("holiday seed", "err", err, "year", year)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"added": added, "year": year})
}
