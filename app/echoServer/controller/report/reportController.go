package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	reportsvc "schoollib/service/report"
)

type Controller struct {
	Svc reportsvc.Service
	Log *slog.Logger
}

// POST /v1/reports/overdue-sweep
func (h *Controller) OverdueSweep(c echo.Context) error {
	res, err := h.Svc.OverdueSweep(c.Request().Context())
	if err != nil {
		h.Log.Error("overdue sweep", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/reports/weekly
func (h *Controller) Weekly(c echo.Context) error {
	sum, err := h.Svc.WeeklySummary(c.Request().Context())
	if err != nil {
		h.Log.Error("weekly summary", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, sum)
}

// POST /v1/reports/monthly
func (h *Controller) Monthly(c echo.Context) error {
	sum, err := h.Svc.MonthlySummary(c.Request().Context())
	if err != nil {
		h.Log.Error("monthly summary", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, sum)
}

// GET /v1/reports/history
func (h *Controller) History(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.Svc.History(c.Request().Context(), limit)
	if err != nil {
		h.Log.Error("report history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
