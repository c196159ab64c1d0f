package server

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/factsift/factsift/internal/store"
)

// MonitorsHandler manages topics re-verified on a schedule.
type MonitorsHandler struct {
	Store *store.Store
}

// Register mounts the monitor routes.
func (h *MonitorsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.GET("", h.list)
	g.DELETE("/:id", h.remove)
}

func (h *MonitorsHandler) create(c echo.Context) error {
	if h.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "monitors require postgres")
	}
	var req struct {
		Topic        string `json:"topic"`
		ScheduleCron string `json:"schedule_cron"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic required")
	}
	if req.ScheduleCron == "" {
		req.ScheduleCron = "@daily"
	}
	id, err := h.Store.CreateMonitor(c.Request().Context(), req.Topic, req.ScheduleCron)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (h *MonitorsHandler) list(c echo.Context) error {
	if h.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "monitors require postgres")
	}
	monitors, err := h.Store.ListMonitors(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if monitors == nil {
		monitors = []store.Monitor{}
	}
	return c.JSON(http.StatusOK, monitors)
}

func (h *MonitorsHandler) remove(c echo.Context) error {
	if h.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "monitors require postgres")
	}
	err := h.Store.DeleteMonitor(c.Request().Context(), c.Param("id"))
	if err == sql.ErrNoRows {
		return echo.NewHTTPError(http.StatusNotFound, "monitor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
