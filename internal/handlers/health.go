package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const pingTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB pinger
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// NewHealthHandler создает обработчик liveness; db == nil означает работу без хранилища.
func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health возвращает статус сервиса и доступность хранилища отчетов.
func (h *HealthHandler) Health(c echo.Context) error {
	if h.DB == nil {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Storage: "disabled"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		slog.Warn("storage ping failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusOK, HealthResponse{Status: "degraded", Storage: "unavailable"})
	}

	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Storage: "ok"})
}
