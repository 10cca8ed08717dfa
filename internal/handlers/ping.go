package handlers

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// PingHandler serves /ping and HEAD /health for liveness.
type PingHandler struct {
	stagingDir string
	logger     *slog.Logger
}

// NewPingHandler creates a ping handler. stagingDir, when set, must exist for /health to pass.
func NewPingHandler(log *slog.Logger, stagingDir string) *PingHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PingHandler{stagingDir: stagingDir, logger: log.With(slog.String("handler", "ping"))}
}

// Register mounts GET /ping and HEAD /health on the Echo instance.
func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.HEAD("/health", h.PingHead)
}

// Ping returns 200 JSON {"status":"ok"}.
func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// PingHead returns 200 No Content, or 503 when the staging directory is gone.
func (h *PingHandler) PingHead(c echo.Context) error {
	if h.stagingDir != "" {
		if info, err := os.Stat(h.stagingDir); err != nil || !info.IsDir() {
			h.logger.Warn("staging dir unavailable", slog.String("dir", h.stagingDir), slog.Any("error", err))
			return c.NoContent(http.StatusServiceUnavailable)
		}
	}
	return c.NoContent(http.StatusOK)
}
