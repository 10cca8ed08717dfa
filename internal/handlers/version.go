package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memohai/telegraph-relay/internal/version"
)

// VersionHandler serves GET /version.
type VersionHandler struct{}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

func (h *VersionHandler) Register(e *echo.Echo) {
	e.GET("/version", h.Version)
}

// Version returns the build info as JSON.
func (h *VersionHandler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, version.Get())
}
