package backup

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/backup/export", h.Export)
	api.POST("/backup/import", h.Import)
	api.DELETE("/backup", h.ClearAll)
}

func (h *Handler) Export(c echo.Context) error {
	doc, err := h.svc.Export(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filename := fmt.Sprintf("pharmalocal_backup_%s.json", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, doc)
}

func (h *Handler) Import(c echo.Context) error {
	doc, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Import(c.Request().Context(), doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearAll wipes every collection. The confirm guard stands in for the
// UI confirmation dialog this operation used to sit behind.
func (h *Handler) ClearAll(c echo.Context) error {
	if c.QueryParam("confirm") != "eliminar" {
		return echo.NewHTTPError(http.StatusBadRequest, "confirm=eliminar is required")
	}
	if err := h.svc.ClearAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
