package medicine

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pharmalocal/pharmalocal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/medicines", h.Create)
	api.GET("/medicines", h.List)
	api.GET("/medicines/:id", h.Get)
	api.PUT("/medicines/:id", h.Update)
	api.DELETE("/medicines/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if q := strings.ToLower(c.QueryParam("q")); q != "" {
		filtered := items[:0]
		for _, m := range items {
			if strings.Contains(strings.ToLower(m.ComercialName), q) ||
				strings.Contains(strings.ToLower(m.ActivePrinciples), q) {
				filtered = append(filtered, m)
			}
		}
		items = filtered
	}
	pg := pagination.FromContext(c)
	lo, hi := pg.Slice(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[lo:hi], len(items), pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	patch, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
