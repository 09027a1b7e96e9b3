package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pharmalocal/pharmalocal/internal/domain/schedule"
)

type Handler struct {
	svc    *Service
	sheets SheetWriter
	pdf    DocumentWriter
	html   DocumentWriter
}

func NewHandler(svc *Service, sheets SheetWriter, pdf, html DocumentWriter) *Handler {
	return &Handler{svc: svc, sheets: sheets, pdf: pdf, html: html}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/schedule/:patientId", h.Schedule)
	api.GET("/reports/preview/:patientId", h.Preview)
	api.GET("/reports/excel", h.Excel)
	api.GET("/reports/pdf/:patientId", h.PDF)
	api.POST("/reports/pdf/:patientId", h.PDF)
	api.GET("/reports/print/:patientId", h.Print)
	api.POST("/reports/print/:patientId", h.Print)
}

// Schedule returns the hour plan derived from the patient's active
// treatments, one entry per medicine.
func (h *Handler) Schedule(c echo.Context) error {
	entries, err := h.svc.ScheduleForPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Preview(c echo.Context) error {
	plan, err := h.svc.BuildPlan(c.Request().Context(), c.Param("patientId"), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, struct {
		Plan   *Plan          `json:"plan"`
		Groups []PreviewGroup `json:"groups"`
	}{plan, h.svc.Preview(plan)})
}

func (h *Handler) Excel(c echo.Context) error {
	data, err := h.svc.Workbook(c.Request().Context(), h.sheets)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	name := fmt.Sprintf("reporte_farmacia_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) PDF(c echo.Context) error {
	plan, err := h.buildPlan(c)
	if err != nil {
		return err
	}
	data, err := h.pdf.WritePlan(plan)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	name := Filename(plan.PatientName(), plan.GeneratedAt, "pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *Handler) Print(c echo.Context) error {
	plan, err := h.buildPlan(c)
	if err != nil {
		return err
	}
	data, err := h.html.WritePlan(plan)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, data)
}

// buildPlan derives the plan from stored treatments on GET; a POST
// body carries the explicit session entries from the planner UI.
func (h *Handler) buildPlan(c echo.Context) (*Plan, error) {
	var entries []schedule.Entry
	if c.Request().Method == http.MethodPost {
		if err := c.Bind(&entries); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	plan, err := h.svc.BuildPlan(c.Request().Context(), c.Param("patientId"), entries)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return plan, nil
}
