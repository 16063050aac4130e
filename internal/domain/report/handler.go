package report

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/remed/remed/internal/platform/auth"
	"github.com/remed/remed/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reports", h.Create)
	api.GET("/reports/patient/:patientId", h.ListByPatient)
	api.GET("/reports/patient/:patientId/summary", h.Summary)
}

func (h *Handler) httpError(err error) error {
	if errors.Is(err, ErrForbidden) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rep, err := h.svc.Create(c.Request().Context(), auth.UserIDFromContext(c), in)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Report created successfully",
		"report_id": rep.ID,
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	var reportType *string
	if raw := c.QueryParam("type"); raw != "" {
		reportType = &raw
	}

	params := pagination.FromContext(c)
	reports, total, err := h.svc.ListByPatient(c.Request().Context(),
		auth.UserIDFromContext(c), patientID, reportType, params.Limit, params.Offset)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reports, total, params.Limit, params.Offset))
}

func (h *Handler) Summary(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	summary, err := h.svc.Summary(c.Request().Context(), auth.UserIDFromContext(c), patientID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"summary": summary})
}
