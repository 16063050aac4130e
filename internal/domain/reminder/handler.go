package reminder

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/remed/remed/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reminders/patient/:patientId/today", h.Today)
	api.GET("/reminders/patient/:patientId/all", h.All)
	api.POST("/reminders/:frequencyId/take", h.Take)
	api.POST("/reminders/medicine/:medicineId", h.ReplaceSchedule)
}

func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Reminder not found")
	case errors.Is(err, ErrMedicineNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Medicine not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) Today(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	reminders, err := h.svc.Today(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reminders": reminders})
}

func (h *Handler) All(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	reminders, err := h.svc.All(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reminders": reminders})
}

func (h *Handler) Take(c echo.Context) error {
	frequencyID, err := uuid.Parse(c.Param("frequencyId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid frequency id")
	}

	var in struct {
		Taken bool   `json:"taken"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.svc.Take(c.Request().Context(), frequencyID, auth.UserIDFromContext(c), in.Taken, in.Notes)
	if err != nil {
		return h.httpError(err)
	}

	action := "skipped"
	if in.Taken {
		action = "taken"
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medicine " + action + " successfully"})
}

func (h *Handler) ReplaceSchedule(c echo.Context) error {
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medicine id")
	}

	var in struct {
		Frequencies []ScheduleInput `json:"frequencies"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.svc.ReplaceSchedule(c.Request().Context(), medicineID, auth.UserIDFromContext(c), in.Frequencies)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Reminder schedule updated successfully",
		"count":   len(in.Frequencies),
	})
}
