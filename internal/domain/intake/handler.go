package intake

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/remed/remed/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/intake/record", h.Record)
	api.GET("/intake/patient/:patientId/adherence", h.Adherence)
	api.GET("/intake/patient/:patientId/streak", h.Streak)
	api.GET("/intake/patient/:patientId/history", h.History)
	api.GET("/intake/patient/:patientId/missed", h.Missed)
}

func (h *Handler) Record(c echo.Context) error {
	var in RecordInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.svc.Record(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrFrequencyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Reminder not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Intake recorded successfully",
		"intake_id": rec.ID,
	})
}

func patientIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return id, nil
}

func dateQuery(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
	}
	return &t, nil
}

func (h *Handler) Adherence(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return err
	}
	start, err := dateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := dateQuery(c, "end_date")
	if err != nil {
		return err
	}

	summary, err := h.svc.Adherence(c.Request().Context(), patientID, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) Streak(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return err
	}

	streak, err := h.svc.Streaks(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, streak)
}

func (h *Handler) History(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return err
	}

	var filter HistoryFilter
	if filter.Start, err = dateQuery(c, "start_date"); err != nil {
		return err
	}
	if filter.End, err = dateQuery(c, "end_date"); err != nil {
		return err
	}
	if raw := c.QueryParam("medicine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid medicine_id")
		}
		filter.MedicineID = &id
	}

	params := pagination.FromContext(c)
	entries, total, err := h.svc.History(c.Request().Context(), patientID, filter, params.Limit, params.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, params.Limit, params.Offset))
}

func (h *Handler) Missed(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return err
	}

	days, _ := strconv.Atoi(c.QueryParam("days"))
	missed, err := h.svc.Missed(c.Request().Context(), patientID, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"missed": missed})
}
