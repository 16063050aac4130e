package medicine

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
	api.POST("/medicines", h.Add)
	api.GET("/medicines/patient/:patientId", h.ListByPatient)
	api.PUT("/medicines/:medicineId", h.Update)
	api.DELETE("/medicines/:medicineId", h.Delete)
}

func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Medicine not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) Add(c echo.Context) error {
	var in AddInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.Add(c.Request().Context(), auth.UserIDFromContext(c), in)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Medicine added successfully",
		"medicine_id": id,
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	medicines, err := h.svc.List(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	if medicines == nil {
		medicines = []*CabinetEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"medicines": medicines})
}

func (h *Handler) Update(c echo.Context) error {
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medicine id")
	}

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.svc.Update(c.Request().Context(), medicineID,
		auth.UserIDFromContext(c), auth.UserTypeFromContext(c), in)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medicine updated successfully"})
}

func (h *Handler) Delete(c echo.Context) error {
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medicine id")
	}

	err = h.svc.Delete(c.Request().Context(), medicineID,
		auth.UserIDFromContext(c), auth.UserTypeFromContext(c))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medicine deleted successfully"})
}
