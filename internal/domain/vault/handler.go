package vault

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
	api.GET("/vaults/patient/:patientId", h.ListByPatient)
	api.GET("/vaults/patient/:patientId/low", h.Low)
	api.PUT("/vaults/:vaultId", h.UpdateQuantity)
}

func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Vault item not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	items, err := h.svc.ListByPatient(c.Request().Context(), auth.UserIDFromContext(c), patientID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"vault": items})
}

func (h *Handler) Low(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	items, err := h.svc.Low(c.Request().Context(), auth.UserIDFromContext(c), patientID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"low": items})
}

func (h *Handler) UpdateQuantity(c echo.Context) error {
	vaultID, err := uuid.Parse(c.Param("vaultId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vault id")
	}

	var in struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Quantity == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity is required")
	}

	item, err := h.svc.UpdateQuantity(c.Request().Context(), vaultID, auth.UserIDFromContext(c), *in.Quantity)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Quantity updated successfully",
		"item":    item,
	})
}
