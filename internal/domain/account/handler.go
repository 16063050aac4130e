package account

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

// RegisterRoutes mounts auth endpoints on the public group and user management
// endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(public *echo.Group, api *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)

	api.GET("/auth/me", h.Me)
	api.PUT("/users/profile", h.UpdateProfile)

	caretakers := api.Group("", auth.RequireRole(auth.RoleFamily, auth.RoleNurse))
	caretakers.GET("/users/patients", h.ListPatients)
	caretakers.GET("/users/search-patient", h.SearchPatient)
	caretakers.POST("/users/link-patient", h.LinkPatient)

	api.GET("/users/caretakers", h.ListCaretakers, auth.RequireRole(auth.RolePatient))
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		// duplicate email and validation failures both map to 400
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"user_type": user.UserType,
		},
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    profile,
	})
}

func (h *Handler) Me(c echo.Context) error {
	profile, err := h.svc.CurrentUser(c.Request().Context(), auth.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": profile})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var in ProfileUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.svc.UpdateProfile(c.Request().Context(), auth.UserIDFromContext(c), auth.UserTypeFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context(), auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*PatientSummary{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patients": patients})
}

func (h *Handler) SearchPatient(c echo.Context) error {
	patient, err := h.svc.SearchPatient(c.Request().Context(), auth.UserIDFromContext(c), c.QueryParam("email"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
		case errors.Is(err, ErrAlreadyLinked):
			return echo.NewHTTPError(http.StatusBadRequest, "Patient is already linked to your account")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patient": patient})
}

func (h *Handler) LinkPatient(c echo.Context) error {
	var in struct {
		PatientID uuid.UUID `json:"patient_id"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.svc.LinkPatient(c.Request().Context(), auth.UserIDFromContext(c), in.PatientID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
		case errors.Is(err, ErrAlreadyLinked):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Patient linked to caretaker successfully"})
}

func (h *Handler) ListCaretakers(c echo.Context) error {
	caretakers, err := h.svc.ListCaretakers(c.Request().Context(), auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"caretakers": caretakers})
}
