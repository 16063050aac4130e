package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey   = "user_id"
	emailKey    = "user_email"
	userTypeKey = "user_type"
)

// User role constants.
const (
	RolePatient = "Patient"
	RoleFamily  = "Family"
	RoleNurse   = "Nurse"
)

// RequireAuth returns middleware that rejects requests without a valid bearer
// token. Missing tokens yield 403, invalid or expired ones 401.
func RequireAuth(jwtService *JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusForbidden, "no token provided")
			}

			tokenString := header
			if strings.HasPrefix(header, "Bearer ") {
				tokenString = strings.TrimPrefix(header, "Bearer ")
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(userIDKey, claims.UserID)
			c.Set(emailKey, claims.Email)
			c.Set(userTypeKey, claims.UserType)
			return next(c)
		}
	}
}

// RequireRole returns middleware that allows only the listed user types. It
// must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := UserTypeFromContext(c)
			for _, role := range roles {
				if userType == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access denied")
		}
	}
}

// UserIDFromContext returns the authenticated user's id, or uuid.Nil when the
// request is unauthenticated.
func UserIDFromContext(c echo.Context) uuid.UUID {
	id, _ := c.Get(userIDKey).(uuid.UUID)
	return id
}

// EmailFromContext returns the authenticated user's email.
func EmailFromContext(c echo.Context) string {
	email, _ := c.Get(emailKey).(string)
	return email
}

// UserTypeFromContext returns the authenticated user's role.
func UserTypeFromContext(c echo.Context) string {
	userType, _ := c.Get(userTypeKey).(string)
	return userType
}
