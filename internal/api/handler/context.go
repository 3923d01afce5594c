package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - lecturer role requires a non-empty lecturer_id; without it the JWT is
//     structurally valid but operationally unusable — reject with 401.
func ctxClaims(c echo.Context) (role, lecturerID string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	lecturerID, _ = c.Get("lecturer_id").(string)
	if role == domain.RoleLecturer && lecturerID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing lecturer identity")
	}

	return role, lecturerID, nil
}
