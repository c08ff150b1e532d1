package handler

import (
	"net/http"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
)

// claimsFromContext extracts the authenticated user's id and role from the
// JWT placed on the context by the auth middleware.
func claimsFromContext(c echo.Context) (uuid.UUID, model.Role, error) {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}

	idStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid user id in token")
	}

	roleStr, _ := claims["role"].(string)
	return userID, model.Role(roleStr), nil
}

// RoleFromContext extracts only the role claim; used by role middleware.
func RoleFromContext(c echo.Context) (model.Role, error) {
	_, role, err := claimsFromContext(c)
	return role, err
}

// domainError translates a service error into an HTTP error response.
func domainError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// parseUUIDParam parses a path parameter as a UUID.
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}
