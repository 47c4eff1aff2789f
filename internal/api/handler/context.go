package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookwyrm/bookshelf-system/internal/api/middleware"
	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

// ctxUser extracts the identity injected by the Auth middleware and performs
// a fast-fail check before any service call: a missing record means the
// middleware did not run or the route is miswired, so reject with 401.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil || user.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Missing user identity")
	}
	return user, nil
}
