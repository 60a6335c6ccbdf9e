package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/policy"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Details)
	case errors.Is(err, app.ErrEmailExists):
		response.Error[any](c, http.StatusBadRequest, "Email already exists", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusBadRequest, "Invalid credentials", nil)
	case errors.Is(err, helpers.ErrMissingToken),
		errors.Is(err, helpers.ErrInvalidToken),
		errors.Is(err, helpers.ErrExpiredToken):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, policy.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "Task not found", nil)
	case errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, policy.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "Forbidden", nil)
	case errors.Is(err, app.ErrAvatarUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "Avatar upload unavailable", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindError reports a body that could not be decoded.
func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func callerID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
