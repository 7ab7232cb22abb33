package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/logging"
	"github.com/pageza/linkbio/backend/internal/middleware"
	"github.com/pageza/linkbio/backend/internal/service"
)

// respondError writes err as {"error": message} with the status its code maps
// to. authStatus is used for AUTH_FAILED, which is 401 on session endpoints
// and 400 on token-consuming ones.
func respondError(c *gin.Context, logger *slog.Logger, err error, authStatus int) {
	status := statusFor(err, authStatus)
	if status == http.StatusInternalServerError {
		logging.LogError(logger, "request failed", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error, authStatus int) int {
	switch service.ErrorCode(err) {
	case service.CodeConflict, service.CodeInvalidInput, service.CodeInvalidToken:
		return http.StatusBadRequest
	case service.CodeAuthFailed:
		return authStatus
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// paramUUID parses a path parameter, answering 404 with notFoundMsg when it is
// not a uuid. Ids that cannot exist are reported like missing rows.
func paramUUID(c *gin.Context, name, notFoundMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the id set by the auth middleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
