package handlers

import (
	"net/http"

	"concierge/services/svcerr"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError maps domain error codes onto HTTP statuses.
// Validation and not-found conditions surface their message; upstream and
// internal failures are logged and returned as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch svcerr.CodeOf(err) {
	case svcerr.CodeUnauthenticated:
		utils.JSONError(c, http.StatusUnauthorized, svcerr.MessageOf(err), "")
	case svcerr.CodeValidation:
		utils.JSONError(c, http.StatusBadRequest, svcerr.MessageOf(err), "")
	case svcerr.CodeNotFound:
		utils.JSONError(c, http.StatusNotFound, svcerr.MessageOf(err), "")
	case svcerr.CodeConflict:
		utils.JSONError(c, http.StatusConflict, svcerr.MessageOf(err), "")
	default:
		utils.GetLogger().Error("request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error",
			"An unexpected error occurred. Please try again later.")
	}
}
