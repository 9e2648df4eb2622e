package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"symptom-checker-server/internal/utils"
)

// respondInternal logs err and sends a 500. The error text is only exposed
// when the server runs in development mode.
func respondInternal(c *gin.Context, logger *zap.Logger, exposeErrors bool, message string, err error) {
	logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
	if exposeErrors {
		utils.ErrorDetails(c, http.StatusInternalServerError, "Internal server error", err.Error(), nil, nil)
		return
	}
	utils.InternalServerError(c, "Internal server error")
}
