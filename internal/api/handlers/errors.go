package handlers

import (
	"net/http"

	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:           http.StatusBadRequest,
	services.KindAuthorization:        http.StatusForbidden,
	services.KindInvalidTransition:    http.StatusConflict,
	services.KindDuplicateApplication: http.StatusConflict,
	services.KindConflict:             http.StatusConflict,
	services.KindNotFound:             http.StatusNotFound,
	services.KindStoreUnavailable:     http.StatusServiceUnavailable,
	services.KindUnauthenticated:      http.StatusUnauthorized,
}

// respondError writes a service error as {"kind", "error"} with the matching status.
func respondError(c *gin.Context, err error, operation string) {
	kind := services.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		log.WithFields(log.Fields{"operation": operation, "error": err}).Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"kind": services.KindInternal, "error": "Failed to " + operation})
		return
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"kind": kind, "error": err.Error()})
}
