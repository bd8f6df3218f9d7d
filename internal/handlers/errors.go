package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"catalog-orders/internal/middleware"
	"catalog-orders/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError traduce los errores del servicio a status HTTP. Los fallos
// inesperados se registran con su causa y se responden con un mensaje genérico.
func respondError(c *gin.Context, logger *log.Entry, err error, genericMessage string) {
	var verr *service.ValidationError
	var nferr *service.NotFoundError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error()})
	case errors.As(err, &nferr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: nferr.Error()})
	default:
		_ = c.Error(err)
		entry := logger.WithError(err).WithFields(log.Fields{
			"request_id": middleware.GetRequestID(c),
			"store":      service.IsStoreError(err),
		})
		if service.IsUnknownCollection(err) {
			entry = entry.WithField("bug", true)
		}
		entry.Error(genericMessage)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: genericMessage})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
