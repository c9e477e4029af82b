package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spendlens/backend/internal/infrastructure/logger"
	"github.com/spendlens/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequestIDKey is the header carrying the request ID
const RequestIDKey = "X-Request-ID"

// requestIDContextKey is where the RequestID middleware stores the ID
const requestIDContextKey = "request_id"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(requestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// OK sends data as a 200 JSON body
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error body with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(message))
}

// BadRequest sends a 400 error body
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, message)
}

// InternalError logs err with the request logger and sends a 500 carrying
// only the public message.
func (h *BaseHandler) InternalError(c *gin.Context, message string, err error) {
	h.logFailure(c, message, err)
	h.Error(c, http.StatusInternalServerError, message)
}

// InternalErrorWithDetails is InternalError with a details payload in the body
func (h *BaseHandler) InternalErrorWithDetails(c *gin.Context, message string, err error, details any) {
	h.logFailure(c, message, err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithDetails(message, details))
}

func (h *BaseHandler) logFailure(c *gin.Context, message string, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	logger.GetGinLogger(c).Error(message,
		zap.String("request_id", getRequestID(c)),
		zap.Error(err),
	)
}
