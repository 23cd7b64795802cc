package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muandane/special-stack/phimgate/internal/cache"
	"github.com/muandane/special-stack/phimgate/internal/catalog"
	"github.com/muandane/special-stack/phimgate/internal/image"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func sendError(c *gin.Context, logger *slog.Logger, code int, message string, err error) {
	attrs := []any{"error", err, "code", code, "path", c.Request.URL.Path}
	if code >= http.StatusInternalServerError {
		logger.Error(message, attrs...)
	} else {
		logger.Debug(message, attrs...)
	}

	c.Header("Cache-Control", cache.NoStoreCacheControl)
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Message: message,
	})
}

func handleError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		validationErr *ValidationError
		configErr     *image.ConfigurationError
		notFoundErr   *NotFoundError
		statusErr     *catalog.StatusError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &configErr):
		sendError(c, logger, http.StatusBadRequest, "validation error", err)
	case errors.As(err, &notFoundErr), errors.Is(err, catalog.ErrNotFound):
		sendError(c, logger, http.StatusNotFound, "resource not found", err)
	case errors.As(err, &statusErr):
		sendError(c, logger, http.StatusBadGateway, "upstream request failed", err)
	default:
		sendError(c, logger, http.StatusInternalServerError, "internal server error", err)
	}
}
