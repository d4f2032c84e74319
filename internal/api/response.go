package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxportal/filing-engine/internal/domain"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries the stable error code.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HTTPStatus maps a stable error code to its HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeIncompleteFiling:
		return http.StatusUnprocessableEntity
	case domain.CodeActorNotPermitted:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeRecordLocked:
		return http.StatusLocked
	case domain.CodeIllegalTransition, domain.CodeAlreadyFiled, domain.CodeDeleteNotAllowed:
		return http.StatusConflict
	case domain.CodeVersionConflict:
		return http.StatusPreconditionFailed
	}
	return http.StatusInternalServerError
}

// BaseHandler provides common response helpers.
type BaseHandler struct{}

// Success sends a 200 response.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created sends a 201 response.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// NoContent sends a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status derived from code.
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(HTTPStatus(code), Response{
		Error: &ErrorInfo{Code: code, Message: message, RequestID: c.GetString(requestIDKey)},
	})
}

// HandleDomainError converts domain errors to HTTP responses. Anything else
// is logged and reported as INTERNAL without its detail.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}
	_ = c.Error(err)
	h.Error(c, domain.CodeInternal, "An unexpected error occurred")
}
