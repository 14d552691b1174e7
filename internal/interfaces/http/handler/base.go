package handler

import (
	"errors"
	"net/http"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/bloodbank/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a new BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	h.respond(c, http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	h.respond(c, http.StatusCreated, dto.NewSuccessResponse(data))
}

// Paginated sends a 200 response with data and pagination metadata
func (h *BaseHandler) Paginated(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	h.respond(c, http.StatusOK, dto.NewPaginatedResponse(data, page, pageSize, total))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 validation error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.respond(c, http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, message))
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.respond(c, http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
}

// HandleError converts an error into the appropriate HTTP response. Domain
// errors map by code; anything else is a 500 with the details withheld.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			h.logError(c, err)
		}
		h.respond(c, status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	h.logError(c, err)
	h.respond(c, http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternalError, "An internal error occurred"))
}

// BindJSON binds the request body, sending a 400 on failure. It returns
// false when the request was already answered.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// BindQuery binds query parameters, sending a 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return false
	}
	return true
}

// ParseUUIDParam parses a UUID path parameter, sending a 400 on failure
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" parameter: must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BaseHandler) respond(c *gin.Context, status int, resp dto.Response) {
	if resp.Meta != nil {
		resp.Meta.RequestID = middleware.GetRequestID(c)
	}
	c.JSON(status, resp)
}

func (h *BaseHandler) logError(c *gin.Context, err error) {
	h.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err))
}
