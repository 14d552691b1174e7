package handler

import (
	apprequest "github.com/bloodbank/backend/internal/application/request"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestHandler handles blood request endpoints
type RequestHandler struct {
	BaseHandler
	requestService *apprequest.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *apprequest.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    NewBaseHandler(logger),
		requestService: requestService,
	}
}

// CreateRequest files a pending blood request
// POST /api/v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req apprequest.CreateRequestRequest
	if !h.BindJSON(c, &req) {
		return
	}
	r, err := h.requestService.CreateRequest(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

// GetRequest retrieves a blood request by ID
// GET /api/v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.requestService.GetByID(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// requestListQuery is the query contract for request listing
type requestListQuery struct {
	dto.ListRequest
	Status          string `form:"status" binding:"omitempty"`
	Urgency         string `form:"urgency" binding:"omitempty"`
	BloodType       string `form:"blood_type" binding:"omitempty"`
	MedicalCenterID string `form:"medical_center_id" binding:"omitempty,uuid"`
}

// ListRequests lists blood requests with filtering and pagination
// GET /api/v1/requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	var query requestListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := query.ToFilter()
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.Urgency != "" {
		filter.Filters["urgency"] = query.Urgency
	}
	if query.BloodType != "" {
		filter.Filters["blood_type_name"] = query.BloodType
	}
	addUUIDFilter(filter.Filters, "medical_center_id", query.MedicalCenterID)

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, requests, filter.Page, filter.PageSize, total)
}

// ApproveRequest allocates stock to a pending request and reserves it
// POST /api/v1/requests/:id/approve
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	requestID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.requestService.ApproveRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RejectRequest declines a pending request
// POST /api/v1/requests/:id/reject
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	requestID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req apprequest.RejectRequestRequest
	if !h.BindJSON(c, &req) {
		return
	}
	r, err := h.requestService.RejectRequest(c.Request.Context(), requestID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// FulfillRequest closes an approved request and marks its units as used
// POST /api/v1/requests/:id/fulfill
func (h *RequestHandler) FulfillRequest(c *gin.Context) {
	requestID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.requestService.FulfillRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// CancelRequest withdraws a pending or approved request
// POST /api/v1/requests/:id/cancel
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	requestID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.requestService.CancelRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}
