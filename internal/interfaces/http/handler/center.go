package handler

import (
	appcenter "github.com/bloodbank/backend/internal/application/center"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CenterHandler handles medical center endpoints
type CenterHandler struct {
	BaseHandler
	centerService *appcenter.CenterService
}

// NewCenterHandler creates a new CenterHandler
func NewCenterHandler(centerService *appcenter.CenterService, logger *zap.Logger) *CenterHandler {
	return &CenterHandler{
		BaseHandler:   NewBaseHandler(logger),
		centerService: centerService,
	}
}

// CreateCenter registers a new medical center
// POST /api/v1/centers
func (h *CenterHandler) CreateCenter(c *gin.Context) {
	var req appcenter.CreateCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.centerService.CreateCenter(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetCenter retrieves a center by ID
// GET /api/v1/centers/:id
func (h *CenterHandler) GetCenter(c *gin.Context) {
	centerID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.centerService.GetByID(c.Request.Context(), centerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// centerListQuery is the query contract for center listing
type centerListQuery struct {
	dto.ListRequest
	City   string `form:"city" binding:"omitempty"`
	County string `form:"county" binding:"omitempty"`
	Active *bool  `form:"active" binding:"omitempty"`
}

// ListCenters lists centers with filtering and pagination
// GET /api/v1/centers
func (h *CenterHandler) ListCenters(c *gin.Context) {
	var query centerListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := query.ToFilter()
	if query.City != "" {
		filter.Filters["city"] = query.City
	}
	if query.County != "" {
		filter.Filters["county"] = query.County
	}
	if query.Active != nil {
		filter.Filters["is_active"] = *query.Active
	}

	centers, total, err := h.centerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, centers, filter.Page, filter.PageSize, total)
}

// ListActiveCenters lists the active centers in a city, used by the booking
// flow to offer donation locations
// GET /api/v1/centers/active?city=X
func (h *CenterHandler) ListActiveCenters(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		h.BadRequest(c, "city query parameter is required")
		return
	}
	centers, err := h.centerService.ListActiveByCity(c.Request.Context(), city)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, centers)
}

// UpdateCenter updates a center's contact details
// PUT /api/v1/centers/:id
func (h *CenterHandler) UpdateCenter(c *gin.Context) {
	centerID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appcenter.UpdateCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.centerService.UpdateCenter(c.Request.Context(), centerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ActivateCenter returns a center to service
// POST /api/v1/centers/:id/activate
func (h *CenterHandler) ActivateCenter(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateCenter takes a center out of service
// POST /api/v1/centers/:id/deactivate
func (h *CenterHandler) DeactivateCenter(c *gin.Context) {
	h.setActive(c, false)
}

func (h *CenterHandler) setActive(c *gin.Context, active bool) {
	centerID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.centerService.SetActive(c.Request.Context(), centerID, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
