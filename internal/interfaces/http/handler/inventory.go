package handler

import (
	appinv "github.com/bloodbank/backend/internal/application/inventory"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryHandler handles blood unit lifecycle and stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinv.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *appinv.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler:      NewBaseHandler(logger),
		inventoryService: inventoryService,
	}
}

// RegisterUnit records a collected blood unit
// POST /api/v1/inventory/units
func (h *InventoryHandler) RegisterUnit(c *gin.Context) {
	var req appinv.RegisterUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	unit, err := h.inventoryService.RegisterUnit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

// GetUnit retrieves a blood unit by ID
// GET /api/v1/inventory/units/:id
func (h *InventoryHandler) GetUnit(c *gin.Context) {
	unitID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	unit, err := h.inventoryService.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// GetUnitByBatch retrieves a blood unit by batch number
// GET /api/v1/inventory/units/batch/:batch
func (h *InventoryHandler) GetUnitByBatch(c *gin.Context) {
	unit, err := h.inventoryService.GetByBatchNumber(c.Request.Context(), c.Param("batch"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// unitListQuery is the query contract for unit listing
type unitListQuery struct {
	dto.ListRequest
	Status          string `form:"status" binding:"omitempty"`
	BloodTypeID     string `form:"blood_type_id" binding:"omitempty,uuid"`
	MedicalCenterID string `form:"medical_center_id" binding:"omitempty,uuid"`
	DonorID         string `form:"donor_id" binding:"omitempty,uuid"`
}

// ListUnits lists blood units with filtering and pagination
// GET /api/v1/inventory/units
func (h *InventoryHandler) ListUnits(c *gin.Context) {
	var query unitListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := query.ToFilter()
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	addUUIDFilter(filter.Filters, "blood_type_id", query.BloodTypeID)
	addUUIDFilter(filter.Filters, "medical_center_id", query.MedicalCenterID)
	addUUIDFilter(filter.Filters, "donor_id", query.DonorID)

	units, total, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, units, filter.Page, filter.PageSize, total)
}

// CompleteTesting records the quality check outcome for a unit
// POST /api/v1/inventory/units/:id/testing
func (h *InventoryHandler) CompleteTesting(c *gin.Context) {
	unitID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appinv.CompleteTestingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	unit, err := h.inventoryService.CompleteTesting(c.Request.Context(), unitID, req.Passed)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// reserveUnitRequest binds the request a unit is reserved for
type reserveUnitRequest struct {
	RequestID uuid.UUID `json:"request_id" binding:"required"`
}

// ReserveUnit allocates a unit to a blood request
// POST /api/v1/inventory/units/:id/reserve
func (h *InventoryHandler) ReserveUnit(c *gin.Context) {
	unitID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reserveUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	unit, err := h.inventoryService.Reserve(c.Request.Context(), unitID, req.RequestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// CancelReservation returns a reserved unit to stock
// POST /api/v1/inventory/units/:id/cancel-reservation
func (h *InventoryHandler) CancelReservation(c *gin.Context) {
	unitID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	unit, err := h.inventoryService.CancelReservation(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// MarkAsUsed records the transfusion of a reserved unit
// POST /api/v1/inventory/units/:id/use
func (h *InventoryHandler) MarkAsUsed(c *gin.Context) {
	unitID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	unit, err := h.inventoryService.MarkAsUsed(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// FindCompatible searches stock for units a recipient can receive
// POST /api/v1/inventory/compatible
func (h *InventoryHandler) FindCompatible(c *gin.Context) {
	var req appinv.FindCompatibleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.inventoryService.FindCompatibleBlood(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetStatistics returns the stock report
// GET /api/v1/inventory/statistics
func (h *InventoryHandler) GetStatistics(c *gin.Context) {
	stats, err := h.inventoryService.GetStatistics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetExpiringSoon lists units inside the near-expiry window
// GET /api/v1/inventory/expiring
func (h *InventoryHandler) GetExpiringSoon(c *gin.Context) {
	units, err := h.inventoryService.GetExpiringSoon(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

// GetLowStock lists blood types with stock below the low threshold
// GET /api/v1/inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	low, err := h.inventoryService.GetLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, low)
}

// SweepExpired retires every unit past its expiry
// POST /api/v1/inventory/sweep
func (h *InventoryHandler) SweepExpired(c *gin.Context) {
	result, err := h.inventoryService.SweepExpired(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
