package handler

import (
	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BloodTypeHandler serves the blood type reference data and the
// compatibility matrix
type BloodTypeHandler struct {
	BaseHandler
	bloodTypeRepo blood.BloodTypeRepository
}

// NewBloodTypeHandler creates a new BloodTypeHandler
func NewBloodTypeHandler(bloodTypeRepo blood.BloodTypeRepository, logger *zap.Logger) *BloodTypeHandler {
	return &BloodTypeHandler{
		BaseHandler:   NewBaseHandler(logger),
		bloodTypeRepo: bloodTypeRepo,
	}
}

// ListBloodTypes lists all blood types
// GET /api/v1/blood-types
func (h *BloodTypeHandler) ListBloodTypes(c *gin.Context) {
	types, err := h.bloodTypeRepo.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// GetCompatibility returns the compatible donor and recipient types for a
// blood type
// GET /api/v1/blood-types/:name/compatibility
func (h *BloodTypeHandler) GetCompatibility(c *gin.Context) {
	name := blood.Normalize(c.Param("name"))
	if !blood.IsKnownType(name) {
		h.BadRequest(c, "Unknown blood type")
		return
	}
	h.Success(c, gin.H{
		"blood_type":       name,
		"can_receive_from": blood.CompatibleDonors(name),
		"can_donate_to":    blood.CompatibleRecipients(name),
	})
}
