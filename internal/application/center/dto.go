package center

import (
	"github.com/bloodbank/backend/internal/domain/center"
	"github.com/google/uuid"
)

// CreateCenterRequest is the input for registering a medical center
type CreateCenterRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
	City    string `json:"city" binding:"required"`
	County  string `json:"county,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" binding:"omitempty,email"`
}

// UpdateCenterRequest is the input for updating a center's details
type UpdateCenterRequest struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city" binding:"required"`
	County  string `json:"county,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" binding:"omitempty,email"`
}

// CenterResponse is the API representation of a medical center
type CenterResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Address  string    `json:"address,omitempty"`
	City     string    `json:"city"`
	County   string    `json:"county,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Email    string    `json:"email,omitempty"`
	IsActive bool      `json:"is_active"`
}

// ToCenterResponse converts a domain center to its API representation
func ToCenterResponse(c *center.MedicalCenter) CenterResponse {
	return CenterResponse{
		ID:       c.ID,
		Name:     c.Name,
		Address:  c.Address,
		City:     c.City,
		County:   c.County,
		Phone:    c.Phone,
		Email:    c.Email,
		IsActive: c.IsActive,
	}
}

// ToCenterResponses converts a slice of centers
func ToCenterResponses(centers []center.MedicalCenter) []CenterResponse {
	responses := make([]CenterResponse, len(centers))
	for i := range centers {
		responses[i] = ToCenterResponse(&centers[i])
	}
	return responses
}
