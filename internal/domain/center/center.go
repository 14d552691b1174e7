package center

import (
	"context"
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MedicalCenter represents a facility that collects and stores blood
type MedicalCenter struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Address  string `gorm:"type:text" json:"address"`
	City     string `gorm:"type:varchar(128);index" json:"city"`
	County   string `gorm:"type:varchar(128)" json:"county"`
	Phone    string `gorm:"type:varchar(32)" json:"phone"`
	Email    string `gorm:"type:varchar(255)" json:"email"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (MedicalCenter) TableName() string {
	return "medical_centers"
}

// NewMedicalCenter registers a center
func NewMedicalCenter(name, address, city, county, phone, email string) (*MedicalCenter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Center name cannot be empty")
	}
	if strings.TrimSpace(city) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Center city cannot be empty")
	}

	return &MedicalCenter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
		City:              city,
		County:            county,
		Phone:             phone,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		IsActive:          true,
	}, nil
}

// UpdateDetails updates the center's contact information
func (c *MedicalCenter) UpdateDetails(address, city, county, phone, email string, now time.Time) error {
	if strings.TrimSpace(city) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Center city cannot be empty")
	}
	c.Address = address
	c.City = city
	c.County = county
	c.Phone = phone
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Deactivate takes the center out of service. Inactive centers accept no new
// appointments or units.
func (c *MedicalCenter) Deactivate(now time.Time) {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.UpdatedAt = now
	c.IncrementVersion()
}

// Activate returns the center to service
func (c *MedicalCenter) Activate(now time.Time) {
	if c.IsActive {
		return
	}
	c.IsActive = true
	c.UpdatedAt = now
	c.IncrementVersion()
}

// MedicalCenterRepository defines the interface for center persistence
type MedicalCenterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MedicalCenter, error)
	FindByName(ctx context.Context, name string) (*MedicalCenter, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]MedicalCenter, error)
	FindActiveByCity(ctx context.Context, city string) ([]MedicalCenter, error)
	Save(ctx context.Context, c *MedicalCenter) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
