package blood

import (
	"strings"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BloodType is reference data describing one of the eight standard ABO/Rh groups.
// Rows are seeded at setup time and never mutated by business operations.
type BloodType struct {
	shared.BaseEntity
	Name                 string `gorm:"type:varchar(3);not null;uniqueIndex"` // A+, A-, B+, B-, O+, O-, AB+, AB-
	Group                string `gorm:"type:varchar(2);not null"`             // A, B, AB, O
	RhFactor             string `gorm:"type:varchar(1);not null"`             // + or -
	Description          string `gorm:"type:varchar(255)"`
	PopulationPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
}

// TableName returns the table name for GORM
func (BloodType) TableName() string {
	return "blood_types"
}

// NewBloodType creates a blood type from its canonical name (e.g. "AB-")
func NewBloodType(name string) (*BloodType, error) {
	normalized := Normalize(name)
	if !IsKnownType(normalized) {
		return nil, shared.NewDomainError("INVALID_BLOOD_TYPE", "Unknown blood type: "+name)
	}

	group := strings.TrimRight(normalized, "+-")
	rh := normalized[len(group):]

	return &BloodType{
		BaseEntity: shared.NewBaseEntity(),
		Name:       normalized,
		Group:      group,
		RhFactor:   rh,
	}, nil
}

// Normalize upper-cases and trims a blood type string
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// CanDonateTo reports whether a unit of this type may be transfused
// into a recipient of the given type
func (t *BloodType) CanDonateTo(recipientType string) bool {
	return CanDonateTo(t.Name, recipientType)
}

// CanReceiveFrom reports whether a recipient of this type may receive
// a unit of the given donor type
func (t *BloodType) CanReceiveFrom(donorType string) bool {
	return CanDonateTo(donorType, t.Name)
}
