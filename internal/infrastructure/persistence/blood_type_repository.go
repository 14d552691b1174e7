package persistence

import (
	"context"
	"errors"

	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBloodTypeRepository implements BloodTypeRepository using GORM
type GormBloodTypeRepository struct {
	db *gorm.DB
}

// NewGormBloodTypeRepository creates a new GormBloodTypeRepository
func NewGormBloodTypeRepository(db *gorm.DB) *GormBloodTypeRepository {
	return &GormBloodTypeRepository{db: db}
}

// FindByID finds a blood type by its ID
func (r *GormBloodTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*blood.BloodType, error) {
	var bt blood.BloodType
	if err := r.db.WithContext(ctx).First(&bt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bt, nil
}

// FindByName finds a blood type by its canonical name
func (r *GormBloodTypeRepository) FindByName(ctx context.Context, name string) (*blood.BloodType, error) {
	var bt blood.BloodType
	if err := r.db.WithContext(ctx).First(&bt, "name = ?", blood.Normalize(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bt, nil
}

// FindAll returns all blood types
func (r *GormBloodTypeRepository) FindAll(ctx context.Context) ([]blood.BloodType, error) {
	var types []blood.BloodType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// Save creates or updates a blood type
func (r *GormBloodTypeRepository) Save(ctx context.Context, bt *blood.BloodType) error {
	return r.db.WithContext(ctx).Save(bt).Error
}

// SeedBloodTypes inserts the eight canonical blood types if they are missing.
// Existing rows are left untouched.
func SeedBloodTypes(ctx context.Context, db *gorm.DB) error {
	for _, name := range blood.AllTypes() {
		bt, err := blood.NewBloodType(name)
		if err != nil {
			return err
		}
		if err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).
			Create(bt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormBloodTypeRepository implements BloodTypeRepository
var _ blood.BloodTypeRepository = (*GormBloodTypeRepository)(nil)
