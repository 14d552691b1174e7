package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/appointment"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*appointment.DonationAppointment, error) {
	var a appointment.DonationAppointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByDonor finds a donor's appointments
func (r *GormAppointmentRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]appointment.DonationAppointment, error) {
	var appointments []appointment.DonationAppointment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&appointment.DonationAppointment{}).
			Where("donor_id = ?", donorID),
		filter,
	)
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindByCenter finds a center's appointments
func (r *GormAppointmentRepository) FindByCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]appointment.DonationAppointment, error) {
	var appointments []appointment.DonationAppointment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&appointment.DonationAppointment{}).
			Where("medical_center_id = ?", centerID),
		filter,
	)
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindOpenByDonor finds the donor's pending and confirmed appointments
func (r *GormAppointmentRepository) FindOpenByDonor(ctx context.Context, donorID uuid.UUID) ([]appointment.DonationAppointment, error) {
	var appointments []appointment.DonationAppointment
	if err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Where("status IN ?", []appointment.AppointmentStatus{
			appointment.StatusPending, appointment.StatusConfirmed,
		}).
		Order("scheduled_at ASC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindScheduledBetween finds confirmed appointments inside a time range
func (r *GormAppointmentRepository) FindScheduledBetween(ctx context.Context, centerID uuid.UUID, from, to time.Time) ([]appointment.DonationAppointment, error) {
	var appointments []appointment.DonationAppointment
	if err := r.db.WithContext(ctx).
		Where("medical_center_id = ?", centerID).
		Where("status = ?", appointment.StatusConfirmed).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at ASC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, a *appointment.DonationAppointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// SaveWithLock persists the appointment with a compare-and-swap on its version
func (r *GormAppointmentRepository) SaveWithLock(ctx context.Context, a *appointment.DonationAppointment) error {
	result := r.db.WithContext(ctx).
		Model(&appointment.DonationAppointment{}).
		Where("id = ? AND version = ?", a.ID, a.Version-1).
		Select("*").Omit("id", "created_at").
		Updates(a)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts appointments matching the filter
func (r *GormAppointmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&appointment.DonationAppointment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAppointmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("scheduled_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAppointmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "donor_id":
			query = query.Where("donor_id = ?", value)
		case "medical_center_id":
			query = query.Where("medical_center_id = ?", value)
		}
	}
	return query
}

// Ensure GormAppointmentRepository implements AppointmentRepository
var _ appointment.AppointmentRepository = (*GormAppointmentRepository)(nil)
