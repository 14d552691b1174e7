package persistence

import (
	"context"

	"github.com/bloodbank/backend/internal/application/donation"
	"github.com/bloodbank/backend/internal/domain/appointment"
	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos donation.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories scoped to the current transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// DonorRepo returns the donor repository scoped to the current transaction
func (r *gormTransactionalRepositories) DonorRepo() donor.DonorRepository {
	return NewGormDonorRepository(r.tx)
}

// AppointmentRepo returns the appointment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AppointmentRepo() appointment.AppointmentRepository {
	return NewGormAppointmentRepository(r.tx)
}

// UnitRepo returns the blood unit repository scoped to the current transaction
func (r *gormTransactionalRepositories) UnitRepo() inventory.BloodUnitRepository {
	return NewGormBloodUnitRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ donation.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ donation.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
