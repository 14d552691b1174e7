package donation

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/appointment"
	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/bloodbank/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories touched
// by a donation completion. Completing a visit writes three aggregates, the
// appointment, the donor's history and the new blood unit, and either all of
// them land or none do.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the donation repositories
// scoped to the current transaction
type TransactionalRepositories interface {
	DonorRepo() donor.DonorRepository
	AppointmentRepo() appointment.AppointmentRepository
	UnitRepo() inventory.BloodUnitRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	donorRepo       donor.DonorRepository
	appointmentRepo appointment.AppointmentRepository
	unitRepo        inventory.BloodUnitRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	donorRepo donor.DonorRepository,
	appointmentRepo appointment.AppointmentRepository,
	unitRepo inventory.BloodUnitRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		donorRepo:       donorRepo,
		appointmentRepo: appointmentRepo,
		unitRepo:        unitRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DonorRepo returns the donor repository
func (s *NoOpTransactionScope) DonorRepo() donor.DonorRepository {
	return s.donorRepo
}

// AppointmentRepo returns the appointment repository
func (s *NoOpTransactionScope) AppointmentRepo() appointment.AppointmentRepository {
	return s.appointmentRepo
}

// UnitRepo returns the blood unit repository
func (s *NoOpTransactionScope) UnitRepo() inventory.BloodUnitRepository {
	return s.unitRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
