package donation

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbank/backend/internal/domain/appointment"
	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/center"
	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDonorRepository is a mock implementation of DonorRepository
type MockDonorRepository struct {
	mock.Mock
}

func (m *MockDonorRepository) FindByID(ctx context.Context, id uuid.UUID) (*donor.Donor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donor.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindByEmail(ctx context.Context, email string) (*donor.Donor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donor.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]donor.Donor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]donor.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindAvailableByBloodType(ctx context.Context, bloodTypeID uuid.UUID, filter shared.Filter) ([]donor.Donor, error) {
	args := m.Called(ctx, bloodTypeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]donor.Donor), args.Error(1)
}

func (m *MockDonorRepository) Save(ctx context.Context, d *donor.Donor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonorRepository) SaveWithLock(ctx context.Context, d *donor.Donor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*appointment.DonationAppointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.DonationAppointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]appointment.DonationAppointment, error) {
	args := m.Called(ctx, donorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.DonationAppointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]appointment.DonationAppointment, error) {
	args := m.Called(ctx, centerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.DonationAppointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindOpenByDonor(ctx context.Context, donorID uuid.UUID) ([]appointment.DonationAppointment, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.DonationAppointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindScheduledBetween(ctx context.Context, centerID uuid.UUID, from, to time.Time) ([]appointment.DonationAppointment, error) {
	args := m.Called(ctx, centerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.DonationAppointment), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, a *appointment.DonationAppointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) SaveWithLock(ctx context.Context, a *appointment.DonationAppointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUnitRepository is a partial mock of BloodUnitRepository, only the
// methods the donation flow touches are expected
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BloodUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*inventory.BloodUnit, error) {
	args := m.Called(ctx, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindByStatus(ctx context.Context, status inventory.BloodUnitStatus, filter shared.Filter) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindAvailableByTypes(ctx context.Context, typeNames []string, now time.Time) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, typeNames, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindExpiredCandidates(ctx context.Context, now time.Time) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindNearExpiry(ctx context.Context, now time.Time, window time.Duration) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindReservedFor(ctx context.Context, requestID uuid.UUID) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, donorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *inventory.BloodUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) SaveWithLock(ctx context.Context, unit *inventory.BloodUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCenterRepository is a mock implementation of MedicalCenterRepository
type MockCenterRepository struct {
	mock.Mock
}

func (m *MockCenterRepository) FindByID(ctx context.Context, id uuid.UUID) (*center.MedicalCenter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*center.MedicalCenter), args.Error(1)
}

func (m *MockCenterRepository) FindByName(ctx context.Context, name string) (*center.MedicalCenter, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*center.MedicalCenter), args.Error(1)
}

func (m *MockCenterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]center.MedicalCenter, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]center.MedicalCenter), args.Error(1)
}

func (m *MockCenterRepository) FindActiveByCity(ctx context.Context, city string) ([]center.MedicalCenter, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]center.MedicalCenter), args.Error(1)
}

func (m *MockCenterRepository) Save(ctx context.Context, c *center.MedicalCenter) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCenterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBloodTypeRepository is a mock implementation of BloodTypeRepository
type MockBloodTypeRepository struct {
	mock.Mock
}

func (m *MockBloodTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*blood.BloodType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blood.BloodType), args.Error(1)
}

func (m *MockBloodTypeRepository) FindByName(ctx context.Context, name string) (*blood.BloodType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blood.BloodType), args.Error(1)
}

func (m *MockBloodTypeRepository) FindAll(ctx context.Context) ([]blood.BloodType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blood.BloodType), args.Error(1)
}

func (m *MockBloodTypeRepository) Save(ctx context.Context, bt *blood.BloodType) error {
	args := m.Called(ctx, bt)
	return args.Error(0)
}

type serviceMocks struct {
	donorRepo       *MockDonorRepository
	appointmentRepo *MockAppointmentRepository
	unitRepo        *MockUnitRepository
	centerRepo      *MockCenterRepository
	bloodTypeRepo   *MockBloodTypeRepository
}

func newTestService(t *testing.T) (*DonationService, *serviceMocks) {
	t.Helper()
	mocks := &serviceMocks{
		donorRepo:       new(MockDonorRepository),
		appointmentRepo: new(MockAppointmentRepository),
		unitRepo:        new(MockUnitRepository),
		centerRepo:      new(MockCenterRepository),
		bloodTypeRepo:   new(MockBloodTypeRepository),
	}
	txScope := NewNoOpTransactionScope(mocks.donorRepo, mocks.appointmentRepo, mocks.unitRepo)
	svc := NewDonationService(
		mocks.donorRepo,
		mocks.appointmentRepo,
		mocks.centerRepo,
		mocks.bloodTypeRepo,
		txScope,
		donor.DefaultEligibilityPolicy(),
		nil,
	)
	return svc, mocks
}

func eligibleDonor(t *testing.T) *donor.Donor {
	t.Helper()
	d, err := donor.NewDonor(donor.NewDonorParams{
		FullName:    "Ion Vasile",
		Email:       "ion@example.com",
		DateOfBirth: time.Now().AddDate(-30, 0, 0),
		Gender:      donor.GenderMale,
		WeightKg:    decimal.NewFromInt(80),
		BloodTypeID: uuid.New(),
	})
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func activeCenter(t *testing.T) *center.MedicalCenter {
	t.Helper()
	c, err := center.NewMedicalCenter("Central Blood Bank", "Str. Unirii 1", "Bucharest", "Bucharest", "", "contact@cbb.example.com")
	require.NoError(t, err)
	return c
}

func TestDonationService_RegisterDonor(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a donor with a known blood type", func(t *testing.T) {
		svc, mocks := newTestService(t)
		bt, err := blood.NewBloodType("B+")
		require.NoError(t, err)
		mocks.bloodTypeRepo.On("FindByName", ctx, "B+").Return(bt, nil)
		mocks.donorRepo.On("FindByEmail", ctx, "ana@example.com").Return(nil, shared.ErrNotFound)
		mocks.donorRepo.On("Save", ctx, mock.AnythingOfType("*donor.Donor")).Return(nil)

		resp, err := svc.RegisterDonor(ctx, RegisterDonorRequest{
			FullName:    "Ana Pop",
			Email:       "ana@example.com",
			DateOfBirth: time.Now().AddDate(-25, 0, 0),
			Gender:      "FEMALE",
			WeightKg:    decimal.NewFromInt(58),
			BloodType:   "b+",
		})

		require.NoError(t, err)
		assert.Equal(t, "B+", resp.BloodType)
		assert.True(t, resp.IsAvailable)
		mocks.donorRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, mocks := newTestService(t)
		bt, err := blood.NewBloodType("B+")
		require.NoError(t, err)
		existing := eligibleDonor(t)
		mocks.bloodTypeRepo.On("FindByName", ctx, "B+").Return(bt, nil)
		mocks.donorRepo.On("FindByEmail", ctx, "ion@example.com").Return(existing, nil)

		_, err = svc.RegisterDonor(ctx, RegisterDonorRequest{
			FullName:    "Ion Vasile",
			Email:       "ion@example.com",
			DateOfBirth: time.Now().AddDate(-30, 0, 0),
			Gender:      "MALE",
			WeightKg:    decimal.NewFromInt(80),
			BloodType:   "B+",
		})

		require.Error(t, err)
		mocks.donorRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDonationService_BookAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("books for an eligible donor", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		c := activeCenter(t)
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		mocks.centerRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		mocks.appointmentRepo.On("FindOpenByDonor", ctx, d.ID).Return([]appointment.DonationAppointment{}, nil)
		mocks.appointmentRepo.On("Save", ctx, mock.AnythingOfType("*appointment.DonationAppointment")).Return(nil)

		resp, err := svc.BookAppointment(ctx, BookAppointmentRequest{
			DonorID:         d.ID,
			MedicalCenterID: c.ID,
			ScheduledAt:     time.Now().Add(72 * time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, string(appointment.StatusPending), resp.Status)
	})

	t.Run("refuses an ineligible donor", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		last := time.Now().Add(-10 * 24 * time.Hour)
		d.LastDonationAt = &last
		c := activeCenter(t)
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		mocks.centerRepo.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := svc.BookAppointment(ctx, BookAppointmentRequest{
			DonorID:         d.ID,
			MedicalCenterID: c.ID,
			ScheduledAt:     time.Now().Add(72 * time.Hour),
		})

		require.Error(t, err)
		mocks.appointmentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses a second open appointment", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		c := activeCenter(t)
		open, err := appointment.NewAppointment(d.ID, c.ID, time.Now().Add(time.Hour), "", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		mocks.centerRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		mocks.appointmentRepo.On("FindOpenByDonor", ctx, d.ID).Return([]appointment.DonationAppointment{*open}, nil)

		_, err = svc.BookAppointment(ctx, BookAppointmentRequest{
			DonorID:         d.ID,
			MedicalCenterID: c.ID,
			ScheduledAt:     time.Now().Add(72 * time.Hour),
		})

		require.Error(t, err)
		mocks.appointmentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses an inactive center", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		c := activeCenter(t)
		c.Deactivate(time.Now())
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		mocks.centerRepo.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := svc.BookAppointment(ctx, BookAppointmentRequest{
			DonorID:         d.ID,
			MedicalCenterID: c.ID,
			ScheduledAt:     time.Now().Add(72 * time.Hour),
		})

		require.Error(t, err)
	})
}

func TestDonationService_CompleteAppointment(t *testing.T) {
	ctx := context.Background()

	confirmedAppointment := func(t *testing.T, donorID uuid.UUID) *appointment.DonationAppointment {
		t.Helper()
		booked := time.Now().Add(-time.Hour)
		a, err := appointment.NewAppointment(donorID, uuid.New(), time.Now().Add(time.Minute), "", booked)
		require.NoError(t, err)
		require.NoError(t, a.Confirm(booked))
		a.ClearDomainEvents()
		return a
	}

	t.Run("completes the visit, credits the donor and stores the unit", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		a := confirmedAppointment(t, d.ID)

		var savedUnit *inventory.BloodUnit
		mocks.appointmentRepo.On("FindByID", ctx, a.ID).Return(a, nil)
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		mocks.appointmentRepo.On("SaveWithLock", ctx, a).Return(nil)
		mocks.donorRepo.On("SaveWithLock", ctx, d).Return(nil)
		mocks.unitRepo.On("Save", ctx, mock.AnythingOfType("*inventory.BloodUnit")).
			Run(func(args mock.Arguments) {
				savedUnit = args.Get(1).(*inventory.BloodUnit)
			}).Return(nil)
		bt, err := blood.NewBloodType("A-")
		require.NoError(t, err)
		mocks.bloodTypeRepo.On("FindByID", ctx, d.BloodTypeID).Return(bt, nil)

		resp, err := svc.CompleteAppointment(ctx, a.ID, CompleteAppointmentRequest{
			Quantity: decimal.NewFromInt(450),
		})

		require.NoError(t, err)
		assert.Equal(t, string(appointment.StatusCompleted), resp.Appointment.Status)
		assert.Equal(t, 1, resp.Donor.TotalDonations)
		assert.True(t, resp.Donor.TotalBloodDonated.Equal(decimal.NewFromInt(450)))

		require.NotNil(t, savedUnit)
		assert.Equal(t, inventory.StatusTesting, savedUnit.Status)
		assert.Equal(t, d.BloodTypeID, savedUnit.BloodTypeID)
		require.NotNil(t, savedUnit.DonorID)
		assert.Equal(t, d.ID, *savedUnit.DonorID)
		assert.Equal(t, resp.BatchNumber, savedUnit.BatchNumber)
	})

	t.Run("fails on an unconfirmed appointment without writes", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		booked := time.Now().Add(-time.Hour)
		a, err := appointment.NewAppointment(d.ID, uuid.New(), time.Now().Add(time.Hour), "", booked)
		require.NoError(t, err)

		mocks.appointmentRepo.On("FindByID", ctx, a.ID).Return(a, nil)
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		_, err = svc.CompleteAppointment(ctx, a.ID, CompleteAppointmentRequest{
			Quantity: decimal.NewFromInt(450),
		})

		require.Error(t, err)
		mocks.unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Zero(t, d.TotalDonations)
	})
}

func TestDonationService_CheckEligibility(t *testing.T) {
	ctx := context.Background()

	t.Run("reports days until the interval passes", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		last := time.Now().Add(-80 * 24 * time.Hour)
		d.LastDonationAt = &last
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		resp, err := svc.CheckEligibility(ctx, d.ID)

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		assert.Equal(t, 4, resp.DaysUntilNextDonation)
	})

	t.Run("eligible donor has zero wait", func(t *testing.T) {
		svc, mocks := newTestService(t)
		d := eligibleDonor(t)
		mocks.donorRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		resp, err := svc.CheckEligibility(ctx, d.ID)

		require.NoError(t, err)
		assert.True(t, resp.Eligible)
		assert.Zero(t, resp.DaysUntilNextDonation)
	})
}
