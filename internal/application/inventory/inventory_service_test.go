package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher collects published domain events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockBloodUnitRepository is a mock implementation of BloodUnitRepository
type MockBloodUnitRepository struct {
	mock.Mock
}

func (m *MockBloodUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BloodUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*inventory.BloodUnit, error) {
	args := m.Called(ctx, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindByStatus(ctx context.Context, status inventory.BloodUnitStatus, filter shared.Filter) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindAvailableByTypes(ctx context.Context, typeNames []string, now time.Time) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, typeNames, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindExpiredCandidates(ctx context.Context, now time.Time) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindNearExpiry(ctx context.Context, now time.Time, window time.Duration) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindReservedFor(ctx context.Context, requestID uuid.UUID) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]inventory.BloodUnit, error) {
	args := m.Called(ctx, donorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BloodUnit), args.Error(1)
}

func (m *MockBloodUnitRepository) Save(ctx context.Context, unit *inventory.BloodUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockBloodUnitRepository) SaveWithLock(ctx context.Context, unit *inventory.BloodUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockBloodUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
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

func newService(unitRepo *MockBloodUnitRepository, typeRepo *MockBloodTypeRepository) *InventoryService {
	return NewInventoryService(unitRepo, typeRepo, DefaultPolicy(), nil)
}

func availableUnit(t *testing.T, typeName string, quantity int64, expiresIn time.Duration) inventory.BloodUnit {
	t.Helper()
	now := time.Now()
	expiry := now.Add(expiresIn)
	unit, err := inventory.NewBloodUnit(inventory.NewBloodUnitParams{
		Quantity:        decimal.NewFromInt(quantity),
		CollectedAt:     now.Add(-time.Hour),
		ExpiresAt:       &expiry,
		BloodTypeID:     uuid.New(),
		MedicalCenterID: uuid.New(),
	})
	require.NoError(t, err)
	require.NoError(t, unit.PassTesting(now))
	bt, err := blood.NewBloodType(typeName)
	require.NoError(t, err)
	unit.BloodType = bt
	unit.ClearDomainEvents()
	return *unit
}

func TestInventoryService_RegisterUnit(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a unit and publishes events", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		publisher := &MockEventPublisher{}

		bt, err := blood.NewBloodType("A+")
		require.NoError(t, err)
		typeRepo.On("FindByID", ctx, bt.ID).Return(bt, nil)
		unitRepo.On("Save", ctx, mock.AnythingOfType("*inventory.BloodUnit")).Return(nil)

		svc := newService(unitRepo, typeRepo)
		svc.SetEventPublisher(publisher)

		resp, err := svc.RegisterUnit(ctx, RegisterUnitRequest{
			BloodTypeID:     bt.ID,
			MedicalCenterID: uuid.New(),
			Quantity:        decimal.NewFromInt(450),
		})

		require.NoError(t, err)
		assert.Equal(t, inventory.StatusTesting.String(), resp.Status)
		assert.NotEmpty(t, resp.BatchNumber)
		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeUnitRegistered), 1)
		unitRepo.AssertExpectations(t)
	})

	t.Run("fails when the blood type does not exist", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unknownID := uuid.New()
		typeRepo.On("FindByID", ctx, unknownID).Return(nil, shared.ErrNotFound)

		svc := newService(unitRepo, typeRepo)
		_, err := svc.RegisterUnit(ctx, RegisterUnitRequest{
			BloodTypeID:     unknownID,
			MedicalCenterID: uuid.New(),
			Quantity:        decimal.NewFromInt(450),
		})

		require.Error(t, err)
		unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid quantity before hitting the repository", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		bt, err := blood.NewBloodType("O-")
		require.NoError(t, err)
		typeRepo.On("FindByID", ctx, bt.ID).Return(bt, nil)

		svc := newService(unitRepo, typeRepo)
		_, err = svc.RegisterUnit(ctx, RegisterUnitRequest{
			BloodTypeID:     bt.ID,
			MedicalCenterID: uuid.New(),
			Quantity:        decimal.Zero,
		})

		require.Error(t, err)
		unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves an available unit with optimistic locking", func(t *testing.T) {
		unit := availableUnit(t, "A+", 450, 30*24*time.Hour)
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unitRepo.On("FindByID", ctx, unit.ID).Return(&unit, nil)
		unitRepo.On("SaveWithLock", ctx, &unit).Return(nil)

		svc := newService(unitRepo, typeRepo)
		requestID := uuid.New()
		resp, err := svc.Reserve(ctx, unit.ID, requestID)

		require.NoError(t, err)
		assert.Equal(t, inventory.StatusReserved.String(), resp.Status)
		assert.Equal(t, requestID, *resp.ReservedFor)
		unitRepo.AssertExpectations(t)
	})

	t.Run("propagates concurrency conflicts", func(t *testing.T) {
		unit := availableUnit(t, "A+", 450, 30*24*time.Hour)
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unitRepo.On("FindByID", ctx, unit.ID).Return(&unit, nil)
		unitRepo.On("SaveWithLock", ctx, &unit).Return(shared.ErrConcurrencyConflict)

		svc := newService(unitRepo, typeRepo)
		_, err := svc.Reserve(ctx, unit.ID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("does not persist when the transition fails", func(t *testing.T) {
		unit := availableUnit(t, "A+", 450, 30*24*time.Hour)
		require.NoError(t, unit.Reserve(uuid.New(), time.Now()))

		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unitRepo.On("FindByID", ctx, unit.ID).Return(&unit, nil)

		svc := newService(unitRepo, typeRepo)
		_, err := svc.Reserve(ctx, unit.ID, uuid.New())

		require.Error(t, err)
		unitRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_FindCompatibleBlood(t *testing.T) {
	ctx := context.Background()

	t.Run("queries the full compatible donor set", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)

		soon := availableUnit(t, "O-", 450, 2*24*time.Hour)
		later := availableUnit(t, "A+", 450, 20*24*time.Hour)
		unitRepo.On("FindAvailableByTypes", ctx, []string{"O-", "O+", "A-", "A+"}, mock.AnythingOfType("time.Time")).
			Return([]inventory.BloodUnit{later, soon}, nil)

		svc := newService(unitRepo, typeRepo)
		resp, err := svc.FindCompatibleBlood(ctx, FindCompatibleRequest{
			BloodType: "a+",
			Quantity:  decimal.NewFromInt(600),
		})

		require.NoError(t, err)
		assert.Equal(t, "A+", resp.RequestedType)
		require.Len(t, resp.Units, 2)
		assert.Equal(t, soon.ID, resp.Units[0].ID)
		assert.True(t, resp.FullyFulfilled)
	})

	t.Run("reports shortfall without error", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unitRepo.On("FindAvailableByTypes", ctx, []string{"O-"}, mock.AnythingOfType("time.Time")).
			Return([]inventory.BloodUnit{}, nil)

		svc := newService(unitRepo, typeRepo)
		resp, err := svc.FindCompatibleBlood(ctx, FindCompatibleRequest{
			BloodType: "O-",
			Quantity:  decimal.NewFromInt(450),
		})

		require.NoError(t, err)
		assert.False(t, resp.FullyFulfilled)
		assert.True(t, resp.Shortfall.Equal(decimal.NewFromInt(450)))
	})

	t.Run("falls back to same-type matching for unknown types", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unitRepo.On("FindAvailableByTypes", ctx, []string{"C+"}, mock.AnythingOfType("time.Time")).
			Return([]inventory.BloodUnit{}, nil)

		svc := newService(unitRepo, typeRepo)
		resp, err := svc.FindCompatibleBlood(ctx, FindCompatibleRequest{
			BloodType: "C+",
			Quantity:  decimal.NewFromInt(450),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"C+"}, resp.CompatibleTypes)
		assert.Empty(t, resp.Units)
		assert.False(t, resp.FullyFulfilled)
	})
}

func TestInventoryService_SweepExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("expires every overdue unit and keeps going on conflicts", func(t *testing.T) {
		first := availableUnit(t, "A+", 450, -time.Hour)
		second := availableUnit(t, "B+", 450, -2*time.Hour)

		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		publisher := &MockEventPublisher{}
		unitRepo.On("FindExpiredCandidates", ctx, mock.AnythingOfType("time.Time")).
			Return([]inventory.BloodUnit{first, second}, nil)
		unitRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*inventory.BloodUnit")).
			Return(shared.ErrConcurrencyConflict).Once()
		unitRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*inventory.BloodUnit")).
			Return(nil).Once()

		svc := newService(unitRepo, typeRepo)
		svc.SetEventPublisher(publisher)
		result, err := svc.SweepExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Scanned)
		assert.Equal(t, 1, result.Expired)
		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeUnitExpired), 1)
	})

	t.Run("second sweep finds nothing to do", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		unitRepo.On("FindExpiredCandidates", ctx, mock.AnythingOfType("time.Time")).
			Return([]inventory.BloodUnit{}, nil)

		svc := newService(unitRepo, typeRepo)
		result, err := svc.SweepExpired(ctx)

		require.NoError(t, err)
		assert.Zero(t, result.Expired)
		unitRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_GetStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the report from stock", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		units := []inventory.BloodUnit{
			availableUnit(t, "A+", 450, 30*24*time.Hour),
			availableUnit(t, "A+", 350, 3*24*time.Hour),
		}
		unitRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(units, nil)

		svc := newService(unitRepo, typeRepo)
		stats, err := svc.GetStatistics(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalUnits)
		assert.Equal(t, 1, stats.NearExpiryCount)
		require.Len(t, stats.ByBloodType, 1)
		assert.Equal(t, inventory.StockLevelLow, stats.ByBloodType[0].StockLevel)
	})

	t.Run("low stock filters the breakdown", func(t *testing.T) {
		unitRepo := new(MockBloodUnitRepository)
		typeRepo := new(MockBloodTypeRepository)
		var units []inventory.BloodUnit
		for i := 0; i < 20; i++ {
			units = append(units, availableUnit(t, "O+", 450, 30*24*time.Hour))
		}
		units = append(units, availableUnit(t, "AB-", 450, 30*24*time.Hour))
		unitRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(units, nil)

		svc := newService(unitRepo, typeRepo)
		low, err := svc.GetLowStock(ctx)

		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, "AB-", low[0].BloodType)
	})
}
