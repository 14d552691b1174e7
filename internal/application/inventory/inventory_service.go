package inventory

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatisticsCache caches the computed stock report between mutations
type StatisticsCache interface {
	// Get returns the cached report, or nil on a miss
	Get(ctx context.Context) (*inventory.InventoryStatistics, error)
	// Set stores the report with a TTL
	Set(ctx context.Context, stats *inventory.InventoryStatistics, ttl time.Duration) error
	// Invalidate drops the cached report
	Invalidate(ctx context.Context) error
}

// Policy holds the configurable inventory rules
type Policy struct {
	StockThresholds  inventory.StockThresholds
	NearExpiryWindow time.Duration
	StatisticsTTL    time.Duration
}

// DefaultPolicy returns the standard inventory policy
func DefaultPolicy() Policy {
	return Policy{
		StockThresholds:  inventory.DefaultStockThresholds(),
		NearExpiryWindow: inventory.DefaultNearExpiryWindow,
		StatisticsTTL:    time.Minute,
	}
}

// InventoryService handles blood unit lifecycle and stock operations
type InventoryService struct {
	unitRepo       inventory.BloodUnitRepository
	bloodTypeRepo  blood.BloodTypeRepository
	statsCache     StatisticsCache
	eventPublisher shared.EventPublisher
	policy         Policy
	logger         *zap.Logger
	now            func() time.Time
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	unitRepo inventory.BloodUnitRepository,
	bloodTypeRepo blood.BloodTypeRepository,
	policy Policy,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		unitRepo:      unitRepo,
		bloodTypeRepo: bloodTypeRepo,
		policy:        policy,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetStatisticsCache sets the statistics cache (optional)
func (s *InventoryService) SetStatisticsCache(cache StatisticsCache) {
	s.statsCache = cache
}

// SetClock overrides the time source, used in tests
func (s *InventoryService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *InventoryService) publishDomainEvents(ctx context.Context, unit *inventory.BloodUnit) {
	if s.eventPublisher == nil {
		return
	}
	events := unit.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	unit.ClearDomainEvents()
}

func (s *InventoryService) invalidateStats(ctx context.Context) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate statistics cache", zap.Error(err))
	}
}

// RegisterUnit records a collected unit, starting in testing status
func (s *InventoryService) RegisterUnit(ctx context.Context, req RegisterUnitRequest) (*BloodUnitResponse, error) {
	if _, err := s.bloodTypeRepo.FindByID(ctx, req.BloodTypeID); err != nil {
		return nil, err
	}

	now := s.now()
	collectedAt := now
	if req.CollectedAt != nil {
		collectedAt = *req.CollectedAt
	}

	unit, err := inventory.NewBloodUnit(inventory.NewBloodUnitParams{
		Quantity:        req.Quantity,
		CollectedAt:     collectedAt,
		ExpiresAt:       req.ExpiresAt,
		BatchNumber:     req.BatchNumber,
		StorageTemp:     req.StorageTemp,
		BloodTypeID:     req.BloodTypeID,
		MedicalCenterID: req.MedicalCenterID,
		DonorID:         req.DonorID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, unit)
	s.invalidateStats(ctx)

	s.logger.Info("blood unit registered",
		zap.String("unit_id", unit.ID.String()),
		zap.String("batch_number", unit.BatchNumber))

	response := ToBloodUnitResponse(unit, now)
	return &response, nil
}

// GetByID retrieves a blood unit by ID
func (s *InventoryService) GetByID(ctx context.Context, unitID uuid.UUID) (*BloodUnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	response := ToBloodUnitResponse(unit, s.now())
	return &response, nil
}

// GetByBatchNumber retrieves a blood unit by batch number
func (s *InventoryService) GetByBatchNumber(ctx context.Context, batchNumber string) (*BloodUnitResponse, error) {
	unit, err := s.unitRepo.FindByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}
	response := ToBloodUnitResponse(unit, s.now())
	return &response, nil
}

// List retrieves units with filtering and pagination
func (s *InventoryService) List(ctx context.Context, filter shared.Filter) ([]BloodUnitResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	units, err := s.unitRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.unitRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToBloodUnitResponses(units, s.now()), total, nil
}

// CompleteTesting records the quality check outcome for a unit
func (s *InventoryService) CompleteTesting(ctx context.Context, unitID uuid.UUID, passed bool) (*BloodUnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if passed {
		err = unit.PassTesting(now)
	} else {
		err = unit.RejectTesting(now)
	}
	if err != nil {
		return nil, err
	}

	if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, unit)
	s.invalidateStats(ctx)

	response := ToBloodUnitResponse(unit, now)
	return &response, nil
}

// Reserve allocates a unit to a blood request
func (s *InventoryService) Reserve(ctx context.Context, unitID, requestID uuid.UUID) (*BloodUnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := unit.Reserve(requestID, now); err != nil {
		return nil, err
	}
	if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, unit)
	s.invalidateStats(ctx)

	response := ToBloodUnitResponse(unit, now)
	return &response, nil
}

// CancelReservation returns a reserved unit to stock
func (s *InventoryService) CancelReservation(ctx context.Context, unitID uuid.UUID) (*BloodUnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := unit.CancelReservation(now); err != nil {
		return nil, err
	}
	if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, unit)
	s.invalidateStats(ctx)

	response := ToBloodUnitResponse(unit, now)
	return &response, nil
}

// MarkAsUsed records the transfusion of a reserved unit
func (s *InventoryService) MarkAsUsed(ctx context.Context, unitID uuid.UUID) (*BloodUnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := unit.MarkAsUsed(now); err != nil {
		return nil, err
	}
	if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, unit)
	s.invalidateStats(ctx)

	response := ToBloodUnitResponse(unit, now)
	return &response, nil
}

// FindCompatibleBlood searches stock for units a recipient of the given type
// can receive and greedily selects enough to cover the quantity, soonest
// expiry first. Selected units are only reported, not reserved.
func (s *InventoryService) FindCompatibleBlood(ctx context.Context, req FindCompatibleRequest) (*CompatibleBloodResponse, error) {
	// Unknown type strings degrade to same-type-only matching via the
	// singleton fallback in CompatibleDonors; the search then simply comes
	// back empty.
	recipientType := blood.Normalize(req.BloodType)
	compatibleTypes := blood.CompatibleDonors(recipientType)
	now := s.now()

	candidates, err := s.unitRepo.FindAvailableByTypes(ctx, compatibleTypes, now)
	if err != nil {
		return nil, err
	}

	result, err := inventory.SelectUnits(req.Quantity, candidates, now)
	if err != nil {
		return nil, err
	}

	return &CompatibleBloodResponse{
		RequestedType:   recipientType,
		CompatibleTypes: compatibleTypes,
		Units:           ToBloodUnitResponses(result.Units, now),
		Requested:       result.Requested,
		TotalSelected:   result.TotalSelected,
		Shortfall:       result.Shortfall,
		FullyFulfilled:  result.FullyFulfilled,
	}, nil
}

// GetStatistics returns the stock report, served from cache when fresh
func (s *InventoryService) GetStatistics(ctx context.Context) (*inventory.InventoryStatistics, error) {
	if s.statsCache != nil {
		cached, err := s.statsCache.Get(ctx)
		if err != nil {
			s.logger.Warn("statistics cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	units, err := s.unitRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: -1})
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := inventory.ComputeStatistics(units, now, s.policy.StockThresholds)

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, &stats, s.policy.StatisticsTTL); err != nil {
			s.logger.Warn("statistics cache write failed", zap.Error(err))
		}
	}
	return &stats, nil
}

// GetExpiringSoon lists non-expired units inside the near-expiry window
func (s *InventoryService) GetExpiringSoon(ctx context.Context) ([]BloodUnitResponse, error) {
	now := s.now()
	units, err := s.unitRepo.FindNearExpiry(ctx, now, s.policy.NearExpiryWindow)
	if err != nil {
		return nil, err
	}
	return ToBloodUnitResponses(units, now), nil
}

// GetLowStock lists the blood types whose available stock is below the
// low threshold
func (s *InventoryService) GetLowStock(ctx context.Context) ([]inventory.BloodTypeStatistics, error) {
	stats, err := s.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]inventory.BloodTypeStatistics, 0)
	for _, ts := range stats.ByBloodType {
		if ts.StockLevel == inventory.StockLevelLow {
			low = append(low, ts)
		}
	}
	return low, nil
}

// SweepExpired transitions every unit past its expiry. The sweep is
// idempotent: already retired units are skipped, and a concurrency conflict
// on one unit does not stop the rest.
func (s *InventoryService) SweepExpired(ctx context.Context) (*SweepResult, error) {
	now := s.now()
	candidates, err := s.unitRepo.FindExpiredCandidates(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(candidates)}
	for i := range candidates {
		unit := &candidates[i]
		if !unit.MarkExpired(now) {
			continue
		}
		if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
			s.logger.Warn("failed to expire unit",
				zap.String("unit_id", unit.ID.String()),
				zap.Error(err))
			continue
		}
		s.publishDomainEvents(ctx, unit)
		result.Expired++
	}

	if result.Expired > 0 {
		s.invalidateStats(ctx)
		s.logger.Info("expiry sweep completed",
			zap.Int("scanned", result.Scanned),
			zap.Int("expired", result.Expired))
	}
	return result, nil
}
