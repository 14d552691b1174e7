package request

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/domain/request"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService handles the blood request lifecycle, including the
// allocation of stock on approval
type RequestService struct {
	requestRepo    request.BloodRequestRepository
	unitRepo       inventory.BloodUnitRepository
	bloodTypeRepo  blood.BloodTypeRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo request.BloodRequestRepository,
	unitRepo inventory.BloodUnitRepository,
	bloodTypeRepo blood.BloodTypeRepository,
	logger *zap.Logger,
) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		requestRepo:   requestRepo,
		unitRepo:      unitRepo,
		bloodTypeRepo: bloodTypeRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source, used in tests
func (s *RequestService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RequestService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// CreateRequest files a pending blood request
func (s *RequestService) CreateRequest(ctx context.Context, req CreateRequestRequest) (*BloodRequestResponse, error) {
	typeName := blood.Normalize(req.BloodType)
	bloodType, err := s.bloodTypeRepo.FindByName(ctx, typeName)
	if err != nil {
		return nil, err
	}

	r, err := request.NewBloodRequest(request.NewRequestParams{
		MedicalCenterID: req.MedicalCenterID,
		BloodTypeID:     bloodType.ID,
		BloodTypeName:   bloodType.Name,
		Quantity:        req.Quantity,
		Urgency:         request.Urgency(req.Urgency),
		PatientName:     req.PatientName,
		Diagnosis:       req.Diagnosis,
		NeededBy:        req.NeededBy,
	})
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()

	response := ToBloodRequestResponse(r)
	return &response, nil
}

// GetByID retrieves a request by ID
func (s *RequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*BloodRequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	response := ToBloodRequestResponse(r)
	return &response, nil
}

// List retrieves requests with filtering and pagination
func (s *RequestService) List(ctx context.Context, filter shared.Filter) ([]BloodRequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	requests, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToBloodRequestResponses(requests), total, nil
}

// ApproveRequest allocates stock to a pending request and reserves it. The
// request is approved only when compatible stock covers the full quantity;
// otherwise nothing is reserved and the shortfall is reported as an error.
func (s *RequestService) ApproveRequest(ctx context.Context, requestID uuid.UUID) (*ApprovalResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Status != request.StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Only pending requests can be approved")
	}

	now := s.now()
	compatibleTypes := blood.CompatibleDonors(r.BloodTypeName)
	candidates, err := s.unitRepo.FindAvailableByTypes(ctx, compatibleTypes, now)
	if err != nil {
		return nil, err
	}

	allocation, err := inventory.SelectUnits(r.Quantity, candidates, now)
	if err != nil {
		return nil, err
	}
	if !allocation.FullyFulfilled {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Compatible stock covers only "+allocation.TotalSelected.String()+" of "+r.Quantity.String())
	}

	// Reserve unit by unit; a conflict on any of them releases the rest.
	reserved := make([]*inventory.BloodUnit, 0, len(allocation.Units))
	for i := range allocation.Units {
		unit := &allocation.Units[i]
		if err := unit.Reserve(r.ID, now); err != nil {
			s.releaseUnits(ctx, reserved, now)
			return nil, err
		}
		if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
			s.releaseUnits(ctx, reserved, now)
			return nil, err
		}
		reserved = append(reserved, unit)
	}

	if err := r.Approve(now); err != nil {
		s.releaseUnits(ctx, reserved, now)
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, r); err != nil {
		s.releaseUnits(ctx, reserved, now)
		return nil, err
	}

	for _, unit := range reserved {
		s.publishEvents(ctx, unit.GetDomainEvents())
		unit.ClearDomainEvents()
	}
	s.publishEvents(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()

	unitIDs := make([]uuid.UUID, len(reserved))
	for i, unit := range reserved {
		unitIDs[i] = unit.ID
	}

	s.logger.Info("blood request approved",
		zap.String("request_id", r.ID.String()),
		zap.Int("units_reserved", len(unitIDs)))

	return &ApprovalResponse{
		Request:       ToBloodRequestResponse(r),
		ReservedUnits: unitIDs,
		TotalReserved: allocation.TotalSelected,
		Shortfall:     allocation.Shortfall,
	}, nil
}

func (s *RequestService) releaseUnits(ctx context.Context, units []*inventory.BloodUnit, now time.Time) {
	for _, unit := range units {
		if err := unit.CancelReservation(now); err != nil {
			continue
		}
		if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
			s.logger.Error("failed to release reserved unit",
				zap.String("unit_id", unit.ID.String()),
				zap.Error(err))
		}
	}
}

// RejectRequest declines a pending request
func (s *RequestService) RejectRequest(ctx context.Context, requestID uuid.UUID, reason string) (*BloodRequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := r.Reject(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()

	response := ToBloodRequestResponse(r)
	return &response, nil
}

// FulfillRequest closes an approved request, marking its reserved units as
// transfused
func (s *RequestService) FulfillRequest(ctx context.Context, requestID uuid.UUID) (*BloodRequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := r.Fulfill(now); err != nil {
		return nil, err
	}

	units, err := s.unitRepo.FindReservedFor(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	for i := range units {
		unit := &units[i]
		if err := unit.MarkAsUsed(now); err != nil {
			return nil, err
		}
		if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, unit.GetDomainEvents())
		unit.ClearDomainEvents()
	}

	if err := s.requestRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()

	s.logger.Info("blood request fulfilled",
		zap.String("request_id", r.ID.String()),
		zap.Int("units_used", len(units)))

	response := ToBloodRequestResponse(r)
	return &response, nil
}

// CancelRequest withdraws a pending or approved request, returning any
// reserved units to stock
func (s *RequestService) CancelRequest(ctx context.Context, requestID uuid.UUID) (*BloodRequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	wasApproved := r.Status == request.StatusApproved
	if err := r.Cancel(now); err != nil {
		return nil, err
	}

	if wasApproved {
		units, err := s.unitRepo.FindReservedFor(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		for i := range units {
			unit := &units[i]
			if err := unit.CancelReservation(now); err != nil {
				return nil, err
			}
			if err := s.unitRepo.SaveWithLock(ctx, unit); err != nil {
				return nil, err
			}
			s.publishEvents(ctx, unit.GetDomainEvents())
			unit.ClearDomainEvents()
		}
	}

	if err := s.requestRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()

	response := ToBloodRequestResponse(r)
	return &response, nil
}
