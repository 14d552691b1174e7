package center

import (
	"context"
	"errors"
	"time"

	"github.com/bloodbank/backend/internal/domain/center"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CenterService handles medical center administration
type CenterService struct {
	centerRepo center.MedicalCenterRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewCenterService creates a new CenterService
func NewCenterService(centerRepo center.MedicalCenterRepository, logger *zap.Logger) *CenterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CenterService{
		centerRepo: centerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock overrides the time source, used in tests
func (s *CenterService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateCenter registers a new medical center
func (s *CenterService) CreateCenter(ctx context.Context, req CreateCenterRequest) (*CenterResponse, error) {
	existing, err := s.centerRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A center with this name is already registered")
	}

	c, err := center.NewMedicalCenter(req.Name, req.Address, req.City, req.County, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.centerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("medical center registered",
		zap.String("center_id", c.ID.String()),
		zap.String("name", c.Name))

	response := ToCenterResponse(c)
	return &response, nil
}

// GetByID retrieves a center by ID
func (s *CenterService) GetByID(ctx context.Context, centerID uuid.UUID) (*CenterResponse, error) {
	c, err := s.centerRepo.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	response := ToCenterResponse(c)
	return &response, nil
}

// List retrieves centers with filtering and pagination
func (s *CenterService) List(ctx context.Context, filter shared.Filter) ([]CenterResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	centers, err := s.centerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.centerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToCenterResponses(centers), total, nil
}

// ListActiveByCity lists the active centers in a city
func (s *CenterService) ListActiveByCity(ctx context.Context, city string) ([]CenterResponse, error) {
	centers, err := s.centerRepo.FindActiveByCity(ctx, city)
	if err != nil {
		return nil, err
	}
	return ToCenterResponses(centers), nil
}

// UpdateCenter updates a center's contact details
func (s *CenterService) UpdateCenter(ctx context.Context, centerID uuid.UUID, req UpdateCenterRequest) (*CenterResponse, error) {
	c, err := s.centerRepo.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateDetails(req.Address, req.City, req.County, req.Phone, req.Email, s.now()); err != nil {
		return nil, err
	}
	if err := s.centerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCenterResponse(c)
	return &response, nil
}

// SetActive activates or deactivates a center
func (s *CenterService) SetActive(ctx context.Context, centerID uuid.UUID, active bool) (*CenterResponse, error) {
	c, err := s.centerRepo.FindByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if active {
		c.Activate(s.now())
	} else {
		c.Deactivate(s.now())
	}
	if err := s.centerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCenterResponse(c)
	return &response, nil
}
