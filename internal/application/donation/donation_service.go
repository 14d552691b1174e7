package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloodbank/backend/internal/domain/appointment"
	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/center"
	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier delivers out-of-band messages to donors and staff
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// DonationService handles donor registration, eligibility and the
// appointment lifecycle
type DonationService struct {
	donorRepo       donor.DonorRepository
	appointmentRepo appointment.AppointmentRepository
	centerRepo      center.MedicalCenterRepository
	bloodTypeRepo   blood.BloodTypeRepository
	txScope         TransactionScope
	policy          donor.EligibilityPolicy
	eventPublisher  shared.EventPublisher
	notifier        Notifier
	logger          *zap.Logger
	now             func() time.Time
}

// NewDonationService creates a new DonationService
func NewDonationService(
	donorRepo donor.DonorRepository,
	appointmentRepo appointment.AppointmentRepository,
	centerRepo center.MedicalCenterRepository,
	bloodTypeRepo blood.BloodTypeRepository,
	txScope TransactionScope,
	policy donor.EligibilityPolicy,
	logger *zap.Logger,
) *DonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationService{
		donorRepo:       donorRepo,
		appointmentRepo: appointmentRepo,
		centerRepo:      centerRepo,
		bloodTypeRepo:   bloodTypeRepo,
		txScope:         txScope,
		policy:          policy,
		logger:          logger,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DonationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier sets the notifier (optional)
func (s *DonationService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// SetClock overrides the time source, used in tests
func (s *DonationService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *DonationService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *DonationService) notify(ctx context.Context, recipient, subject, body string) {
	if s.notifier == nil || recipient == "" {
		return
	}
	if err := s.notifier.Notify(ctx, recipient, subject, body); err != nil {
		s.logger.Warn("notification failed",
			zap.String("recipient", recipient),
			zap.Error(err))
	}
}

// RegisterDonor registers a new donor
func (s *DonationService) RegisterDonor(ctx context.Context, req RegisterDonorRequest) (*DonorResponse, error) {
	bloodType, err := s.bloodTypeRepo.FindByName(ctx, blood.Normalize(req.BloodType))
	if err != nil {
		return nil, err
	}

	existing, err := s.donorRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A donor with this email is already registered")
	}

	d, err := donor.NewDonor(donor.NewDonorParams{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      donor.Gender(req.Gender),
		WeightKg:    req.WeightKg,
		Address:     req.Address,
		City:        req.City,
		BloodTypeID: bloodType.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.donorRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, d.GetDomainEvents())
	d.ClearDomainEvents()

	s.logger.Info("donor registered",
		zap.String("donor_id", d.ID.String()),
		zap.String("blood_type", bloodType.Name))

	response := ToDonorResponse(d, bloodType.Name)
	return &response, nil
}

// GetDonor retrieves a donor by ID
func (s *DonationService) GetDonor(ctx context.Context, donorID uuid.UUID) (*DonorResponse, error) {
	d, err := s.donorRepo.FindByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	bloodTypeName := ""
	if bt, err := s.bloodTypeRepo.FindByID(ctx, d.BloodTypeID); err == nil {
		bloodTypeName = bt.Name
	}
	response := ToDonorResponse(d, bloodTypeName)
	return &response, nil
}

// ListDonors retrieves donors with filtering and pagination
func (s *DonationService) ListDonors(ctx context.Context, filter shared.Filter) ([]DonorResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	donors, err := s.donorRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.donorRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	typeNames := s.bloodTypeNames(ctx)
	responses := make([]DonorResponse, len(donors))
	for i := range donors {
		responses[i] = ToDonorResponse(&donors[i], typeNames[donors[i].BloodTypeID])
	}
	return responses, total, nil
}

// FindAvailableDonors lists opted-in donors with the given blood type
func (s *DonationService) FindAvailableDonors(ctx context.Context, bloodType string, filter shared.Filter) ([]DonorResponse, error) {
	bt, err := s.bloodTypeRepo.FindByName(ctx, blood.Normalize(bloodType))
	if err != nil {
		return nil, err
	}
	donors, err := s.donorRepo.FindAvailableByBloodType(ctx, bt.ID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]DonorResponse, len(donors))
	for i := range donors {
		responses[i] = ToDonorResponse(&donors[i], bt.Name)
	}
	return responses, nil
}

func (s *DonationService) bloodTypeNames(ctx context.Context) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	types, err := s.bloodTypeRepo.FindAll(ctx)
	if err != nil {
		return names
	}
	for _, bt := range types {
		names[bt.ID] = bt.Name
	}
	return names
}

// CheckEligibility evaluates the donation rules for a donor
func (s *DonationService) CheckEligibility(ctx context.Context, donorID uuid.UUID) (*EligibilityResponse, error) {
	d, err := s.donorRepo.FindByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	result := s.policy.Check(d, now)
	return &EligibilityResponse{
		Eligible:              result.Eligible,
		Reasons:               result.Reasons,
		DaysUntilNextDonation: s.policy.DaysUntilNextDonation(d, now),
	}, nil
}

// SetDonorAvailability flips the donor's opt-in flag
func (s *DonationService) SetDonorAvailability(ctx context.Context, donorID uuid.UUID, available bool) error {
	d, err := s.donorRepo.FindByID(ctx, donorID)
	if err != nil {
		return err
	}
	d.SetAvailability(available, s.now())
	return s.donorRepo.SaveWithLock(ctx, d)
}

// BookAppointment books a donation slot for an eligible donor. A donor can
// hold at most one open (pending or confirmed) appointment at a time.
func (s *DonationService) BookAppointment(ctx context.Context, req BookAppointmentRequest) (*AppointmentResponse, error) {
	d, err := s.donorRepo.FindByID(ctx, req.DonorID)
	if err != nil {
		return nil, err
	}

	c, err := s.centerRepo.FindByID(ctx, req.MedicalCenterID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Medical center is not accepting appointments")
	}

	now := s.now()
	result := s.policy.Check(d, now)
	if !result.Eligible {
		return nil, shared.NewDomainError("DONOR_NOT_ELIGIBLE", fmt.Sprintf("Donor is not eligible: %v", result.Reasons))
	}

	open, err := s.appointmentRepo.FindOpenByDonor(ctx, req.DonorID)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Donor already has an open appointment")
	}

	a, err := appointment.NewAppointment(req.DonorID, req.MedicalCenterID, req.ScheduledAt, req.Notes, now)
	if err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a.GetDomainEvents())
	a.ClearDomainEvents()

	s.notify(ctx, d.Email, "Donation appointment booked",
		fmt.Sprintf("Your appointment at %s on %s is awaiting confirmation.", c.Name, req.ScheduledAt.Format(time.RFC1123)))

	response := ToAppointmentResponse(a)
	return &response, nil
}

// ConfirmAppointment accepts a pending appointment
func (s *DonationService) ConfirmAppointment(ctx context.Context, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, appointmentID, func(a *appointment.DonationAppointment, now time.Time) error {
		return a.Confirm(now)
	})
}

// RejectAppointment declines a pending appointment
func (s *DonationService) RejectAppointment(ctx context.Context, appointmentID uuid.UUID, reason string) (*AppointmentResponse, error) {
	return s.transition(ctx, appointmentID, func(a *appointment.DonationAppointment, now time.Time) error {
		return a.Reject(reason, now)
	})
}

// CancelAppointment withdraws a pending or confirmed appointment
func (s *DonationService) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, appointmentID, func(a *appointment.DonationAppointment, now time.Time) error {
		return a.Cancel(now)
	})
}

// MarkNoShow closes a confirmed appointment the donor missed
func (s *DonationService) MarkNoShow(ctx context.Context, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, appointmentID, func(a *appointment.DonationAppointment, now time.Time) error {
		return a.MarkNoShow(now)
	})
}

func (s *DonationService) transition(
	ctx context.Context,
	appointmentID uuid.UUID,
	fn func(a *appointment.DonationAppointment, now time.Time) error,
) (*AppointmentResponse, error) {
	a, err := s.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := fn(a, s.now()); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.SaveWithLock(ctx, a); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, a.GetDomainEvents())
	a.ClearDomainEvents()

	response := ToAppointmentResponse(a)
	return &response, nil
}

// ListAppointmentsByDonor lists a donor's appointments
func (s *DonationService) ListAppointmentsByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.FindByDonor(ctx, donorID, filter)
	if err != nil {
		return nil, err
	}
	return ToAppointmentResponses(appointments), nil
}

// ListAppointmentsByCenter lists a center's appointments
func (s *DonationService) ListAppointmentsByCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.FindByCenter(ctx, centerID, filter)
	if err != nil {
		return nil, err
	}
	return ToAppointmentResponses(appointments), nil
}

// CompleteAppointment closes a confirmed visit: the appointment is completed,
// the donation is credited to the donor's history and the collected unit
// enters the inventory under testing. All three writes share one transaction.
func (s *DonationService) CompleteAppointment(ctx context.Context, appointmentID uuid.UUID, req CompleteAppointmentRequest) (*CompletedDonationResponse, error) {
	var (
		completedAppointment *appointment.DonationAppointment
		completedDonor       *donor.Donor
		newUnit              *inventory.BloodUnit
	)

	now := s.now()
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		a, err := repos.AppointmentRepo().FindByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		d, err := repos.DonorRepo().FindByID(ctx, a.DonorID)
		if err != nil {
			return err
		}

		if err := a.Complete(now); err != nil {
			return err
		}
		if err := d.RecordDonation(req.Quantity, now); err != nil {
			return err
		}

		unit, err := inventory.NewBloodUnit(inventory.NewBloodUnitParams{
			Quantity:        req.Quantity,
			CollectedAt:     now,
			BloodTypeID:     d.BloodTypeID,
			MedicalCenterID: a.MedicalCenterID,
			DonorID:         &a.DonorID,
		})
		if err != nil {
			return err
		}

		if err := repos.AppointmentRepo().SaveWithLock(ctx, a); err != nil {
			return err
		}
		if err := repos.DonorRepo().SaveWithLock(ctx, d); err != nil {
			return err
		}
		if err := repos.UnitRepo().Save(ctx, unit); err != nil {
			return err
		}

		completedAppointment = a
		completedDonor = d
		newUnit = unit
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, completedAppointment.GetDomainEvents())
	s.publishEvents(ctx, completedDonor.GetDomainEvents())
	s.publishEvents(ctx, newUnit.GetDomainEvents())
	completedAppointment.ClearDomainEvents()
	completedDonor.ClearDomainEvents()
	newUnit.ClearDomainEvents()

	s.logger.Info("donation completed",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("batch_number", newUnit.BatchNumber))

	s.notify(ctx, completedDonor.Email, "Thank you for donating",
		fmt.Sprintf("Your donation of %s ml was collected under batch %s.", req.Quantity.String(), newUnit.BatchNumber))

	bloodTypeName := ""
	if bt, err := s.bloodTypeRepo.FindByID(ctx, completedDonor.BloodTypeID); err == nil {
		bloodTypeName = bt.Name
	}

	return &CompletedDonationResponse{
		Appointment: ToAppointmentResponse(completedAppointment),
		Donor:       ToDonorResponse(completedDonor, bloodTypeName),
		BloodUnitID: newUnit.ID,
		BatchNumber: newUnit.BatchNumber,
	}, nil
}
