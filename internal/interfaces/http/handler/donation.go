package handler

import (
	appdonation "github.com/bloodbank/backend/internal/application/donation"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DonationHandler handles donor and appointment endpoints
type DonationHandler struct {
	BaseHandler
	donationService *appdonation.DonationService
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(donationService *appdonation.DonationService, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{
		BaseHandler:     NewBaseHandler(logger),
		donationService: donationService,
	}
}

// RegisterDonor registers a new donor
// POST /api/v1/donors
func (h *DonationHandler) RegisterDonor(c *gin.Context) {
	var req appdonation.RegisterDonorRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.donationService.RegisterDonor(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d)
}

// GetDonor retrieves a donor by ID
// GET /api/v1/donors/:id
func (h *DonationHandler) GetDonor(c *gin.Context) {
	donorID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	d, err := h.donationService.GetDonor(c.Request.Context(), donorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// donorListQuery is the query contract for donor listing
type donorListQuery struct {
	dto.ListRequest
	BloodTypeID string `form:"blood_type_id" binding:"omitempty,uuid"`
	City        string `form:"city" binding:"omitempty"`
	Available   *bool  `form:"available" binding:"omitempty"`
}

// ListDonors lists donors with filtering and pagination
// GET /api/v1/donors
func (h *DonationHandler) ListDonors(c *gin.Context) {
	var query donorListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := query.ToFilter()
	addUUIDFilter(filter.Filters, "blood_type_id", query.BloodTypeID)
	if query.City != "" {
		filter.Filters["city"] = query.City
	}
	if query.Available != nil {
		filter.Filters["is_available"] = *query.Available
	}

	donors, total, err := h.donationService.ListDonors(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, donors, filter.Page, filter.PageSize, total)
}

// FindAvailableDonors lists opted-in donors with a given blood type
// GET /api/v1/donors/available?blood_type=O-
func (h *DonationHandler) FindAvailableDonors(c *gin.Context) {
	bloodType := c.Query("blood_type")
	if bloodType == "" {
		h.BadRequest(c, "blood_type query parameter is required")
		return
	}
	var query dto.ListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	donors, err := h.donationService.FindAvailableDonors(c.Request.Context(), bloodType, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, donors)
}

// CheckEligibility evaluates the donation rules for a donor
// GET /api/v1/donors/:id/eligibility
func (h *DonationHandler) CheckEligibility(c *gin.Context) {
	donorID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.donationService.CheckEligibility(c.Request.Context(), donorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// setAvailabilityRequest binds the donor's opt-in flag
type setAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability flips the donor's opt-in flag
// PUT /api/v1/donors/:id/availability
func (h *DonationHandler) SetAvailability(c *gin.Context) {
	donorID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req setAvailabilityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.donationService.SetDonorAvailability(c.Request.Context(), donorID, *req.Available); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BookAppointment books a donation slot for an eligible donor
// POST /api/v1/appointments
func (h *DonationHandler) BookAppointment(c *gin.Context) {
	var req appdonation.BookAppointmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.donationService.BookAppointment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// ConfirmAppointment accepts a pending appointment
// POST /api/v1/appointments/:id/confirm
func (h *DonationHandler) ConfirmAppointment(c *gin.Context) {
	appointmentID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	a, err := h.donationService.ConfirmAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// rejectAppointmentRequest carries the staff's reason for declining
type rejectAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectAppointment declines a pending appointment
// POST /api/v1/appointments/:id/reject
func (h *DonationHandler) RejectAppointment(c *gin.Context) {
	appointmentID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req rejectAppointmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.donationService.RejectAppointment(c.Request.Context(), appointmentID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// CancelAppointment withdraws a pending or confirmed appointment
// POST /api/v1/appointments/:id/cancel
func (h *DonationHandler) CancelAppointment(c *gin.Context) {
	appointmentID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	a, err := h.donationService.CancelAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// MarkNoShow closes a confirmed appointment the donor missed
// POST /api/v1/appointments/:id/no-show
func (h *DonationHandler) MarkNoShow(c *gin.Context) {
	appointmentID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	a, err := h.donationService.MarkNoShow(c.Request.Context(), appointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// CompleteAppointment closes a confirmed visit and collects the unit
// POST /api/v1/appointments/:id/complete
func (h *DonationHandler) CompleteAppointment(c *gin.Context) {
	appointmentID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appdonation.CompleteAppointmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.donationService.CompleteAppointment(c.Request.Context(), appointmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListDonorAppointments lists a donor's appointments
// GET /api/v1/donors/:id/appointments
func (h *DonationHandler) ListDonorAppointments(c *gin.Context) {
	donorID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var query dto.ListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	appointments, err := h.donationService.ListAppointmentsByDonor(c.Request.Context(), donorID, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointments)
}

// ListCenterAppointments lists a center's appointments
// GET /api/v1/centers/:id/appointments
func (h *DonationHandler) ListCenterAppointments(c *gin.Context) {
	centerID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var query dto.ListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	appointments, err := h.donationService.ListAppointmentsByCenter(c.Request.Context(), centerID, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointments)
}
