package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pcmclub/pcm-backend/internal/court"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/responses"
	"github.com/pcmclub/pcm-backend/pkg/validator"
)

// BookingController handles booking requests.
type BookingController struct {
	service *BookingService
	repo    BookingRepository
}

func NewBookingController(service *BookingService, repo BookingRepository) *BookingController {
	return &BookingController{service: service, repo: repo}
}

type CreateBookingRequest struct {
	CourtID       uint   `json:"court_id" binding:"required"`
	Date          string `json:"date" binding:"required"` // "2006-01-02"
	StartHour     int    `json:"start_hour" binding:"min=0,max=23"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
	AsHold        bool   `json:"as_hold"`
}

type RecurringBookingRequest struct {
	CourtID       uint   `json:"court_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	StartHour     int    `json:"start_hour" binding:"min=0,max=23"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
	Weeks         int    `json:"weeks" binding:"required,min=1"`
	DaysOfWeek    string `json:"days_of_week" binding:"required"` // "Tue,Thu"
}

// Create godoc
// @Summary Book a court slot
// @Description Immediate payment by default; as_hold reserves the slot unpaid for the hold grace period.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking request"
// @Success 201 {object} responses.SuccessResponse{data=Booking}
// @Failure 402 {object} responses.ErrorResponse "Insufficient funds"
// @Failure 404 {object} responses.ErrorResponse "Court not found"
// @Failure 409 {object} responses.ErrorResponse "Slot already taken"
// @Router /bookings [post]
// @Security BearerAuth
func (bc *BookingController) Create(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	b, err := bc.service.CreateBooking(c.Request.Context(), memberID, req.CourtID, date, req.StartHour, req.DurationHours, req.AsHold)
	if err != nil {
		bc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Booking created successfully", b)
}

// Confirm godoc
// @Summary Pay for a held booking
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} responses.SuccessResponse{data=Booking}
// @Failure 402 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Hold expired or already paid"
// @Router /bookings/{id}/confirm [post]
// @Security BearerAuth
func (bc *BookingController) Confirm(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	b, err := bc.service.ConfirmBooking(c.Request.Context(), uint(id), memberID)
	if err != nil {
		bc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Booking confirmed", b)
}

// Cancel godoc
// @Summary Cancel a booking
// @Description Full refund when cancelled at least the configured hours before start, otherwise none.
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Already cancelled"
// @Router /bookings/{id}/cancel [post]
// @Security BearerAuth
func (bc *BookingController) Cancel(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	refund, err := bc.service.CancelBooking(c.Request.Context(), uint(id), memberID, middleware.IsAdmin(c))
	if err != nil {
		bc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Booking cancelled", gin.H{"refund": refund})
}

// CreateRecurring godoc
// @Summary Book a weekly recurring series
// @Description All-or-nothing: the first conflicting slot aborts the whole series.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body RecurringBookingRequest true "Recurring booking request"
// @Success 201 {object} responses.SuccessResponse{data=[]Booking}
// @Failure 402 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse "Tier too low"
// @Failure 409 {object} responses.ErrorResponse "A slot in the series is taken"
// @Router /bookings/recurring [post]
// @Security BearerAuth
func (bc *BookingController) CreateRecurring(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req RecurringBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD", nil)
		return
	}

	series, err := bc.service.CreateRecurringBooking(
		c.Request.Context(), memberID, req.CourtID, startDate,
		req.StartHour, req.DurationHours, req.Weeks, req.DaysOfWeek,
		middleware.IsAdmin(c),
	)
	if err != nil {
		bc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Recurring series booked successfully", series)
}

// Calendar godoc
// @Summary List non-cancelled bookings in a date range
// @Tags Bookings
// @Produce json
// @Param from query string true "RFC3339 start"
// @Param to query string true "RFC3339 end"
// @Success 200 {object} responses.SuccessResponse{data=[]Booking}
// @Router /bookings/calendar [get]
func (bc *BookingController) Calendar(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid 'from', expected RFC3339", nil)
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid 'to', expected RFC3339", nil)
		return
	}

	bookings, err := bc.repo.GetCalendar(from, to)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve calendar", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Calendar retrieved successfully", bookings)
}

// MyBookings godoc
// @Summary List the authenticated member's bookings
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Booking}
// @Router /bookings/my [get]
// @Security BearerAuth
func (bc *BookingController) MyBookings(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	bookings, total, err := bc.repo.GetByMember(memberID, page, pageSize)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve bookings", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Bookings retrieved successfully", bookings, total, page, pageSize)
}

// respondError maps engine errors to HTTP responses. Callers price retry
// strategies differently per reason, so slot conflicts, missing slots and
// short balances must stay distinguishable.
func (bc *BookingController) respondError(c *gin.Context, err error) {
	var conflict SlotConflictError
	switch {
	case errors.As(err, &conflict):
		responses.SendError(c, http.StatusConflict, "This slot is already booked", gin.H{
			"court_id": conflict.CourtID,
			"start":    conflict.Start,
		})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		responses.SendError(c, http.StatusPaymentRequired, "Insufficient wallet balance", nil)
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, court.ErrCourtNotFound), errors.Is(err, member.ErrMemberNotFound):
		responses.SendError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrTierTooLow):
		responses.SendError(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrNotHold):
		responses.SendError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrInvalidSlot), errors.Is(err, ErrEmptySchedule):
		responses.SendError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		// Store-level aborts (including serialization failures) roll back the
		// whole unit; the caller retries the operation from scratch.
		responses.SendError(c, http.StatusInternalServerError, "Transaction failed, please retry", err.Error())
	}
}
