package booking

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	// StatusHolding is a provisional, unpaid reservation. The reaper cancels
	// it once the hold grace period elapses unless it is confirmed first.
	StatusHolding        BookingStatus = "Holding"
	StatusPendingPayment BookingStatus = "PendingPayment"
	StatusConfirmed      BookingStatus = "Confirmed"
	StatusCancelled      BookingStatus = "Cancelled"
	StatusCompleted      BookingStatus = "Completed"
)

// Booking reserves a court for the half-open interval [StartTime, EndTime).
// Bookings are never deleted; cancellation is a status transition, and only
// Cancelled bookings stop counting against the no-overlap invariant.
type Booking struct {
	gorm.Model
	CourtID  uint `gorm:"index;not null" json:"court_id"`
	MemberID uint `gorm:"index;not null" json:"member_id"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	// TotalPrice captures the court's hourly price at creation time.
	TotalPrice decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_price"`

	Status BookingStatus `gorm:"type:varchar(20);index;not null;default:'PendingPayment'" json:"status"`

	// TransactionID links to the ledger entry that paid for this booking.
	// Holds carry none until confirmed.
	TransactionID *uint `json:"transaction_id,omitempty"`

	IsRecurring     bool    `gorm:"not null;default:false" json:"is_recurring"`
	RecurrenceRule  *string `json:"recurrence_rule,omitempty"` // e.g. "Weekly;Tue,Thu"
	ParentBookingID *uint   `gorm:"index" json:"parent_booking_id,omitempty"`
}
