package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/internal/court"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("booking belongs to another member")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotHold          = errors.New("booking is not awaiting payment")
	ErrInvalidSlot      = errors.New("invalid slot parameters")
	ErrTierTooLow       = errors.New("membership tier too low for recurring bookings")
)

// Policy bundles the configured business rules the coordinator enforces.
type Policy struct {
	HoldGrace         time.Duration
	ReminderLookahead time.Duration
	RefundCutoffHours int
	RecurringMinTier  member.Tier
}

// BookingService coordinates availability checks, wallet movements and
// booking rows as single atomic units. Every read-then-write path runs inside
// one serializable transaction, so concurrent requests for the same slot
// produce exactly one success.
type BookingService struct {
	db     *gorm.DB
	ledger *wallet.Ledger
	pub    events.Publisher
	policy Policy
}

func NewBookingService(db *gorm.DB, ledger *wallet.Ledger, pub events.Publisher, policy Policy) *BookingService {
	return &BookingService{db: db, ledger: ledger, pub: pub, policy: policy}
}

// serializableTx pins every coordinator unit to SERIALIZABLE. On Postgres one
// of two interleaving same-slot writers aborts with a serialization failure;
// the single-connection sqlite test databases never interleave, so that abort
// path exists only against the production driver.
var serializableTx = &sql.TxOptions{Isolation: sql.LevelSerializable}

// CreateBooking reserves [start, start+duration) on a court. With asHold the
// slot is reserved unpaid and left for the reaper to expire; otherwise the
// wallet is debited and the booking confirmed in the same transaction.
func (s *BookingService) CreateBooking(ctx context.Context, memberID, courtID uint, date time.Time, startHour, durationHours int, asHold bool) (*Booking, error) {
	if durationHours < 1 || startHour < 0 || startHour > 23 {
		return nil, ErrInvalidSlot
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(durationHours) * time.Hour)

	var created *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := member.GetForUpdate(tx, memberID)
		if err != nil {
			return err
		}

		crt, err := activeCourt(tx, courtID)
		if err != nil {
			return err
		}
		totalPrice := crt.PricePerHour.Mul(decimal.NewFromInt(int64(durationHours)))

		busy, err := IsSlotBusy(tx, courtID, start, end)
		if err != nil {
			return err
		}
		if busy {
			return SlotConflictError{CourtID: courtID, Start: start}
		}

		b := &Booking{
			CourtID:    courtID,
			MemberID:   memberID,
			StartTime:  start,
			EndTime:    end,
			TotalPrice: totalPrice,
		}

		if asHold {
			b.Status = StatusHolding
			created = b
			return tx.Create(b).Error
		}

		entry, err := s.ledger.Debit(tx, m, totalPrice, true, wallet.Entry{
			Type:        wallet.TypePayment,
			Description: fmt.Sprintf("Court booking %s (%s)", crt.Name, start.Format("02/01 15:04")),
		})
		if err != nil {
			return err
		}

		b.Status = StatusConfirmed
		b.TransactionID = &entry.ID
		if err := tx.Create(b).Error; err != nil {
			return err
		}

		// Back-link the ledger entry to the booking it paid for.
		if err := tx.Model(entry).Update("related_id", fmt.Sprintf("%d", b.ID)).Error; err != nil {
			return err
		}

		created = b
		return nil
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.RKCalendarChanged, struct{}{})
	return created, nil
}

// ConfirmBooking converts a hold into a paid booking. The guarded status
// transition means a racing reaper sweep and a confirm cannot both win.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, requesterID uint) (*Booking, error) {
	var confirmed *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b Booking
		if err := tx.First(&b, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.MemberID != requesterID {
			return ErrForbidden
		}

		res := tx.Model(&Booking{}).
			Where("id = ? AND status IN ?", b.ID, []BookingStatus{StatusHolding, StatusPendingPayment}).
			Update("status", StatusConfirmed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotHold
		}
		b.Status = StatusConfirmed

		m, err := member.GetForUpdate(tx, requesterID)
		if err != nil {
			return err
		}

		entry, err := s.ledger.Debit(tx, m, b.TotalPrice, true, wallet.Entry{
			Type:        wallet.TypePayment,
			Description: fmt.Sprintf("Payment for held booking #%d", b.ID),
			RelatedID:   fmt.Sprintf("%d", b.ID),
		})
		if err != nil {
			return err
		}

		if err := tx.Model(&b).Update("transaction_id", entry.ID).Error; err != nil {
			return err
		}
		b.TransactionID = &entry.ID

		confirmed = &b
		return nil
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.RKCalendarChanged, struct{}{})
	return confirmed, nil
}

// CancelBooking cancels a booking and refunds the full price when the
// cancellation lands at least the configured number of hours before start.
// Cancelling a hold never touches the wallet; holds were never debited.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, requesterID uint, isAdmin bool) (decimal.Decimal, error) {
	refund := decimal.Zero
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b Booking
		if err := tx.First(&b, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.MemberID != requesterID && !isAdmin {
			return ErrForbidden
		}
		if b.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}
		wasPaid := b.Status == StatusConfirmed || b.Status == StatusCompleted

		res := tx.Model(&Booking{}).
			Where("id = ? AND status <> ?", b.ID, StatusCancelled).
			Update("status", StatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}

		if !wasPaid {
			return nil
		}

		hoursBefore := time.Until(b.StartTime).Hours()
		if hoursBefore < float64(s.policy.RefundCutoffHours) {
			return nil
		}

		m, err := member.GetForUpdate(tx, b.MemberID)
		if err != nil {
			return err
		}
		if _, err := s.ledger.Credit(tx, m, b.TotalPrice, true, wallet.Entry{
			Type:        wallet.TypeRefund,
			Description: fmt.Sprintf("Refund for cancelled booking #%d", b.ID),
			RelatedID:   fmt.Sprintf("%d", b.ID),
		}); err != nil {
			return err
		}
		refund = b.TotalPrice
		return nil
	}, serializableTx)
	if err != nil {
		return decimal.Zero, err
	}

	s.pub.Publish(ctx, events.RKCalendarChanged, struct{}{})
	return refund, nil
}

// CreateRecurringBooking expands a weekly pattern into concrete slots and
// books all of them or none. Validation covers every slot before any row or
// wallet mutation; the first conflict aborts the whole request naming the
// offending date. One aggregate debit and one Payment entry cover the series.
func (s *BookingService) CreateRecurringBooking(ctx context.Context, memberID, courtID uint, startDate time.Time, startHour, durationHours, weeks int, daysOfWeek string, isAdmin bool) ([]Booking, error) {
	if durationHours < 1 || startHour < 0 || startHour > 23 || weeks < 1 {
		return nil, ErrInvalidSlot
	}
	days, err := parseDaysOfWeek(daysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	slots := expandWeeklySchedule(startDate, startHour, weeks, days)
	if len(slots) == 0 {
		return nil, ErrEmptySchedule
	}
	duration := time.Duration(durationHours) * time.Hour
	rule := fmt.Sprintf("Weekly;%s", strings.TrimSpace(daysOfWeek))

	var series []Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := member.GetForUpdate(tx, memberID)
		if err != nil {
			return err
		}
		if !isAdmin && m.Tier < s.policy.RecurringMinTier {
			return ErrTierTooLow
		}

		crt, err := activeCourt(tx, courtID)
		if err != nil {
			return err
		}

		pricePerSlot := crt.PricePerHour.Mul(decimal.NewFromInt(int64(durationHours)))
		totalPrice := pricePerSlot.Mul(decimal.NewFromInt(int64(len(slots))))
		if m.WalletBalance.LessThan(totalPrice) {
			return wallet.ErrInsufficientFunds
		}

		// Validate every slot before touching anything; partial series are
		// never created.
		for _, start := range slots {
			busy, err := IsSlotBusy(tx, courtID, start, start.Add(duration))
			if err != nil {
				return err
			}
			if busy {
				return SlotConflictError{CourtID: courtID, Start: start}
			}
		}

		entry, err := s.ledger.Debit(tx, m, totalPrice, true, wallet.Entry{
			Type:        wallet.TypePayment,
			Description: fmt.Sprintf("Recurring booking %s, %d slots (%s)", crt.Name, len(slots), rule),
		})
		if err != nil {
			return err
		}

		var headID uint
		for i, start := range slots {
			b := Booking{
				CourtID:        courtID,
				MemberID:       memberID,
				StartTime:      start,
				EndTime:        start.Add(duration),
				TotalPrice:     pricePerSlot,
				Status:         StatusConfirmed,
				IsRecurring:    true,
				RecurrenceRule: &rule,
				TransactionID:  &entry.ID,
			}
			if i > 0 {
				b.ParentBookingID = &headID
			}
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
			if i == 0 {
				headID = b.ID
			}
			series = append(series, b)
		}

		return tx.Model(entry).Update("related_id", fmt.Sprintf("%d", headID)).Error
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.RKCalendarChanged, struct{}{})
	return series, nil
}

func activeCourt(tx *gorm.DB, courtID uint) (*court.Court, error) {
	var crt court.Court
	if err := tx.First(&crt, courtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, court.ErrCourtNotFound
		}
		return nil, err
	}
	if !crt.IsActive {
		return nil, court.ErrCourtNotFound
	}
	return &crt, nil
}
