package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/internal/notification"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

// Reaper is the periodic sweep over booking state. Each cycle it expires
// stale holds and emits at-most-one reminder per upcoming booking. It holds no
// cross-cycle state beyond the store handle; idempotency comes from the
// notification table, so the reaper is safely restartable.
type Reaper struct {
	db     *gorm.DB
	notes  notification.NotificationRepository
	pub    events.Publisher
	policy Policy
	log    zerolog.Logger
}

func NewReaper(db *gorm.DB, notes notification.NotificationRepository, pub events.Publisher, policy Policy, log zerolog.Logger) *Reaper {
	return &Reaper{db: db, notes: notes, pub: pub, policy: policy, log: log}
}

// RunCycle executes one sweep. The two steps are independent: a failure in
// the reminder pass never blocks hold expiry on the next cycle.
func (r *Reaper) RunCycle(ctx context.Context) {
	if err := r.expireHolds(ctx); err != nil {
		r.log.Error().Err(err).Msg("hold expiry sweep failed")
	}
	if err := r.sendReminders(ctx); err != nil {
		r.log.Error().Err(err).Msg("reminder sweep failed")
	}
}

// expireHolds cancels unpaid holds older than the grace period. The status
// guard in the UPDATE closes the race with a concurrent confirm: whichever
// transition commits first wins, the other sees zero rows.
func (r *Reaper) expireHolds(ctx context.Context) error {
	cutoff := time.Now().Add(-r.policy.HoldGrace)

	var expired []Booking
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", []BookingStatus{StatusHolding, StatusPendingPayment}, cutoff).
		Find(&expired).Error
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	cancelled := 0
	for _, b := range expired {
		res := r.db.WithContext(ctx).Model(&Booking{}).
			Where("id = ? AND status IN ?", b.ID, []BookingStatus{StatusHolding, StatusPendingPayment}).
			Update("status", StatusCancelled)
		if res.Error != nil {
			r.log.Error().Err(res.Error).Uint("booking_id", b.ID).Msg("failed to expire hold")
			continue
		}
		if res.RowsAffected > 0 {
			cancelled++
			r.log.Info().Uint("booking_id", b.ID).Msg("auto-cancelled expired hold")
		}
	}

	if cancelled > 0 {
		r.pub.Publish(ctx, events.RKCalendarChanged, struct{}{})
	}
	return nil
}

// sendReminders notifies members of confirmed bookings starting within the
// look-ahead window, once per booking. The existence check against the
// notification table enforces idempotency across restarts.
func (r *Reaper) sendReminders(ctx context.Context) error {
	now := time.Now()
	windowEnd := now.Add(r.policy.ReminderLookahead)

	var upcoming []Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time >= ? AND start_time <= ?", StatusConfirmed, now, windowEnd).
		Find(&upcoming).Error
	if err != nil {
		return err
	}

	for _, b := range upcoming {
		relatedID := fmt.Sprintf("%d", b.ID)

		reminded, err := r.notes.ExistsByRelated(relatedID, notification.TypeReminder)
		if err != nil {
			r.log.Error().Err(err).Uint("booking_id", b.ID).Msg("reminder lookup failed")
			continue
		}
		if reminded {
			continue
		}

		message := fmt.Sprintf("Reminder: you have a court booked at %s", b.StartTime.Format("02/01 15:04"))
		note := &notification.Notification{
			ReceiverID: b.MemberID,
			Message:    message,
			Type:       notification.TypeReminder,
			RelatedID:  &relatedID,
		}
		if err := r.notes.Create(note); err != nil {
			r.log.Error().Err(err).Uint("booking_id", b.ID).Msg("failed to store reminder")
			continue
		}

		r.pub.Publish(ctx, events.RKMemberNotification(b.MemberID), events.MemberNotification{
			MemberID: b.MemberID,
			Message:  message,
		})
	}
	return nil
}
