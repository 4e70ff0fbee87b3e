package booking

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SlotConflictError reports the concrete slot that is already taken. Recurring
// requests surface the first conflicting date so callers can adjust the
// pattern instead of guessing.
type SlotConflictError struct {
	CourtID uint
	Start   time.Time
}

func (e SlotConflictError) Error() string {
	return fmt.Sprintf("court %d is already booked at %s", e.CourtID, e.Start.Format("2006-01-02 15:04"))
}

// IsSlotBusy reports whether any non-cancelled booking on the court overlaps
// the candidate half-open interval [start, end). Two intervals conflict iff
// they are not disjoint: existing.start < end AND existing.end > start.
// Holding bookings count as busy; an unexpired hold blocks the slot.
func IsSlotBusy(tx *gorm.DB, courtID uint, start, end time.Time) (bool, error) {
	var count int64
	err := tx.Model(&Booking{}).
		Where("court_id = ? AND status <> ?", courtID, StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
