package notification

import "gorm.io/gorm"

const (
	TypeInfo     = "Info"
	TypeSuccess  = "Success"
	TypeWarning  = "Warning"
	TypeReminder = "Reminder"
)

// Notification is a persisted message for a member. The reaper relies on these
// records for reminder idempotency, so they must outlive process restarts.
type Notification struct {
	gorm.Model
	ReceiverID uint   `gorm:"index;not null" json:"receiver_id"`
	Message    string `gorm:"not null" json:"message"`
	Type       string `gorm:"type:varchar(20);not null;default:'Info'" json:"type"`
	IsRead     bool   `gorm:"not null;default:false" json:"is_read"`

	// RelatedID points back at the booking/transaction that triggered this
	// notification; combined with Type it deduplicates reminders.
	RelatedID *string `gorm:"index" json:"related_id,omitempty"`
}
