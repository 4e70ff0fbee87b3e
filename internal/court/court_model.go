package court

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Court is immutable during a booking's lifetime: the hourly price is captured
// into the booking at creation time, so later price edits never rewrite
// history.
type Court struct {
	gorm.Model
	Name         string          `gorm:"not null;uniqueIndex" json:"name"`
	Description  string          `json:"description"`
	PricePerHour decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price_per_hour"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	ImageURL     string          `json:"image_url"`
}
