package booking

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// BookingRepository covers the read paths. Bookings are created and mutated
// through BookingService and the reaper only.
type BookingRepository interface {
	GetByID(id uint) (*Booking, error)
	GetCalendar(from, to time.Time) ([]Booking, error)
	GetByMember(memberID uint, page, limit int) ([]Booking, int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(id uint) (*Booking, error) {
	var b Booking
	if err := r.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetCalendar returns the non-cancelled bookings intersecting [from, to].
func (r *bookingRepository) GetCalendar(from, to time.Time) ([]Booking, error) {
	var bookings []Booking
	if err := r.db.
		Where("status <> ?", StatusCancelled).
		Where("start_time >= ? AND end_time <= ?", from, to).
		Order("start_time asc").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) GetByMember(memberID uint, page, limit int) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	offset := (page - 1) * limit

	query := r.db.Model(&Booking{}).Where("member_id = ?", memberID)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("start_time desc").
		Offset(offset).Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, totalCount, nil
}
