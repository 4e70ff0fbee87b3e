package court

import (
	"errors"

	"gorm.io/gorm"
)

var ErrCourtNotFound = errors.New("court not found")

// CourtRepository defines database operations for court management.
type CourtRepository interface {
	Create(court *Court) error
	GetByID(id uint) (*Court, error)
	GetAll(includeInactive bool) ([]Court, error)
	Update(court *Court) error
	Deactivate(id uint) error
}

type courtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) CourtRepository {
	return &courtRepository{db: db}
}

func (r *courtRepository) Create(court *Court) error {
	return r.db.Create(court).Error
}

func (r *courtRepository) GetByID(id uint) (*Court, error) {
	var c Court
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *courtRepository) GetAll(includeInactive bool) ([]Court, error) {
	var courts []Court
	query := r.db.Order("name asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&courts).Error; err != nil {
		return nil, err
	}
	return courts, nil
}

func (r *courtRepository) Update(court *Court) error {
	return r.db.Save(court).Error
}

func (r *courtRepository) Deactivate(id uint) error {
	res := r.db.Model(&Court{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCourtNotFound
	}
	return nil
}
