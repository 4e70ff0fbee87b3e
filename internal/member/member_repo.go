package member

import (
	"errors"

	"gorm.io/gorm"
)

var ErrMemberNotFound = errors.New("member not found")

// MemberRepository defines database operations for member lookup. Wallet and
// tier mutations do not live here; they funnel through the wallet ledger.
type MemberRepository interface {
	GetByID(id uint) (*Member, error)
	GetRanking(limit int) ([]Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(id uint) (*Member, error) {
	var m Member
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) GetRanking(limit int) ([]Member, error) {
	var members []Member
	if err := r.db.Where("is_active = ?", true).
		Order("rank_level desc").
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// GetForUpdate loads a member inside the caller's transaction. Every atomic
// unit that mutates wallet state re-reads the member through its own tx so the
// serializable isolation level can detect conflicting writers.
func GetForUpdate(tx *gorm.DB, id uint) (*Member, error) {
	var m Member
	if err := tx.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}
