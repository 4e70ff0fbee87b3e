package tournament

import (
	"errors"

	"gorm.io/gorm"
)

// TournamentRepository covers the read paths; all mutations go through
// TournamentService.
type TournamentRepository interface {
	GetByID(id uint) (*Tournament, error)
	GetAll(page, limit int) ([]Tournament, int64, error)
	GetParticipants(tournamentID uint) ([]TournamentParticipant, error)
	GetMatches(tournamentID uint) ([]Match, error)
}

type tournamentRepository struct {
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &tournamentRepository{db: db}
}

func (r *tournamentRepository) GetByID(id uint) (*Tournament, error) {
	var t Tournament
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tournamentRepository) GetAll(page, limit int) ([]Tournament, int64, error) {
	var tournaments []Tournament
	var totalCount int64

	offset := (page - 1) * limit

	if err := r.db.Model(&Tournament{}).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.Order("start_date desc").
		Offset(offset).Limit(limit).
		Find(&tournaments).Error; err != nil {
		return nil, 0, err
	}
	return tournaments, totalCount, nil
}

func (r *tournamentRepository) GetParticipants(tournamentID uint) ([]TournamentParticipant, error) {
	var participants []TournamentParticipant
	if err := r.db.Where("tournament_id = ?", tournamentID).
		Order("created_at asc").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *tournamentRepository) GetMatches(tournamentID uint) ([]Match, error) {
	var matches []Match
	if err := r.db.Where("tournament_id = ?", tournamentID).
		Order("scheduled_at asc").
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}
