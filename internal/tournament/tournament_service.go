package tournament

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/notification"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrMatchNotFound          = errors.New("match not found")
	ErrRegistrationClosed     = errors.New("tournament is not open for registration")
	ErrAlreadyJoined          = errors.New("member already joined this tournament")
	ErrTournamentFull         = errors.New("tournament is full")
	ErrScheduleExists         = errors.New("schedule has already been generated")
	ErrNotEnoughParticipants  = errors.New("at least 2 participants are required")
	ErrMatchAlreadyFinished   = errors.New("match result has already been recorded")
	ErrTournamentFinished     = errors.New("tournament is already finished")
	ErrWinnerNotParticipating = errors.New("winner is not a participant of this tournament")
)

// Rank adjustments applied to decisive singles results.
const (
	rankWinDelta  = 0.1
	rankLossDelta = 0.05
	rankFloor     = 2.0
)

// TournamentService owns tournament state transitions and the money movements
// tied to them. Joins and the prize payout run in serializable transactions so
// fee debits, participant rows and the payout each commit as one unit.
type TournamentService struct {
	db     *gorm.DB
	ledger *wallet.Ledger
	pub    events.Publisher
}

func NewTournamentService(db *gorm.DB, ledger *wallet.Ledger, pub events.Publisher) *TournamentService {
	return &TournamentService{db: db, ledger: ledger, pub: pub}
}

var serializableTx = &sql.TxOptions{Isolation: sql.LevelSerializable}

type CreateTournamentInput struct {
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	Format          TournamentFormat
	EntryFee        decimal.Decimal
	SeedPrizePool   decimal.Decimal
	MaxParticipants int
}

func (s *TournamentService) CreateTournament(ctx context.Context, in CreateTournamentInput) (*Tournament, error) {
	t := &Tournament{
		Name:            in.Name,
		Description:     in.Description,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Format:          in.Format,
		EntryFee:        in.EntryFee,
		PrizePool:       in.SeedPrizePool,
		MaxParticipants: in.MaxParticipants,
		Status:          StatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// JoinTournament registers a member, debiting the entry fee and growing the
// prize pool in the same transaction. A duplicate join or a closed tournament
// leaves the wallet untouched.
func (s *TournamentService) JoinTournament(ctx context.Context, tournamentID, memberID uint, teamName string) (*TournamentParticipant, error) {
	var participant *TournamentParticipant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Tournament
		if err := tx.First(&t, tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if t.Status != StatusOpen && t.Status != StatusRegistering {
			return ErrRegistrationClosed
		}

		var count int64
		if err := tx.Model(&TournamentParticipant{}).
			Where("tournament_id = ?", t.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if t.MaxParticipants > 0 && count >= int64(t.MaxParticipants) {
			return ErrTournamentFull
		}

		var existing int64
		if err := tx.Model(&TournamentParticipant{}).
			Where("tournament_id = ? AND member_id = ?", t.ID, memberID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyJoined
		}

		m, err := member.GetForUpdate(tx, memberID)
		if err != nil {
			return err
		}

		if t.EntryFee.IsPositive() {
			if _, err := s.ledger.Debit(tx, m, t.EntryFee, true, wallet.Entry{
				Type:        wallet.TypePayment,
				Description: fmt.Sprintf("Entry fee for tournament %s", t.Name),
				RelatedID:   fmt.Sprintf("%d", t.ID),
			}); err != nil {
				return err
			}
			if err := tx.Model(&t).
				Update("prize_pool", t.PrizePool.Add(t.EntryFee)).Error; err != nil {
				return err
			}
		}

		participant = &TournamentParticipant{
			TournamentID: t.ID,
			MemberID:     memberID,
			TeamName:     teamName,
			IsPaid:       true,
		}
		return tx.Create(participant).Error
	}, serializableTx)
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// GenerateSchedule shuffles the participant list and builds the bracket for
// the tournament's format. Hybrid starts with a round-robin group stage; later
// rounds are seeded manually from the standings. Generation is one-shot.
func (s *TournamentService) GenerateSchedule(ctx context.Context, tournamentID uint) ([]Match, error) {
	var matches []Match
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Tournament
		if err := tx.First(&t, tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if t.Status == StatusFinished {
			return ErrTournamentFinished
		}

		var existing int64
		if err := tx.Model(&Match{}).
			Where("tournament_id = ?", t.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrScheduleExists
		}

		var participants []TournamentParticipant
		if err := tx.Where("tournament_id = ?", t.ID).
			Find(&participants).Error; err != nil {
			return err
		}
		if len(participants) < 2 {
			return ErrNotEnoughParticipants
		}

		players := make([]uint, len(participants))
		for i, p := range participants {
			players[i] = p.MemberID
		}
		rand.Shuffle(len(players), func(i, j int) {
			players[i], players[j] = players[j], players[i]
		})

		switch t.Format {
		case FormatKnockout:
			matches = buildKnockoutRound1(t.ID, players, t.StartDate)
		default:
			matches = buildRoundRobin(t.ID, players, t.StartDate)
		}

		for i := range matches {
			if err := tx.Create(&matches[i]).Error; err != nil {
				return err
			}
		}

		return tx.Model(&t).Update("status", StatusOngoing).Error
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.RKCalendarChanged, struct{}{})
	return matches, nil
}

// UpdateMatchResult records scores and winner, adjusts rank levels for
// decisive singles results and publishes the score on the per-match topic. The
// guarded transition means a result is recorded at most once.
func (s *TournamentService) UpdateMatchResult(ctx context.Context, matchID uint, score1, score2 int, winner MatchWinner, details string) (*Match, error) {
	var updated *Match
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m Match
		if err := tx.First(&m, matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		res := tx.Model(&Match{}).
			Where("id = ? AND status <> ?", m.ID, MatchFinished).
			Updates(map[string]interface{}{
				"score1":  score1,
				"score2":  score2,
				"winner":  winner,
				"details": details,
				"status":  MatchFinished,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMatchAlreadyFinished
		}

		m.Score1 = score1
		m.Score2 = score2
		m.Winner = &winner
		m.Details = details
		m.Status = MatchFinished
		updated = &m

		// Rank levels move only on decisive singles results; doubles and draws
		// leave them untouched.
		if winner == WinnerDraw || m.Team1Player2ID != nil || m.Team2Player2ID != nil {
			return nil
		}
		if m.Team1Player1ID == nil || m.Team2Player1ID == nil {
			return nil
		}
		winnerID, loserID := *m.Team1Player1ID, *m.Team2Player1ID
		if winner == WinnerTeam2 {
			winnerID, loserID = loserID, winnerID
		}
		if err := adjustRank(tx, winnerID, rankWinDelta); err != nil {
			return err
		}
		return adjustRank(tx, loserID, -rankLossDelta)
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.RKMatchScore(matchID), events.MatchScoreUpdated{
		MatchID: matchID,
		Score1:  score1,
		Score2:  score2,
	})
	return updated, nil
}

// adjustRank moves a member's rank level by delta. Losses never push a rating
// below the floor, and members already under the floor are left where they are
// rather than bumped up to it.
func adjustRank(tx *gorm.DB, memberID uint, delta float64) error {
	m, err := member.GetForUpdate(tx, memberID)
	if err != nil {
		return err
	}
	next := m.RankLevel + delta
	if delta < 0 {
		if m.RankLevel <= rankFloor {
			return nil
		}
		if next < rankFloor {
			next = rankFloor
		}
	}
	return tx.Model(m).Update("rank_level", next).Error
}

// FinishTournament pays the prize pool to the winner and closes the
// tournament. The guarded status transition makes the payout happen at most
// once; Finished is terminal.
func (s *TournamentService) FinishTournament(ctx context.Context, tournamentID, winnerID uint) (*Tournament, error) {
	var finished *Tournament
	var winnerNote *notification.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Tournament
		if err := tx.First(&t, tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if t.Status == StatusFinished {
			return ErrTournamentFinished
		}

		var isParticipant int64
		if err := tx.Model(&TournamentParticipant{}).
			Where("tournament_id = ? AND member_id = ?", t.ID, winnerID).
			Count(&isParticipant).Error; err != nil {
			return err
		}
		if isParticipant == 0 {
			return ErrWinnerNotParticipating
		}

		res := tx.Model(&Tournament{}).
			Where("id = ? AND status <> ?", t.ID, StatusFinished).
			Update("status", StatusFinished)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTournamentFinished
		}
		t.Status = StatusFinished

		if t.PrizePool.IsPositive() {
			m, err := member.GetForUpdate(tx, winnerID)
			if err != nil {
				return err
			}
			if _, err := s.ledger.Credit(tx, m, t.PrizePool, false, wallet.Entry{
				Type:        wallet.TypeReward,
				Description: fmt.Sprintf("Prize for winning tournament %s", t.Name),
				RelatedID:   fmt.Sprintf("%d", t.ID),
			}); err != nil {
				return err
			}

			relatedID := fmt.Sprintf("%d", t.ID)
			winnerNote = &notification.Notification{
				ReceiverID: winnerID,
				Message:    fmt.Sprintf("Congratulations! You won %s and received the %s prize pool", t.Name, t.PrizePool.StringFixed(0)),
				Type:       notification.TypeSuccess,
				RelatedID:  &relatedID,
			}
			if err := tx.Create(winnerNote).Error; err != nil {
				return err
			}
		}

		finished = &t
		return nil
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	if winnerNote != nil {
		s.pub.Publish(ctx, events.RKMemberNotification(winnerID), events.MemberNotification{
			MemberID: winnerID,
			Message:  winnerNote.Message,
		})
	}
	return finished, nil
}
