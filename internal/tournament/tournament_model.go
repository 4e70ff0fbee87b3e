package tournament

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TournamentStatus progresses forward only; Finished is terminal.
type TournamentStatus string

const (
	StatusOpen          TournamentStatus = "Open"
	StatusRegistering   TournamentStatus = "Registering"
	StatusDrawCompleted TournamentStatus = "DrawCompleted"
	StatusOngoing       TournamentStatus = "Ongoing"
	StatusFinished      TournamentStatus = "Finished"
)

type TournamentFormat string

const (
	FormatRoundRobin TournamentFormat = "RoundRobin"
	FormatKnockout   TournamentFormat = "Knockout"
	FormatHybrid     TournamentFormat = "Hybrid"
)

type Tournament struct {
	gorm.Model
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`

	Format   TournamentFormat `gorm:"type:varchar(20);not null" json:"format"`
	EntryFee decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"entry_fee"`

	// PrizePool accumulates entry fees on top of any seeded amount and is paid
	// out exactly once when the tournament finishes.
	PrizePool decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"prize_pool"`

	MaxParticipants int              `gorm:"not null;default:0" json:"max_participants"`
	Status          TournamentStatus `gorm:"type:varchar(20);not null;default:'Open'" json:"status"`
}

// TournamentParticipant is unique per member and tournament.
type TournamentParticipant struct {
	gorm.Model
	TournamentID uint   `gorm:"not null;uniqueIndex:idx_tournament_member" json:"tournament_id"`
	MemberID     uint   `gorm:"not null;uniqueIndex:idx_tournament_member" json:"member_id"`
	TeamName     string `json:"team_name"`
	IsPaid       bool   `gorm:"not null;default:false" json:"is_paid"`
}

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "Scheduled"
	MatchInProgress MatchStatus = "InProgress"
	MatchFinished   MatchStatus = "Finished"
)

// MatchWinner identifies which side took the match.
type MatchWinner string

const (
	WinnerTeam1 MatchWinner = "Team1"
	WinnerTeam2 MatchWinner = "Team2"
	WinnerDraw  MatchWinner = "Draw"
)

// Match holds up to four player slots; singles fills one slot per side. A bye
// match has an empty Team2 and is created already Finished.
type Match struct {
	gorm.Model
	TournamentID uint   `gorm:"not null;index" json:"tournament_id"`
	RoundName    string `gorm:"type:varchar(50)" json:"round_name"`

	Team1Player1ID *uint `json:"team1_player1_id"`
	Team1Player2ID *uint `json:"team1_player2_id"`
	Team2Player1ID *uint `json:"team2_player1_id"`
	Team2Player2ID *uint `json:"team2_player2_id"`

	Score1  int          `gorm:"not null;default:0" json:"score1"`
	Score2  int          `gorm:"not null;default:0" json:"score2"`
	Winner  *MatchWinner `gorm:"type:varchar(10)" json:"winner"`
	Details string       `json:"details"`

	ScheduledAt time.Time   `json:"scheduled_at"`
	Status      MatchStatus `gorm:"type:varchar(20);not null;default:'Scheduled'" json:"status"`
}
