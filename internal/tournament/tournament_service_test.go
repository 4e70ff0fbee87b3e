package tournament

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/notification"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

func setupTournamentDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&member.Member{},
		&wallet.WalletTransaction{},
		&notification.Notification{},
		&Tournament{},
		&TournamentParticipant{},
		&Match{},
	))
	return db
}

func newTournamentService(db *gorm.DB) *TournamentService {
	ledger := wallet.NewLedger(member.TierThresholds{
		Silver:  decimal.NewFromInt(5000000),
		Gold:    decimal.NewFromInt(20000000),
		Diamond: decimal.NewFromInt(50000000),
	})
	return NewTournamentService(db, ledger, events.Nop{})
}

func seedPlayer(t *testing.T, db *gorm.DB, email string, balance int64) *member.Member {
	t.Helper()
	m := &member.Member{
		FullName:      "Player",
		Email:         email,
		Role:          member.RoleMember,
		IsActive:      true,
		RankLevel:     3.0,
		WalletBalance: decimal.NewFromInt(balance),
		TotalSpent:    decimal.Zero,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedTournament(t *testing.T, db *gorm.DB, format TournamentFormat, entryFee int64, status TournamentStatus) *Tournament {
	t.Helper()
	tr := &Tournament{
		Name:      "Autumn Open",
		StartDate: time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC),
		Format:    format,
		EntryFee:  decimal.NewFromInt(entryFee),
		PrizePool: decimal.Zero,
		Status:    status,
	}
	require.NoError(t, db.Create(tr).Error)
	return tr
}

func TestJoinTournamentDebitsFeeAndGrowsPool(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 100000, StatusOpen)
	p := seedPlayer(t, db, "join@test.local", 500000)

	participant, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "Team A")
	require.NoError(t, err)
	assert.True(t, participant.IsPaid)
	assert.Equal(t, "Team A", participant.TeamName)

	var stored member.Member
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(400000)))

	var reloaded Tournament
	require.NoError(t, db.First(&reloaded, tr.ID).Error)
	assert.True(t, reloaded.PrizePool.Equal(decimal.NewFromInt(100000)))

	var entry wallet.WalletTransaction
	require.NoError(t, db.Where("member_id = ? AND type = ?", p.ID, wallet.TypePayment).First(&entry).Error)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(-100000)))
}

func TestJoinTournamentDuplicateConflicts(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 100000, StatusOpen)
	p := seedPlayer(t, db, "dup@test.local", 500000)

	_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
	require.NoError(t, err)

	_, err = svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
	require.ErrorIs(t, err, ErrAlreadyJoined)

	// Only one fee was taken.
	var stored member.Member
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(400000)))
}

func TestJoinTournamentInsufficientFunds(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 100000, StatusOpen)
	p := seedPlayer(t, db, "broke@test.local", 50000)

	_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
	require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	var participants int64
	require.NoError(t, db.Model(&TournamentParticipant{}).Count(&participants).Error)
	assert.Zero(t, participants)
}

func TestJoinTournamentClosed(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 100000, StatusOngoing)
	p := seedPlayer(t, db, "closed@test.local", 500000)

	_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
	require.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestGenerateScheduleKnockout(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusRegistering)

	for _, email := range []string{"a@t.local", "b@t.local", "c@t.local", "d@t.local", "e@t.local"} {
		p := seedPlayer(t, db, email, 0)
		_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
		require.NoError(t, err)
	}

	matches, err := svc.GenerateSchedule(context.Background(), tr.ID)
	require.NoError(t, err)
	require.Len(t, matches, 3, "5 players: 2 pairs + 1 bye")

	byes := 0
	for _, m := range matches {
		if m.Status == MatchFinished {
			byes++
			require.NotNil(t, m.Winner)
			assert.Equal(t, WinnerTeam1, *m.Winner)
		}
	}
	assert.Equal(t, 1, byes)

	var reloaded Tournament
	require.NoError(t, db.First(&reloaded, tr.ID).Error)
	assert.Equal(t, StatusOngoing, reloaded.Status)
}

func TestGenerateScheduleRoundRobin(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatRoundRobin, 0, StatusRegistering)

	for _, email := range []string{"a@t.local", "b@t.local", "c@t.local", "d@t.local"} {
		p := seedPlayer(t, db, email, 0)
		_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
		require.NoError(t, err)
	}

	matches, err := svc.GenerateSchedule(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 6)
}

func TestGenerateScheduleOneShot(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusRegistering)

	for _, email := range []string{"a@t.local", "b@t.local"} {
		p := seedPlayer(t, db, email, 0)
		_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
		require.NoError(t, err)
	}

	_, err := svc.GenerateSchedule(context.Background(), tr.ID)
	require.NoError(t, err)

	_, err = svc.GenerateSchedule(context.Background(), tr.ID)
	require.ErrorIs(t, err, ErrScheduleExists)
}

func TestGenerateScheduleNeedsTwoParticipants(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusRegistering)

	p := seedPlayer(t, db, "solo@t.local", 0)
	_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
	require.NoError(t, err)

	_, err = svc.GenerateSchedule(context.Background(), tr.ID)
	require.ErrorIs(t, err, ErrNotEnoughParticipants)
}

func TestUpdateMatchResultAdjustsRanks(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusOngoing)
	winner := seedPlayer(t, db, "winner@t.local", 0)
	loser := seedPlayer(t, db, "loser@t.local", 0)

	m := &Match{
		TournamentID:   tr.ID,
		RoundName:      "Round 1",
		Team1Player1ID: &winner.ID,
		Team2Player1ID: &loser.ID,
		Status:         MatchScheduled,
	}
	require.NoError(t, db.Create(m).Error)

	updated, err := svc.UpdateMatchResult(context.Background(), m.ID, 21, 15, WinnerTeam1, "21-15")
	require.NoError(t, err)
	assert.Equal(t, MatchFinished, updated.Status)
	assert.Equal(t, 21, updated.Score1)

	var w, l member.Member
	require.NoError(t, db.First(&w, winner.ID).Error)
	require.NoError(t, db.First(&l, loser.ID).Error)
	assert.InDelta(t, 3.1, w.RankLevel, 1e-9)
	assert.InDelta(t, 2.95, l.RankLevel, 1e-9)
}

func TestUpdateMatchResultOnlyOnce(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusOngoing)
	p1 := seedPlayer(t, db, "p1@t.local", 0)
	p2 := seedPlayer(t, db, "p2@t.local", 0)

	m := &Match{
		TournamentID:   tr.ID,
		Team1Player1ID: &p1.ID,
		Team2Player1ID: &p2.ID,
		Status:         MatchScheduled,
	}
	require.NoError(t, db.Create(m).Error)

	_, err := svc.UpdateMatchResult(context.Background(), m.ID, 21, 15, WinnerTeam1, "")
	require.NoError(t, err)

	_, err = svc.UpdateMatchResult(context.Background(), m.ID, 15, 21, WinnerTeam2, "")
	require.ErrorIs(t, err, ErrMatchAlreadyFinished)

	// Ranks moved exactly once.
	var stored member.Member
	require.NoError(t, db.First(&stored, p1.ID).Error)
	assert.InDelta(t, 3.1, stored.RankLevel, 1e-9)
}

func TestUpdateMatchResultDrawLeavesRanks(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatRoundRobin, 0, StatusOngoing)
	p1 := seedPlayer(t, db, "d1@t.local", 0)
	p2 := seedPlayer(t, db, "d2@t.local", 0)

	m := &Match{
		TournamentID:   tr.ID,
		Team1Player1ID: &p1.ID,
		Team2Player1ID: &p2.ID,
		Status:         MatchScheduled,
	}
	require.NoError(t, db.Create(m).Error)

	_, err := svc.UpdateMatchResult(context.Background(), m.ID, 18, 18, WinnerDraw, "")
	require.NoError(t, err)

	var stored member.Member
	require.NoError(t, db.First(&stored, p1.ID).Error)
	assert.InDelta(t, 3.0, stored.RankLevel, 1e-9)
}

func TestRankNeverDropsBelowFloor(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusOngoing)
	p1 := seedPlayer(t, db, "f1@t.local", 0)
	p2 := seedPlayer(t, db, "f2@t.local", 0)
	require.NoError(t, db.Model(p2).Update("rank_level", 2.02).Error)

	m := &Match{
		TournamentID:   tr.ID,
		Team1Player1ID: &p1.ID,
		Team2Player1ID: &p2.ID,
		Status:         MatchScheduled,
	}
	require.NoError(t, db.Create(m).Error)

	_, err := svc.UpdateMatchResult(context.Background(), m.ID, 21, 10, WinnerTeam1, "")
	require.NoError(t, err)

	var stored member.Member
	require.NoError(t, db.First(&stored, p2.ID).Error)
	assert.InDelta(t, 2.0, stored.RankLevel, 1e-9, "loss clamps at the floor")
}

func TestFinishTournamentPaysPrizeOnce(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 100000, StatusOpen)
	p1 := seedPlayer(t, db, "champ@t.local", 200000)
	p2 := seedPlayer(t, db, "runner@t.local", 200000)

	_, err := svc.JoinTournament(context.Background(), tr.ID, p1.ID, "")
	require.NoError(t, err)
	_, err = svc.JoinTournament(context.Background(), tr.ID, p2.ID, "")
	require.NoError(t, err)

	finished, err := svc.FinishTournament(context.Background(), tr.ID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, finished.Status)

	// Entry fees were pooled and paid out to the winner.
	var stored member.Member
	require.NoError(t, db.First(&stored, p1.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(300000)),
		"200000 - 100000 fee + 200000 pool")

	var rewards int64
	require.NoError(t, db.Model(&wallet.WalletTransaction{}).
		Where("member_id = ? AND type = ?", p1.ID, wallet.TypeReward).
		Count(&rewards).Error)
	assert.EqualValues(t, 1, rewards)

	// Finished is terminal; a second settlement is rejected and pays nothing.
	_, err = svc.FinishTournament(context.Background(), tr.ID, p1.ID)
	require.ErrorIs(t, err, ErrTournamentFinished)

	require.NoError(t, db.First(&stored, p1.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(300000)))
}

func TestFinishTournamentUnknownWinner(t *testing.T) {
	db := setupTournamentDB(t)
	svc := newTournamentService(db)
	tr := seedTournament(t, db, FormatKnockout, 0, StatusOngoing)
	p := seedPlayer(t, db, "joined@t.local", 0)
	outsider := seedPlayer(t, db, "outsider@t.local", 0)

	_, err := svc.JoinTournament(context.Background(), tr.ID, p.ID, "")
	require.ErrorIs(t, err, ErrRegistrationClosed)

	_, err = svc.FinishTournament(context.Background(), tr.ID, outsider.ID)
	require.ErrorIs(t, err, ErrWinnerNotParticipating)

	var reloaded Tournament
	require.NoError(t, db.First(&reloaded, tr.ID).Error)
	assert.Equal(t, StatusOngoing, reloaded.Status, "failed settlement leaves status unchanged")
}
