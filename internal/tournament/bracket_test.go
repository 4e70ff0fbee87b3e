package tournament

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerIDs(n int) []uint {
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return ids
}

func TestBuildKnockoutRound1Even(t *testing.T) {
	first := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	matches := buildKnockoutRound1(7, playerIDs(8), first)

	require.Len(t, matches, 4)
	for i, m := range matches {
		assert.Equal(t, uint(7), m.TournamentID)
		assert.Equal(t, "Round 1", m.RoundName)
		assert.Equal(t, MatchScheduled, m.Status)
		require.NotNil(t, m.Team1Player1ID)
		require.NotNil(t, m.Team2Player1ID)
		assert.Equal(t, first.Add(time.Duration(i)*time.Hour), m.ScheduledAt)
	}

	// Every player appears exactly once.
	seen := map[uint]int{}
	for _, m := range matches {
		seen[*m.Team1Player1ID]++
		seen[*m.Team2Player1ID]++
	}
	for _, id := range playerIDs(8) {
		assert.Equal(t, 1, seen[id])
	}
}

func TestBuildKnockoutRound1OddGetsBye(t *testing.T) {
	first := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	matches := buildKnockoutRound1(7, playerIDs(5), first)

	require.Len(t, matches, 3, "2 pairs + 1 bye")

	bye := matches[2]
	assert.Equal(t, MatchFinished, bye.Status)
	require.NotNil(t, bye.Winner)
	assert.Equal(t, WinnerTeam1, *bye.Winner)
	require.NotNil(t, bye.Team1Player1ID)
	assert.Equal(t, uint(5), *bye.Team1Player1ID, "the leftover player advances")
	assert.Nil(t, bye.Team2Player1ID)
}

func TestBuildRoundRobinAllPairs(t *testing.T) {
	first := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	matches := buildRoundRobin(3, playerIDs(4), first)

	require.Len(t, matches, 6, "n*(n-1)/2 pairs")

	type pair struct{ a, b uint }
	seen := map[pair]bool{}
	for i, m := range matches {
		require.NotNil(t, m.Team1Player1ID)
		require.NotNil(t, m.Team2Player1ID)
		a, b := *m.Team1Player1ID, *m.Team2Player1ID
		assert.NotEqual(t, a, b)
		if a > b {
			a, b = b, a
		}
		assert.False(t, seen[pair{a, b}], "no pair plays twice")
		seen[pair{a, b}] = true

		assert.Equal(t, first.Add(time.Duration(i)*time.Hour), m.ScheduledAt, "staggered start times")
		assert.Equal(t, MatchScheduled, m.Status)
	}
}

func TestBuildRoundRobinTwoPlayers(t *testing.T) {
	first := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	matches := buildRoundRobin(1, playerIDs(2), first)
	require.Len(t, matches, 1)
}
