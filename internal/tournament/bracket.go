package tournament

import (
	"fmt"
	"time"
)

// matchSlotStagger spaces generated matches on the schedule grid.
const matchSlotStagger = time.Hour

// buildKnockoutRound1 pairs consecutive participants into Round 1 matches. An
// odd leftover gets a bye: a match with an empty Team2, created Finished with
// Team1 as winner, so the player advances without playing.
func buildKnockoutRound1(tournamentID uint, players []uint, firstSlot time.Time) []Match {
	var matches []Match
	for i := 0; i+1 < len(players); i += 2 {
		p1, p2 := players[i], players[i+1]
		matches = append(matches, Match{
			TournamentID:   tournamentID,
			RoundName:      "Round 1",
			Team1Player1ID: &p1,
			Team2Player1ID: &p2,
			ScheduledAt:    firstSlot.Add(time.Duration(len(matches)) * matchSlotStagger),
			Status:         MatchScheduled,
		})
	}
	if len(players)%2 == 1 {
		bye := players[len(players)-1]
		winner := WinnerTeam1
		matches = append(matches, Match{
			TournamentID:   tournamentID,
			RoundName:      "Round 1",
			Team1Player1ID: &bye,
			Winner:         &winner,
			Details:        "Bye",
			ScheduledAt:    firstSlot.Add(time.Duration(len(matches)) * matchSlotStagger),
			Status:         MatchFinished,
		})
	}
	return matches
}

// buildRoundRobin generates one match for every unordered pair, staggered on
// the schedule grid in pair order.
func buildRoundRobin(tournamentID uint, players []uint, firstSlot time.Time) []Match {
	var matches []Match
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			p1, p2 := players[i], players[j]
			matches = append(matches, Match{
				TournamentID:   tournamentID,
				RoundName:      fmt.Sprintf("Group match %d", len(matches)+1),
				Team1Player1ID: &p1,
				Team2Player1ID: &p2,
				ScheduledAt:    firstSlot.Add(time.Duration(len(matches)) * matchSlotStagger),
				Status:         MatchScheduled,
			})
		}
	}
	return matches
}
