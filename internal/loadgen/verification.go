package loadgen

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults cross-checks per-user standings against the leaderboard.
func verifyResults(config *Config, standings, leaderboard []Entry) error {
	log.Println("verifying results...")

	if len(standings) == 0 {
		return fmt.Errorf("no standings to verify")
	}

	sorted := make([]Entry, len(standings))
	copy(sorted, standings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints > sorted[j].TotalPoints
	})

	if len(leaderboard) > 0 {
		if err := verifyLeaderboardConsistency(sorted, leaderboard); err != nil {
			log.Printf("leaderboard consistency warning: %v", err)
		} else {
			log.Println("leaderboard consistency verified")
		}
	}

	displayTopUsers(sorted, leaderboard, config.Verbose)

	log.Println("result verification completed")
	return nil
}

// verifyLeaderboardConsistency checks the leaderboard against the top of the
// per-user standings.
func verifyLeaderboardConsistency(sorted, leaderboard []Entry) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	topStanding := sorted[0]
	topBoard := leaderboard[0]

	if topStanding.UserID != topBoard.UserID {
		return fmt.Errorf("top leaderboard entry (%s) does not match top standing user (%s)",
			topBoard.UserID, topStanding.UserID)
	}

	if topStanding.TotalPoints != topBoard.TotalPoints {
		return fmt.Errorf("top leaderboard points (%.1f) do not match top standing points (%.1f)",
			topBoard.TotalPoints, topStanding.TotalPoints)
	}

	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].TotalPoints > leaderboard[i-1].TotalPoints {
			return fmt.Errorf("leaderboard not properly sorted: entry %d outranks entry %d",
				i, i-1)
		}
	}

	return nil
}

// displayTopUsers shows the strongest users from standings and leaderboard.
func displayTopUsers(sorted, leaderboard []Entry, verbose bool) {
	topN := 10
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("top %d users by standing:", topN)
	for i := 0; i < topN; i++ {
		entry := sorted[i]
		log.Printf("   %d. %s - %.0f points (%s)", i+1, entry.UserID, entry.TotalPoints, entry.Tier)
	}

	if len(leaderboard) > 0 {
		boardTopN := topN
		if len(leaderboard) < boardTopN {
			boardTopN = len(leaderboard)
		}

		log.Printf("top %d users from leaderboard:", boardTopN)
		for i := 0; i < boardTopN; i++ {
			entry := leaderboard[i]
			log.Printf("   %d. %s - %.0f points (%s)", i+1, entry.UserID, entry.TotalPoints, entry.Tier)
		}
	}

	if verbose && len(sorted) > 0 {
		log.Printf(`points statistics:
   Average: %.1f
   Maximum: %.1f
   Minimum: %.1f
`, averagePoints(sorted), sorted[0].TotalPoints, sorted[len(sorted)-1].TotalPoints)
	}
}

// averagePoints computes the mean total points across standings.
func averagePoints(standings []Entry) float64 {
	if len(standings) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range standings {
		sum += entry.TotalPoints
	}

	return sum / float64(len(standings))
}
