package league

import (
	"math"
)

// DefaultElo is the starting rating for every team
const DefaultElo = 1500.0

// CalculateElo returns the new rating after a single game. Playoff games move ratings faster.
func CalculateElo(current, opponent float64, won, playoffs bool) float64 {
	k := 32.0
	if playoffs {
		k = 40.0
	}
	expected := 1 / (1 + math.Pow(10, (opponent-current)/400))
	actual := 0.0
	if won {
		actual = 1
	}
	return math.Round(current + k*(actual-expected))
}

// StrengthOfSchedule averages the opponents' Elo ratings and normalizes against 1500, clamped to
// [0, 1]. An empty or unknown schedule is treated as average (0.5).
func StrengthOfSchedule(schedule []string, teams map[string]TeamRecord) float64 {
	var total float64
	var known int
	for _, opponent := range schedule {
		team, ok := teams[opponent]
		if !ok {
			continue
		}
		total += team.Elo
		known++
	}
	if known == 0 {
		return 0.5
	}
	return math.Max(0, math.Min(1, total/float64(known)/DefaultElo))
}

// CarryRatings seeds each team's Elo from a previous snapshot and applies the most recent game
// when it is newer than the one the previous snapshot already counted. Ties leave ratings alone.
func CarryRatings(teams, previous map[string]TeamRecord) {
	prevElo := func(abbr string) float64 {
		if p, ok := previous[abbr]; ok && p.Elo > 0 {
			return p.Elo
		}
		return DefaultElo
	}

	updated := make(map[string]TeamRecord, len(teams))
	for abbr, team := range teams {
		before := prevElo(abbr)
		team.PreviousElo = before
		team.Elo = before

		if game := team.LastGame; game != nil && game.Result != "T" {
			prev, seen := previous[abbr]
			alreadyCounted := seen && prev.LastGame != nil && prev.LastGame.Date == game.Date
			if !alreadyCounted {
				team.Elo = CalculateElo(before, prevElo(game.Opponent), game.Result == "W", false)
			} else {
				team.PreviousElo = prev.PreviousElo
			}
		}
		updated[abbr] = team
	}
	for abbr, team := range updated {
		teams[abbr] = team
	}
}
