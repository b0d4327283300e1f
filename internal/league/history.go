package league

import (
	"sort"
	"strconv"
)

// BuildWeekHistory captures the league state for one week from the current team records and
// leaderboards. Each team's last game is taken as its result for the week.
func BuildWeekHistory(roster Roster, teams map[string]TeamRecord, boards Leaderboards, weekStart, weekEnd string) WeekHistory {
	week := WeekHistory{
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		PlayerStats: make(map[string]PlayerWeeklyStats, len(roster)),
		Leaderboards: WeekLeaderboards{
			MostWins:   make([]WinsEntry, 0, len(boards.Wins)),
			MostLosses: make([]LossesEntry, 0, len(boards.Losses)),
		},
	}

	winRank := rankIndex(boards.Wins)
	lossRank := rankIndex(boards.Losses)

	for _, id := range roster.SortedPlayerIDs() {
		player := roster[id]
		wins, losses, _ := playerTotals(player, teams)
		stats := PlayerWeeklyStats{
			TotalWins:   wins,
			TotalLosses: losses,
			WinRank:     winRank[id],
			LossRank:    lossRank[id],
			Teams:       make(map[string]TeamWeekResult, len(player.Teams)),
		}
		for _, abbr := range player.Teams {
			team, ok := teams[abbr]
			if !ok || team.LastGame == nil {
				continue
			}
			stats.Teams[abbr] = TeamWeekResult{Result: team.LastGame.Result, Score: team.LastGame.Score}
			switch team.LastGame.Result {
			case "W":
				stats.WeeklyWins++
			case "L":
				stats.WeeklyLosses++
			}
		}
		week.PlayerStats[id] = stats
	}

	played := 0
	for _, team := range teams {
		if team.LastGame != nil {
			played++
		}
	}
	week.GamesCompleted = played / 2

	for _, s := range boards.Wins {
		week.Leaderboards.MostWins = append(week.Leaderboards.MostWins, WinsEntry{Player: s.PlayerID, Wins: s.TotalWins, Rank: s.CurrentRank})
	}
	for _, s := range boards.Losses {
		week.Leaderboards.MostLosses = append(week.Leaderboards.MostLosses, LossesEntry{Player: s.PlayerID, Losses: s.TotalLosses, Rank: s.CurrentRank})
	}
	return week
}

// LatestWeekBefore returns the most recent recorded week strictly before week
func (h History) LatestWeekBefore(week int) (WeekHistory, int, bool) {
	nums := make([]int, 0, len(h.Weeks))
	for key := range h.Weeks {
		n, err := strconv.Atoi(key)
		if err != nil || n >= week {
			continue
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return WeekHistory{}, 0, false
	}
	sort.Ints(nums)
	n := nums[len(nums)-1]
	return h.Weeks[strconv.Itoa(n)], n, true
}

// PreviousLeaderboards rebuilds the rank-only leaderboards of a recorded week so they can feed
// CalculateStandings trends.
func (w WeekHistory) PreviousLeaderboards() *Leaderboards {
	boards := &Leaderboards{
		Wins:   make([]PlayerStanding, 0, len(w.Leaderboards.MostWins)),
		Losses: make([]PlayerStanding, 0, len(w.Leaderboards.MostLosses)),
	}
	for _, e := range w.Leaderboards.MostWins {
		boards.Wins = append(boards.Wins, PlayerStanding{PlayerID: e.Player, TotalWins: e.Wins, CurrentRank: e.Rank})
	}
	for _, e := range w.Leaderboards.MostLosses {
		boards.Losses = append(boards.Losses, PlayerStanding{PlayerID: e.Player, TotalLosses: e.Losses, CurrentRank: e.Rank})
	}
	return boards
}
