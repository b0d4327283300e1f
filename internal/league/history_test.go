package league

import (
	"testing"
)

func TestBuildWeekHistory(t *testing.T) {
	teams := testTeams()
	kc := teams["KC"]
	kc.LastGame = &GameResult{Opponent: "BUF", Result: "W", Score: "27-24"}
	teams["KC"] = kc
	buf := teams["BUF"]
	buf.LastGame = &GameResult{Opponent: "KC", Result: "L", Score: "24-27"}
	teams["BUF"] = buf

	roster := testRoster()
	boards := CalculateStandings(roster, teams, nil)
	week := BuildWeekHistory(roster, teams, boards, "2025-10-09", "2025-10-13")

	if week.GamesCompleted != 1 {
		t.Errorf("Expected 1 completed game, got %d", week.GamesCompleted)
	}
	alice := week.PlayerStats["alice"]
	if alice.WeeklyWins != 1 || alice.WeeklyLosses != 1 {
		t.Errorf("Expected alice 1-1 for the week, got %d-%d", alice.WeeklyWins, alice.WeeklyLosses)
	}
	if alice.WinRank != 1 || alice.LossRank != 4 {
		t.Errorf("Expected alice ranks 1/4, got %d/%d", alice.WinRank, alice.LossRank)
	}
	if alice.Teams["KC"].Score != "27-24" {
		t.Errorf("Expected KC score recorded, got %+v", alice.Teams["KC"])
	}
	if len(week.Leaderboards.MostWins) != 4 || week.Leaderboards.MostWins[0].Player != "alice" {
		t.Errorf("Unexpected wins leaderboard %+v", week.Leaderboards.MostWins)
	}
	if week.Leaderboards.MostLosses[0].Player != "bob" || week.Leaderboards.MostLosses[0].Losses != 11 {
		t.Errorf("Unexpected losses leaderboard %+v", week.Leaderboards.MostLosses)
	}
}

func TestHistory_PreviousLeaderboardsFeedTrends(t *testing.T) {
	history := History{Weeks: map[string]WeekHistory{
		"3": {Leaderboards: WeekLeaderboards{
			MostWins:   []WinsEntry{{Player: "cara", Rank: 1}, {Player: "alice", Rank: 2}},
			MostLosses: []LossesEntry{{Player: "bob", Rank: 1}},
		}},
		"5":   {},
		"bad": {},
	}}

	prev, n, ok := history.LatestWeekBefore(5)
	if !ok || n != 3 {
		t.Fatalf("Expected week 3, got %d (%v)", n, ok)
	}
	if _, _, ok := history.LatestWeekBefore(3); ok {
		t.Error("Expected no week before 3")
	}

	boards := CalculateStandings(testRoster(), testTeams(), prev.PreviousLeaderboards())
	alice, _ := Find(boards.Wins, "alice")
	if alice.Trend != TrendUp || alice.PreviousRank != 2 {
		t.Errorf("Expected alice trending up from 2, got %s from %d", alice.Trend, alice.PreviousRank)
	}
	cara, _ := Find(boards.Wins, "cara")
	if cara.Trend != TrendDown {
		t.Errorf("Expected cara trending down, got %s", cara.Trend)
	}
	dan, _ := Find(boards.Wins, "dan")
	if dan.Trend != TrendSame || dan.PreviousRank != 0 {
		t.Errorf("Expected dan without a previous rank, got %s/%d", dan.Trend, dan.PreviousRank)
	}
}
