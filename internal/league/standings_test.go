package league

import (
	"testing"
)

func testTeams() map[string]TeamRecord {
	return map[string]TeamRecord{
		"KC":  {Abbreviation: "KC", Name: "Kansas City Chiefs", Wins: 6, Losses: 1},
		"BUF": {Abbreviation: "BUF", Name: "Buffalo Bills", Wins: 5, Losses: 2},
		"NYJ": {Abbreviation: "NYJ", Name: "New York Jets", Wins: 2, Losses: 5},
		"CAR": {Abbreviation: "CAR", Name: "Carolina Panthers", Wins: 1, Losses: 6},
		"DAL": {Abbreviation: "DAL", Name: "Dallas Cowboys", Wins: 3, Losses: 3, Ties: 1},
		"PHI": {Abbreviation: "PHI", Name: "Philadelphia Eagles", Wins: 5, Losses: 1},
		"NE":  {Abbreviation: "NE", Name: "New England Patriots", Wins: 1, Losses: 5},
		"DET": {Abbreviation: "DET", Name: "Detroit Lions", Wins: 5, Losses: 1},
	}
}

func testRoster() Roster {
	return Roster{
		"alice": {ID: "alice", Name: "Alice", Teams: []string{"KC", "BUF"}},
		"bob":   {ID: "bob", Name: "Bob", Teams: []string{"NYJ", "CAR"}},
		"cara":  {ID: "cara", Name: "Cara", Teams: []string{"DAL", "PHI"}},
		"dan":   {ID: "dan", Name: "Dan", Teams: []string{"NE", "DET"}},
	}
}

func TestCalculateStandings_Ordering(t *testing.T) {
	boards := CalculateStandings(testRoster(), testTeams(), nil)

	wantWins := []string{"alice", "cara", "dan", "bob"}
	for i, id := range wantWins {
		if boards.Wins[i].PlayerID != id {
			t.Errorf("Expected wins board position %d to be %s, got %s", i+1, id, boards.Wins[i].PlayerID)
		}
	}

	// bob 11 losses, dan 6 losses (6 wins), cara 4 losses, alice 3 losses
	wantLosses := []string{"bob", "dan", "cara", "alice"}
	for i, id := range wantLosses {
		if boards.Losses[i].PlayerID != id {
			t.Errorf("Expected losses board position %d to be %s, got %s", i+1, id, boards.Losses[i].PlayerID)
		}
	}

	alice := boards.Wins[0]
	if alice.TotalWins != 11 || alice.TotalLosses != 3 {
		t.Errorf("Expected alice 11-3, got %d-%d", alice.TotalWins, alice.TotalLosses)
	}
	cara, _ := Find(boards.Wins, "cara")
	if cara.TotalTies != 1 {
		t.Errorf("Expected cara to carry 1 tie, got %d", cara.TotalTies)
	}
	if got, want := cara.WinPercentage, 8.0/13.0; got != want {
		t.Errorf("Expected cara win percentage %f, got %f", want, got)
	}
}

func TestCalculateStandings_TieBreaks(t *testing.T) {
	teams := map[string]TeamRecord{
		"A": {Wins: 5, Losses: 2},
		"B": {Wins: 5, Losses: 1},
		"C": {Wins: 2, Losses: 5},
		"D": {Wins: 4, Losses: 5},
	}
	roster := Roster{
		"p1": {Name: "One", Teams: []string{"A"}},
		"p2": {Name: "Two", Teams: []string{"B"}},
		"p3": {Name: "Three", Teams: []string{"C"}},
		"p4": {Name: "Four", Teams: []string{"D"}},
	}

	boards := CalculateStandings(roster, teams, nil)

	if boards.Wins[0].PlayerID != "p2" {
		t.Errorf("Expected fewer losses to break the wins tie in favour of p2, got %s", boards.Wins[0].PlayerID)
	}
	if boards.Losses[0].PlayerID != "p4" {
		t.Errorf("Expected more wins to break the losses tie in favour of p4, got %s", boards.Losses[0].PlayerID)
	}
}

func TestCalculateStandings_RanksArePermutation(t *testing.T) {
	boards := CalculateStandings(testRoster(), testTeams(), nil)

	for name, board := range map[string][]PlayerStanding{"wins": boards.Wins, "losses": boards.Losses} {
		seen := make(map[int]bool)
		for _, s := range board {
			if s.CurrentRank < 1 || s.CurrentRank > len(board) {
				t.Errorf("%s board: rank %d out of range", name, s.CurrentRank)
			}
			if seen[s.CurrentRank] {
				t.Errorf("%s board: duplicate rank %d", name, s.CurrentRank)
			}
			seen[s.CurrentRank] = true
		}
		if len(seen) != len(board) {
			t.Errorf("%s board: expected %d distinct ranks, got %d", name, len(board), len(seen))
		}
	}
}

func TestCalculateStandings_SumOfWins(t *testing.T) {
	teams := testTeams()
	roster := testRoster()
	// share KC between two players; it is counted once per holder
	shared := roster["bob"]
	shared.Teams = append(shared.Teams, "KC")
	roster["bob"] = shared

	boards := CalculateStandings(roster, teams, nil)

	var boardTotal, teamTotal int
	for _, s := range boards.Wins {
		boardTotal += s.TotalWins
	}
	for abbr, owners := range roster.TeamOwners() {
		teamTotal += teams[abbr].Wins * len(owners)
	}
	if boardTotal != teamTotal {
		t.Errorf("Expected aggregate wins %d, got %d", teamTotal, boardTotal)
	}
	if owners := roster.TeamOwners()["KC"]; len(owners) != 2 {
		t.Errorf("Expected KC to be held by 2 players, got %v", owners)
	}
}

func TestCalculateStandings_MissingTeamsAndEmptyRoster(t *testing.T) {
	roster := Roster{
		"ghost": {Name: "Ghost", Teams: []string{"XXX", "YYY"}},
		"empty": {Name: "Empty"},
		"alice": {Name: "Alice", Teams: []string{"KC", "ZZZ"}},
	}

	boards := CalculateStandings(roster, testTeams(), nil)

	for _, s := range boards.Wins {
		if s.WinPercentage < 0 || s.WinPercentage > 1 {
			t.Errorf("Expected win percentage in [0,1] for %s, got %f", s.PlayerID, s.WinPercentage)
		}
		if s.PlayerID != "alice" {
			if s.TotalWins != 0 || s.TotalLosses != 0 || s.WinPercentage != 0 {
				t.Errorf("Expected %s to have no record, got %d-%d (%f)", s.PlayerID, s.TotalWins, s.TotalLosses, s.WinPercentage)
			}
		}
		if s.Trend != TrendSame {
			t.Errorf("Expected trend 'same' without a previous snapshot, got %s", s.Trend)
		}
	}

	alice, _ := Find(boards.Wins, "alice")
	if alice.TotalWins != 6 || alice.TotalLosses != 1 {
		t.Errorf("Expected alice to count only KC (6-1), got %d-%d", alice.TotalWins, alice.TotalLosses)
	}
}

func TestCalculateStandings_Trends(t *testing.T) {
	previous := &Leaderboards{
		Wins: []PlayerStanding{
			{PlayerID: "bob", CurrentRank: 1},
			{PlayerID: "alice", CurrentRank: 2},
			{PlayerID: "cara", CurrentRank: 2},
		},
		Losses: []PlayerStanding{
			{PlayerID: "bob", CurrentRank: 1},
		},
	}

	boards := CalculateStandings(testRoster(), testTeams(), previous)

	tests := []struct {
		board    []PlayerStanding
		playerID string
		want     string
		wantPrev int
	}{
		{boards.Wins, "alice", TrendUp, 2},
		{boards.Wins, "bob", TrendDown, 1},
		{boards.Wins, "cara", TrendSame, 2},
		{boards.Wins, "dan", TrendSame, 0},
		{boards.Losses, "bob", TrendSame, 1},
		{boards.Losses, "alice", TrendSame, 0},
	}

	for _, tt := range tests {
		s, ok := Find(tt.board, tt.playerID)
		if !ok {
			t.Fatalf("Expected to find %s", tt.playerID)
		}
		if s.Trend != tt.want {
			t.Errorf("%s: expected trend %s, got %s", tt.playerID, tt.want, s.Trend)
		}
		if s.PreviousRank != tt.wantPrev {
			t.Errorf("%s: expected previous rank %d, got %d", tt.playerID, tt.wantPrev, s.PreviousRank)
		}
	}
}

func TestWinFraction(t *testing.T) {
	tests := []struct {
		wins, losses, ties int
		want               float64
	}{
		{0, 0, 0, 0},
		{3, 1, 0, 0.75},
		{1, 1, 2, 0.25},
		{0, 4, 0, 0},
		{5, 0, 0, 1},
	}
	for _, tt := range tests {
		if got := WinFraction(tt.wins, tt.losses, tt.ties); got != tt.want {
			t.Errorf("WinFraction(%d, %d, %d) = %f, want %f", tt.wins, tt.losses, tt.ties, got, tt.want)
		}
	}
}
