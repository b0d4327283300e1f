package league

import (
	"sort"
)

// SortedPlayerIDs returns the roster's player IDs in ascending order
func (r Roster) SortedPlayerIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TeamOwners maps each team abbreviation to the players that hold it. A team held by more than
// one player is counted once per holder in every aggregate.
func (r Roster) TeamOwners() map[string][]string {
	owners := make(map[string][]string)
	for _, id := range r.SortedPlayerIDs() {
		for _, abbr := range r[id].Teams {
			owners[abbr] = append(owners[abbr], id)
		}
	}
	return owners
}

// playerTotals sums the records of a player's teams. Missing team records contribute nothing.
func playerTotals(player Player, teams map[string]TeamRecord) (wins, losses, ties int) {
	for _, abbr := range player.Teams {
		team, ok := teams[abbr]
		if !ok {
			continue
		}
		wins += team.Wins
		losses += team.Losses
		ties += team.Ties
	}
	return wins, losses, ties
}

// WinFraction returns wins/(wins+losses+ties), or 0 when no games were played
func WinFraction(wins, losses, ties int) float64 {
	total := wins + losses + ties
	if total <= 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// CalculateStandings aggregates each player's team records and ranks them on two boards.
//
// The wins board is ordered by total wins (fewer losses breaks ties), the losses board by total
// losses (more wins breaks ties). Remaining ties fall back to player ID so ranks are stable.
// Trends compare against the same board in previous; a nil previous marks everyone "same".
func CalculateStandings(roster Roster, teams map[string]TeamRecord, previous *Leaderboards) Leaderboards {
	base := make([]PlayerStanding, 0, len(roster))
	for _, id := range roster.SortedPlayerIDs() {
		player := roster[id]
		wins, losses, ties := playerTotals(player, teams)

		playerTeams := make([]string, len(player.Teams))
		copy(playerTeams, player.Teams)

		base = append(base, PlayerStanding{
			PlayerID:      id,
			PlayerName:    player.Name,
			TotalWins:     wins,
			TotalLosses:   losses,
			TotalTies:     ties,
			WinPercentage: WinFraction(wins, losses, ties),
			Teams:         playerTeams,
			Trend:         TrendSame,
			Achievements:  []string{},
		})
	}

	winsBoard := make([]PlayerStanding, len(base))
	copy(winsBoard, base)
	sort.SliceStable(winsBoard, func(i, j int) bool {
		a, b := winsBoard[i], winsBoard[j]
		if a.TotalWins != b.TotalWins {
			return a.TotalWins > b.TotalWins
		}
		if a.TotalLosses != b.TotalLosses {
			return a.TotalLosses < b.TotalLosses
		}
		return a.PlayerID < b.PlayerID
	})

	lossesBoard := make([]PlayerStanding, len(base))
	copy(lossesBoard, base)
	sort.SliceStable(lossesBoard, func(i, j int) bool {
		a, b := lossesBoard[i], lossesBoard[j]
		if a.TotalLosses != b.TotalLosses {
			return a.TotalLosses > b.TotalLosses
		}
		if a.TotalWins != b.TotalWins {
			return a.TotalWins > b.TotalWins
		}
		return a.PlayerID < b.PlayerID
	})

	var prevWins, prevLosses map[string]int
	if previous != nil {
		prevWins = rankIndex(previous.Wins)
		prevLosses = rankIndex(previous.Losses)
	}
	assignRanks(winsBoard, prevWins)
	assignRanks(lossesBoard, prevLosses)

	return Leaderboards{Wins: winsBoard, Losses: lossesBoard}
}

func rankIndex(board []PlayerStanding) map[string]int {
	ranks := make(map[string]int, len(board))
	for _, s := range board {
		if s.CurrentRank > 0 {
			ranks[s.PlayerID] = s.CurrentRank
		}
	}
	return ranks
}

func assignRanks(board []PlayerStanding, previous map[string]int) {
	for i := range board {
		board[i].CurrentRank = i + 1
		board[i].PreviousRank = 0
		board[i].Trend = TrendSame

		prev, ok := previous[board[i].PlayerID]
		if !ok {
			continue
		}
		board[i].PreviousRank = prev
		switch {
		case board[i].CurrentRank < prev:
			board[i].Trend = TrendUp
		case board[i].CurrentRank > prev:
			board[i].Trend = TrendDown
		}
	}
}

// Find returns the standing for playerID, if present
func Find(board []PlayerStanding, playerID string) (PlayerStanding, bool) {
	for _, s := range board {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return PlayerStanding{}, false
}
