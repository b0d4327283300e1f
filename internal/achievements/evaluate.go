package achievements

import (
	"fmt"
	"sort"
	"time"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

// Thresholds for the rule-based achievements
const (
	fullRoster         = 4
	streakThreshold    = 5
	rivalryThreshold   = 2
	balancedFromWeek   = 4
	consistencyFrom    = 8
	comebackFromWeek   = 4
	topTeamWinFraction = 0.6
)

// PlayerAchievement records when and why a player earned an achievement
type PlayerAchievement struct {
	Achievement string `json:"achievement"`
	EarnedDate  string `json:"earnedDate"`
	Context     string `json:"context"`
}

type PlayerRecord struct {
	Total  int                 `json:"total"`
	Earned []PlayerAchievement `json:"earned"`
}

// Data is the persisted achievements document
type Data struct {
	LastCalculated     string                  `json:"lastCalculated"`
	Achievements       map[string]Achievement  `json:"achievements"`
	PlayerAchievements map[string]PlayerRecord `json:"playerAchievements"`
}

// Input is the league state achievements are evaluated against
type Input struct {
	Roster league.Roster
	Teams  map[string]league.TeamRecord
	Boards league.Leaderboards
	Week   int
}

type evaluation struct {
	players map[string]PlayerRecord
	date    string
}

func (e *evaluation) award(playerID, id, detail string) {
	rec, ok := e.players[playerID]
	if !ok {
		return
	}
	for _, earned := range rec.Earned {
		if earned.Achievement == id {
			return
		}
	}
	rec.Earned = append(rec.Earned, PlayerAchievement{Achievement: id, EarnedDate: e.date, Context: detail})
	e.players[playerID] = rec
}

// Evaluate awards every achievement whose rule currently holds.
//
// Achievements earned in previous are carried forward and never awarded twice, so evaluating the
// same state repeatedly yields the same data. Holder lists and totals are rebuilt from the earned
// lists. Players no longer on the roster are dropped.
func Evaluate(in Input, previous *Data, now time.Time) Data {
	e := &evaluation{
		players: make(map[string]PlayerRecord, len(in.Roster)),
		date:    now.UTC().Format("2006-01-02"),
	}
	ids := in.Roster.SortedPlayerIDs()
	for _, id := range ids {
		rec := PlayerRecord{Earned: []PlayerAchievement{}}
		if previous != nil {
			if prev, ok := previous.PlayerAchievements[id]; ok {
				rec.Earned = append(rec.Earned, prev.Earned...)
			}
		}
		e.players[id] = rec
	}

	for _, id := range ids {
		standing, ok := league.Find(in.Boards.Wins, id)
		if !ok {
			continue
		}
		evaluatePlayer(e, id, in.Roster[id], standing, in)
	}

	if len(in.Boards.Wins) > 0 && len(in.Boards.Losses) > 0 {
		leader := in.Boards.Wins[0].PlayerID
		if leader == in.Boards.Losses[0].PlayerID {
			e.award(leader, Domination, "Leading both wins and losses competitions")
		}
	}

	if in.Week >= comebackFromWeek {
		for _, s := range in.Boards.Wins {
			if s.Trend == league.TrendUp && s.CurrentRank == 1 {
				e.award(s.PlayerID, ComebackKid, fmt.Sprintf("Rose to 1st place in week %d", in.Week))
			}
		}
	}

	return finish(e.players, now)
}

func evaluatePlayer(e *evaluation, id string, player league.Player, standing league.PlayerStanding, in Input) {
	var teams []league.TeamRecord
	for _, abbr := range player.Teams {
		if team, ok := in.Teams[abbr]; ok {
			if team.Abbreviation == "" {
				team.Abbreviation = abbr
			}
			teams = append(teams, team)
		}
	}

	if standing.TotalWins >= 1 {
		e.award(id, FirstWin, fmt.Sprintf("First win achieved with %d total wins", standing.TotalWins))
	}

	if in.Week >= 1 && len(teams) == fullRoster {
		if allLastGames(teams, "W") {
			e.award(id, PerfectWeek, fmt.Sprintf("All 4 teams won in week %d", in.Week))
		}
		if allLastGames(teams, "L") {
			e.award(id, DisasterWeek, fmt.Sprintf("All 4 teams lost in week %d", in.Week))
		}
	}

	if in.Week >= 1 && standing.CurrentRank == 1 {
		e.award(id, EarlyLeader, fmt.Sprintf("Leading wins competition after week %d", in.Week))
	}

	var streakWins, streakLosses, rivalryWins int
	for _, team := range teams {
		if team.LastGame == nil {
			continue
		}
		switch team.LastGame.Result {
		case "W":
			streakWins += team.Wins
			if league.IsDivisionalRival(team.Abbreviation, team.LastGame.Opponent) {
				rivalryWins++
			}
		case "L":
			streakLosses += team.Losses
		}
	}
	if streakWins >= streakThreshold {
		e.award(id, WinStreak, fmt.Sprintf("%d total wins indicating strong performance", streakWins))
	}
	if streakLosses >= streakThreshold {
		e.award(id, LossStreak, fmt.Sprintf("%d total losses and counting", streakLosses))
	}
	if rivalryWins >= rivalryThreshold {
		e.award(id, RivalryMaster, fmt.Sprintf("%d divisional rivalry victories", rivalryWins))
	}

	if in.Week >= balancedFromWeek && len(teams) > 0 && balanced(teams) {
		e.award(id, BalancedPortfolio, "All teams have both wins and losses")
	}

	if in.Week >= consistencyFrom && standing.WinPercentage >= 0.4 && standing.WinPercentage <= 0.6 {
		e.award(id, ConsistencyKing, fmt.Sprintf("Maintained %.1f%% win rate", standing.WinPercentage*100))
	}

	if detail, ok := underdogWin(teams, in.Teams); ok {
		e.award(id, UnderdogVictory, detail)
	}
}

func allLastGames(teams []league.TeamRecord, result string) bool {
	for _, team := range teams {
		if team.LastGame == nil || team.LastGame.Result != result {
			return false
		}
	}
	return true
}

func balanced(teams []league.TeamRecord) bool {
	for _, team := range teams {
		if team.Wins < 1 || team.Losses < 1 {
			return false
		}
	}
	return true
}

// underdogWin reports whether the player's worst team won its last game against an opponent
// winning at least 60% of its games.
func underdogWin(teams []league.TeamRecord, all map[string]league.TeamRecord) (string, bool) {
	worst := -1
	for i, team := range teams {
		if team.GamesPlayed() == 0 {
			continue
		}
		if worst < 0 || league.WinFraction(team.Wins, team.Losses, team.Ties) < league.WinFraction(teams[worst].Wins, teams[worst].Losses, teams[worst].Ties) {
			worst = i
		}
	}
	if worst < 0 {
		return "", false
	}
	team := teams[worst]
	if team.LastGame == nil || team.LastGame.Result != "W" {
		return "", false
	}
	opp, ok := all[team.LastGame.Opponent]
	if !ok || opp.GamesPlayed() == 0 || league.WinFraction(opp.Wins, opp.Losses, opp.Ties) < topTeamWinFraction {
		return "", false
	}
	return fmt.Sprintf("%s (%d-%d) beat %s (%d-%d)", team.Abbreviation, team.Wins, team.Losses, team.LastGame.Opponent, opp.Wins, opp.Losses), true
}

func finish(players map[string]PlayerRecord, now time.Time) Data {
	data := Data{
		LastCalculated:     now.UTC().Format(time.RFC3339),
		Achievements:       Catalogue(),
		PlayerAchievements: players,
	}
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := players[id]
		rec.Total = len(rec.Earned)
		players[id] = rec
		for _, earned := range rec.Earned {
			def, ok := data.Achievements[earned.Achievement]
			if !ok {
				continue
			}
			def.Holders = append(def.Holders, id)
			data.Achievements[earned.Achievement] = def
		}
	}
	return data
}

// Annotate fills each standing's Achievements with the IDs the player has earned
func Annotate(boards *league.Leaderboards, data Data) {
	for _, board := range [][]league.PlayerStanding{boards.Wins, boards.Losses} {
		for i := range board {
			earned := data.PlayerAchievements[board[i].PlayerID].Earned
			ids := make([]string, 0, len(earned))
			for _, a := range earned {
				ids = append(ids, a.Achievement)
			}
			board[i].Achievements = ids
		}
	}
}

// Summary is a player's achievement counts by rarity plus the most recent badges
type Summary struct {
	Total    int                 `json:"total"`
	ByRarity map[string]int      `json:"byRarity"`
	Recent   []PlayerAchievement `json:"recent"`
}

// Summarize returns the summary for playerID; unknown players get an empty summary
func Summarize(playerID string, data Data) Summary {
	s := Summary{ByRarity: map[string]int{}, Recent: []PlayerAchievement{}}
	rec, ok := data.PlayerAchievements[playerID]
	if !ok {
		return s
	}
	for _, r := range Rarities {
		s.ByRarity[r] = 0
	}
	for _, earned := range rec.Earned {
		if def, ok := data.Achievements[earned.Achievement]; ok {
			s.ByRarity[def.Rarity]++
		}
	}

	recent := make([]PlayerAchievement, len(rec.Earned))
	copy(recent, rec.Earned)
	// later entries were earned later, so reverse before the stable date sort
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].EarnedDate > recent[j].EarnedDate })
	if len(recent) > 3 {
		recent = recent[:3]
	}
	s.Total = len(rec.Earned)
	s.Recent = recent
	return s
}
