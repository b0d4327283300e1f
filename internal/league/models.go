package league

// Player represents a league member and the NFL teams they drafted for the season
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Teams    []string `json:"teams"`
	JoinDate string   `json:"joinDate,omitempty"`
}

// Roster maps player IDs to players
type Roster map[string]Player

// GameResult describes a team's most recently completed game
type GameResult struct {
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	Result   string `json:"result"` // "W", "L" or "T"
	Score    string `json:"score"`
	WasHome  bool   `json:"wasHome"`
}

// UpcomingGame describes a team's next scheduled game
type UpcomingGame struct {
	Date     string   `json:"date"`
	Opponent string   `json:"opponent"`
	IsHome   bool     `json:"isHome"`
	Odds     *float64 `json:"odds,omitempty"`
}

// TeamRecord represents an NFL team's season record as reported by the sports data provider
type TeamRecord struct {
	Abbreviation       string        `json:"abbreviation"`
	Name               string        `json:"name"`
	Wins               int           `json:"wins"`
	Losses             int           `json:"losses"`
	Ties               int           `json:"ties"`
	WinPct             float64       `json:"winPct"`
	Elo                float64       `json:"elo"`
	PreviousElo        float64       `json:"previousElo"`
	LastGame           *GameResult   `json:"lastGame,omitempty"`
	NextGame           *UpcomingGame `json:"nextGame,omitempty"`
	RemainingSchedule  []string      `json:"remainingSchedule"`
	StrengthOfSchedule float64       `json:"strengthOfSchedule"`
}

// GamesPlayed returns wins + losses + ties
func (t TeamRecord) GamesPlayed() int {
	return t.Wins + t.Losses + t.Ties
}

// Trend values for PlayerStanding.Trend
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendSame = "same"
)

// PlayerStanding is a player's aggregate record and position within one leaderboard
type PlayerStanding struct {
	PlayerID      string   `json:"playerId"`
	PlayerName    string   `json:"playerName"`
	TotalWins     int      `json:"totalWins"`
	TotalLosses   int      `json:"totalLosses"`
	TotalTies     int      `json:"totalTies"`
	WinPercentage float64  `json:"winPercentage"`
	Teams         []string `json:"teams"`
	Trend         string   `json:"trend"`
	PreviousRank  int      `json:"previousRank,omitempty"` // 0 when there is no previous snapshot
	CurrentRank   int      `json:"currentRank"`
	Achievements  []string `json:"achievements"`
}

// Leaderboards holds the two independently ranked standings
type Leaderboards struct {
	Wins   []PlayerStanding `json:"winsLeaderboard"`
	Losses []PlayerStanding `json:"lossesLeaderboard"`
}

// CompetitionOdds summarizes simulated outcomes for one competition (most wins or most losses)
type CompetitionOdds struct {
	CurrentRank      int     `json:"currentRank"`
	ProbabilityToWin float64 `json:"probabilityToWin"`
	ProbabilityTop3  float64 `json:"probabilityTop3"`
	ExpectedFinal    float64 `json:"expectedFinal"`
	// ConfidenceInterval is the [min, max] of the simulated totals, not a percentile band.
	ConfidenceInterval [2]int `json:"confidenceInterval"`
}

// MagicNumbers holds the additional results a player needs to clinch each title
type MagicNumbers struct {
	WinsToGuaranteeWinsTitle     int `json:"winsToGuaranteeWinsTitle"`
	LossesToGuaranteeLossesTitle int `json:"lossesToGuaranteeLossesTitle"`
}

// ProbabilityModel is the projected season outcome for a single player
type ProbabilityModel struct {
	Player            string          `json:"player"`
	Simulations       int             `json:"simulations"`
	WinsCompetition   CompetitionOdds `json:"winsCompetition"`
	LossesCompetition CompetitionOdds `json:"lossesCompetition"`
	MagicNumbers      MagicNumbers    `json:"magicNumbers"`
}

// Results is a point-in-time snapshot of every NFL team's record
type Results struct {
	LastUpdated     string                `json:"lastUpdated"`
	CurrentWeek     int                   `json:"currentWeek"`
	GamesInProgress []string              `json:"gamesInProgress"`
	NextUpdate      string                `json:"nextUpdate"`
	Teams           map[string]TeamRecord `json:"teams"`
	IsLiveData      bool                  `json:"isLiveData"`
}

// TeamWeekResult is the outcome of one drafted team's game in a given week
type TeamWeekResult struct {
	Result string `json:"result"`
	Score  string `json:"score"`
}

// PlayerWeeklyStats is a player's line in a weekly history snapshot
type PlayerWeeklyStats struct {
	TotalWins    int                       `json:"totalWins"`
	TotalLosses  int                       `json:"totalLosses"`
	WeeklyWins   int                       `json:"weeklyWins"`
	WeeklyLosses int                       `json:"weeklyLosses"`
	WinRank      int                       `json:"winRank"`
	LossRank     int                       `json:"lossRank"`
	Teams        map[string]TeamWeekResult `json:"teams"`
}

type WinsEntry struct {
	Player string `json:"player"`
	Wins   int    `json:"wins"`
	Rank   int    `json:"rank"`
}

type LossesEntry struct {
	Player string `json:"player"`
	Losses int    `json:"losses"`
	Rank   int    `json:"rank"`
}

type WeekLeaderboards struct {
	MostWins   []WinsEntry   `json:"mostWins"`
	MostLosses []LossesEntry `json:"mostLosses"`
}

// WeekHistory records the state of the league at the end of a week
type WeekHistory struct {
	WeekStart      string                       `json:"weekStart"`
	WeekEnd        string                       `json:"weekEnd"`
	GamesCompleted int                          `json:"gamesCompleted"`
	PlayerStats    map[string]PlayerWeeklyStats `json:"playerStats"`
	Leaderboards   WeekLeaderboards             `json:"leaderboards"`
}

// History is the season's weekly snapshots keyed by week number
type History struct {
	SeasonStart string                 `json:"seasonStart"`
	Weeks       map[string]WeekHistory `json:"weeks"`
}
