package league

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// SeasonWeeks is the length of the NFL regular season
	SeasonWeeks = 18
	// DefaultSimulations is the number of trials run when none is requested
	DefaultSimulations = 1000
)

// RandSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// WinProbabilityFunc returns the chance that a team wins any one of its remaining games
type WinProbabilityFunc func(team TeamRecord) float64

// WinFractionProbability uses the team's current win fraction. Teams without a game played get 0.5.
func WinFractionProbability(team TeamRecord) float64 {
	if team.GamesPlayed() == 0 {
		return 0.5
	}
	return clampProbability(WinFraction(team.Wins, team.Losses, team.Ties))
}

// EloWinProbability rates a team against a league-average 1500 opponent
func EloWinProbability(team TeamRecord) float64 {
	if team.Elo <= 0 {
		return 0.5
	}
	return clampProbability(team.Elo / (team.Elo + 1500))
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return 0.5
	}
	return math.Max(0, math.Min(1, p))
}

// ProjectionOptions configures a Monte Carlo season projection
type ProjectionOptions struct {
	CurrentWeek    int
	SeasonWeeks    int
	Simulations    int
	Rand           RandSource
	WinProbability WinProbabilityFunc
}

func (o ProjectionOptions) withDefaults() ProjectionOptions {
	if o.SeasonWeeks <= 0 {
		o.SeasonWeeks = SeasonWeeks
	}
	if o.Simulations <= 0 {
		o.Simulations = DefaultSimulations
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.WinProbability == nil {
		o.WinProbability = WinFractionProbability
	}
	return o
}

// RemainingWeeks returns the regular-season weeks left after currentWeek, never negative
func RemainingWeeks(seasonWeeks, currentWeek int) int {
	if remaining := seasonWeeks - currentWeek; remaining > 0 {
		return remaining
	}
	return 0
}

type simTeam struct {
	wins, losses int
	p            float64
}

type simPlayer struct {
	id    string
	teams []simTeam

	wins, losses int // totals for the trial in progress

	winsFirst, winsTop3     int
	lossesFirst, lossesTop3 int
	winSamples              []float64
	lossSamples             []float64
}

// Project simulates the rest of the regular season and returns a ProbabilityModel per player.
//
// Every remaining week each team wins with the fixed probability returned by
// opts.WinProbability; opponents and schedule are not modelled. Each trial ranks all players by
// simulated wins and by simulated losses; equal totals are ordered by player ID, so exactly one
// player takes first place in each trial.
func Project(roster Roster, teams map[string]TeamRecord, opts ProjectionOptions) map[string]ProbabilityModel {
	opts = opts.withDefaults()
	remaining := RemainingWeeks(opts.SeasonWeeks, opts.CurrentWeek)

	ids := roster.SortedPlayerIDs()
	players := make([]*simPlayer, 0, len(ids))
	for _, id := range ids {
		sp := &simPlayer{
			id:          id,
			winSamples:  make([]float64, 0, opts.Simulations),
			lossSamples: make([]float64, 0, opts.Simulations),
		}
		for _, abbr := range roster[id].Teams {
			team, ok := teams[abbr]
			if !ok {
				continue
			}
			sp.teams = append(sp.teams, simTeam{
				wins:   team.Wins,
				losses: team.Losses,
				p:      clampProbability(opts.WinProbability(team)),
			})
		}
		players = append(players, sp)
	}

	byWins := make([]*simPlayer, len(players))
	byLosses := make([]*simPlayer, len(players))

	for trial := 0; trial < opts.Simulations; trial++ {
		for _, sp := range players {
			sp.wins, sp.losses = 0, 0
			for _, team := range sp.teams {
				sp.wins += team.wins
				sp.losses += team.losses
				for w := 0; w < remaining; w++ {
					if opts.Rand.Float64() < team.p {
						sp.wins++
					} else {
						sp.losses++
					}
				}
			}
			sp.winSamples = append(sp.winSamples, float64(sp.wins))
			sp.lossSamples = append(sp.lossSamples, float64(sp.losses))
		}

		copy(byWins, players)
		sort.SliceStable(byWins, func(i, j int) bool { return byWins[i].wins > byWins[j].wins })
		copy(byLosses, players)
		sort.SliceStable(byLosses, func(i, j int) bool { return byLosses[i].losses > byLosses[j].losses })

		for rank, sp := range byWins {
			if rank == 0 {
				sp.winsFirst++
			}
			if rank < 3 {
				sp.winsTop3++
			}
		}
		for rank, sp := range byLosses {
			if rank == 0 {
				sp.lossesFirst++
			}
			if rank < 3 {
				sp.lossesTop3++
			}
		}
	}

	current := CalculateStandings(roster, teams, nil)
	var leaderWins, leaderLosses int
	if len(current.Wins) > 0 {
		leaderWins = current.Wins[0].TotalWins
	}
	if len(current.Losses) > 0 {
		leaderLosses = current.Losses[0].TotalLosses
	}

	trials := float64(opts.Simulations)
	results := make(map[string]ProbabilityModel, len(players))
	for _, sp := range players {
		winRank, lossRank := currentRanks(current, sp.id)
		maxWins := floats.Max(sp.winSamples)
		maxLosses := floats.Max(sp.lossSamples)

		results[sp.id] = ProbabilityModel{
			Player:      roster[sp.id].Name,
			Simulations: opts.Simulations,
			WinsCompetition: CompetitionOdds{
				CurrentRank:        winRank,
				ProbabilityToWin:   float64(sp.winsFirst) / trials,
				ProbabilityTop3:    float64(sp.winsTop3) / trials,
				ExpectedFinal:      stat.Mean(sp.winSamples, nil),
				ConfidenceInterval: [2]int{int(floats.Min(sp.winSamples)), int(maxWins)},
			},
			LossesCompetition: CompetitionOdds{
				CurrentRank:        lossRank,
				ProbabilityToWin:   float64(sp.lossesFirst) / trials,
				ProbabilityTop3:    float64(sp.lossesTop3) / trials,
				ExpectedFinal:      stat.Mean(sp.lossSamples, nil),
				ConfidenceInterval: [2]int{int(floats.Min(sp.lossSamples)), int(maxLosses)},
			},
			MagicNumbers: MagicNumbers{
				WinsToGuaranteeWinsTitle:     magicNumber(int(maxWins), leaderWins),
				LossesToGuaranteeLossesTitle: magicNumber(int(maxLosses), leaderLosses),
			},
		}
	}

	return results
}

// magicNumber is the best simulated total beyond the current leader's actual total, plus one
func magicNumber(bestSimulated, leaderActual int) int {
	if n := bestSimulated - leaderActual + 1; n > 0 {
		return n
	}
	return 0
}

func currentRanks(boards Leaderboards, playerID string) (winRank, lossRank int) {
	if s, ok := Find(boards.Wins, playerID); ok {
		winRank = s.CurrentRank
	}
	if s, ok := Find(boards.Losses, playerID); ok {
		lossRank = s.CurrentRank
	}
	return winRank, lossRank
}

// UniformProjection is the fallback used when a projection cannot be produced. Every player is
// given an equal chance and their current totals as the expected finish.
func UniformProjection(roster Roster, teams map[string]TeamRecord, simulations int) map[string]ProbabilityModel {
	n := len(roster)
	results := make(map[string]ProbabilityModel, n)
	if n == 0 {
		return results
	}

	first := 1 / float64(n)
	top3 := math.Min(3, float64(n)) / float64(n)
	current := CalculateStandings(roster, teams, nil)

	for _, id := range roster.SortedPlayerIDs() {
		winRank, lossRank := currentRanks(current, id)
		wins, losses, _ := playerTotals(roster[id], teams)
		results[id] = ProbabilityModel{
			Player:      roster[id].Name,
			Simulations: simulations,
			WinsCompetition: CompetitionOdds{
				CurrentRank:        winRank,
				ProbabilityToWin:   first,
				ProbabilityTop3:    top3,
				ExpectedFinal:      float64(wins),
				ConfidenceInterval: [2]int{wins, wins},
			},
			LossesCompetition: CompetitionOdds{
				CurrentRank:        lossRank,
				ProbabilityToWin:   first,
				ProbabilityTop3:    top3,
				ExpectedFinal:      float64(losses),
				ConfidenceInterval: [2]int{losses, losses},
			},
		}
	}
	return results
}
