package espn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

var errRecordFormat = errors.New("expected W-L or W-L-T")

// ParsedScoreboard is the validated content of a scoreboard response
type ParsedScoreboard struct {
	Week            int
	Teams           map[string]league.TeamRecord
	GamesInProgress []string
}

// ParseRecord parses a record summary such as "5-2" or "4-2-1"
func ParseRecord(summary string) (wins, losses, ties int, err error) {
	parts := strings.Split(strings.TrimSpace(summary), "-")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, errRecordFormat
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, 0, 0, errRecordFormat
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

func overallSummary(c Competitor) string {
	for _, r := range c.Records {
		if r.Type == "total" || r.Name == "overall" || r.Name == "All Splits" {
			return r.Summary
		}
	}
	if len(c.Records) > 0 {
		return c.Records[0].Summary
	}
	return "0-0"
}

// ParseScoreboard turns a scoreboard into team records. Competitors without an abbreviation or
// with a malformed record are skipped and reported as *ParseError values.
func ParseScoreboard(sb *Scoreboard) (ParsedScoreboard, []error) {
	parsed := ParsedScoreboard{
		Week:            sb.Week.Number,
		Teams:           make(map[string]league.TeamRecord),
		GamesInProgress: []string{},
	}
	if parsed.Week <= 0 {
		parsed.Week = 1
	}

	var errs []error
	for _, event := range sb.Events {
		if len(event.Competitions) == 0 {
			continue
		}
		comp := event.Competitions[0]
		if comp.Status.Type.State == "in" {
			name := event.ShortName
			if name == "" {
				name = event.Name
			}
			parsed.GamesInProgress = append(parsed.GamesInProgress, name)
		}

		for i, competitor := range comp.Competitors {
			abbr := strings.ToUpper(strings.TrimSpace(competitor.Team.Abbreviation))
			if abbr == "" {
				errs = append(errs, &ParseError{Team: competitor.Team.ID, Field: "abbreviation", Err: errors.New("missing")})
				continue
			}
			summary := overallSummary(competitor)
			wins, losses, ties, err := ParseRecord(summary)
			if err != nil {
				errs = append(errs, &ParseError{Team: abbr, Field: "record", Value: summary, Err: err})
				continue
			}

			record := league.TeamRecord{
				Abbreviation:       abbr,
				Name:               competitor.Team.DisplayName,
				Wins:               wins,
				Losses:             losses,
				Ties:               ties,
				WinPct:             league.WinFraction(wins, losses, ties),
				Elo:                league.DefaultElo,
				PreviousElo:        league.DefaultElo,
				RemainingSchedule:  []string{},
				StrengthOfSchedule: 0.5,
			}

			opponent, hasOpponent := opponentOf(comp.Competitors, i)
			if hasOpponent {
				switch {
				case comp.Status.Type.Completed || comp.Status.Type.State == "post":
					record.LastGame = &league.GameResult{
						Date:     comp.Date,
						Opponent: strings.ToUpper(opponent.Team.Abbreviation),
						Result:   gameResult(competitor, opponent),
						Score:    fmt.Sprintf("%s-%s", competitor.Score, opponent.Score),
						WasHome:  competitor.HomeAway == "home",
					}
				case comp.Status.Type.State == "pre":
					record.NextGame = &league.UpcomingGame{
						Date:     comp.Date,
						Opponent: strings.ToUpper(opponent.Team.Abbreviation),
						IsHome:   competitor.HomeAway == "home",
					}
				}
			}

			parsed.Teams[abbr] = record
		}
	}
	return parsed, errs
}

func opponentOf(competitors []Competitor, self int) (Competitor, bool) {
	for i, c := range competitors {
		if i != self {
			return c, true
		}
	}
	return Competitor{}, false
}

func gameResult(self, opponent Competitor) string {
	if self.Winner {
		return "W"
	}
	if opponent.Winner {
		return "L"
	}
	ours, err1 := strconv.Atoi(self.Score)
	theirs, err2 := strconv.Atoi(opponent.Score)
	if err1 != nil || err2 != nil {
		return "T"
	}
	switch {
	case ours > theirs:
		return "W"
	case ours < theirs:
		return "L"
	}
	return "T"
}

// ParseSchedule returns the opponents of every game on the schedule that has not been completed,
// in schedule order.
func ParseSchedule(schedule *TeamSchedule, team string) []string {
	team = strings.ToUpper(team)
	remaining := []string{}
	for _, event := range schedule.Events {
		if len(event.Competitions) == 0 {
			continue
		}
		comp := event.Competitions[0]
		if comp.Status.Type.Completed || comp.Status.Type.State == "post" {
			continue
		}
		for _, c := range comp.Competitors {
			abbr := strings.ToUpper(c.Team.Abbreviation)
			if abbr != "" && abbr != team {
				remaining = append(remaining, abbr)
				break
			}
		}
	}
	return remaining
}
