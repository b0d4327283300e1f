package espn

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

// FetchOptions controls how live results are assembled
type FetchOptions struct {
	// EnrichSchedules fetches every team's schedule to fill RemainingSchedule and
	// StrengthOfSchedule.
	EnrichSchedules bool
	MaxConcurrency  int
	// Previous carries Elo ratings forward between refreshes.
	Previous   map[string]league.TeamRecord
	NextUpdate time.Duration
	Now        func() time.Time
}

// FetchResults loads the scoreboard and turns it into a results snapshot. Schedule enrichment is
// best effort: a failed schedule leaves the team with an empty remaining schedule.
func FetchResults(ctx context.Context, client Client, opts FetchOptions, logger *logrus.Logger) (league.Results, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NextUpdate <= 0 {
		opts.NextUpdate = time.Hour
	}

	sb, err := client.GetScoreboard(ctx)
	if err != nil {
		return league.Results{}, err
	}

	parsed, parseErrs := ParseScoreboard(sb)
	for _, perr := range parseErrs {
		logger.WithError(perr).Warn("Skipping malformed scoreboard entry")
	}
	if len(parsed.Teams) == 0 {
		return league.Results{}, fmt.Errorf("scoreboard for week %d contained no usable teams", parsed.Week)
	}

	league.CarryRatings(parsed.Teams, opts.Previous)

	if opts.EnrichSchedules {
		enrichSchedules(ctx, client, parsed.Teams, opts.MaxConcurrency, logger)
	}

	now := opts.Now().UTC()
	return league.Results{
		LastUpdated:     now.Format(time.RFC3339),
		CurrentWeek:     parsed.Week,
		GamesInProgress: parsed.GamesInProgress,
		NextUpdate:      now.Add(opts.NextUpdate).Format(time.RFC3339),
		Teams:           parsed.Teams,
		IsLiveData:      true,
	}, nil
}

func enrichSchedules(ctx context.Context, client Client, teams map[string]league.TeamRecord, limit int, logger *logrus.Logger) {
	if limit <= 0 {
		limit = 4
	}

	abbrs := make([]string, 0, len(teams))
	for abbr := range teams {
		if _, ok := league.TeamIDs[abbr]; ok {
			abbrs = append(abbrs, abbr)
		}
	}
	sort.Strings(abbrs)

	var mu sync.Mutex
	schedules := make(map[string][]string, len(abbrs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, abbr := range abbrs {
		abbr := abbr
		g.Go(func() error {
			schedule, err := client.GetTeamSchedule(gctx, league.TeamIDs[abbr])
			if err != nil {
				logger.WithError(err).WithField("team", abbr).Warn("Failed to fetch team schedule")
				return nil
			}
			remaining := ParseSchedule(schedule, abbr)
			mu.Lock()
			schedules[abbr] = remaining
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for abbr, remaining := range schedules {
		team := teams[abbr]
		team.RemainingSchedule = remaining
		teams[abbr] = team
	}
	for abbr, team := range teams {
		team.StrengthOfSchedule = league.StrengthOfSchedule(team.RemainingSchedule, teams)
		teams[abbr] = team
	}
}
