package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/achievements"
	"github.com/sam-maryland/gridiron-dashboard/internal/cache"
	"github.com/sam-maryland/gridiron-dashboard/internal/config"
	"github.com/sam-maryland/gridiron-dashboard/internal/espn"
	"github.com/sam-maryland/gridiron-dashboard/internal/league"
	"github.com/sam-maryland/gridiron-dashboard/internal/narrative"
	"github.com/sam-maryland/gridiron-dashboard/internal/store"
)

// MaxSimulations caps caller-requested projection trials
const MaxSimulations = 100000

// Deps are the collaborators a Service is built from
type Deps struct {
	Config   config.Config
	League   *config.LeagueConfig
	ESPN     espn.Client
	Store    store.Store
	Cache    *cache.Cache
	Narrator *narrative.Generator
	Logger   *logrus.Logger
}

// Service assembles every dashboard view from live data, the cache and stored snapshots
type Service struct {
	cfg      config.Config
	league   *config.LeagueConfig
	roster   league.Roster
	espn     espn.Client
	store    store.Store
	cache    *cache.Cache
	narrator *narrative.Generator
	logger   *logrus.Logger
	hash     string

	now     func() time.Time
	newRand func() league.RandSource

	// serializes read-modify-write of stored documents
	writeMu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand supplies the random source for each projection run
func WithRand(newRand func() league.RandSource) Option {
	return func(s *Service) { s.newRand = newRand }
}

func NewService(d Deps, opts ...Option) *Service {
	if d.League == nil {
		d.League = config.DefaultLeagueConfig()
	}
	if d.Cache == nil {
		d.Cache = cache.New(d.Config.Cache.DataTTL, d.Logger, cache.WithMaxEntries(d.Config.Cache.MaxEntries))
	}
	if d.Narrator == nil {
		d.Narrator = narrative.NewGenerator(nil, d.Config.Projection.SeasonWeeks, d.Logger)
	}
	s := &Service{
		cfg:      d.Config,
		league:   d.League,
		roster:   d.League.Roster(),
		espn:     d.ESPN,
		store:    d.Store,
		cache:    d.Cache,
		narrator: d.Narrator,
		logger:   d.Logger,
		hash:     cache.ConfigHash(d.League),
		now:      time.Now,
		newRand: func() league.RandSource {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) LeagueConfig() *config.LeagueConfig {
	return s.league
}

// Results returns live team records through the cache. When the live fetch fails the last stored
// snapshot is returned with IsLiveData false.
func (s *Service) Results(ctx context.Context) (league.Results, error) {
	results, err := cache.GetOrLoad(ctx, s.cache, cache.KeyNFLData, s.cfg.Cache.DataTTL, s.fetchLive)
	if err == nil {
		return results, nil
	}

	s.logger.WithError(err).Warn("Live NFL data unavailable, using stored snapshot")

	stored, doc, serr := store.LoadResults(ctx, s.store)
	if serr != nil {
		return league.Results{}, fmt.Errorf("failed to load NFL data and no fallback available: %w", errors.Join(err, serr))
	}
	s.logger.WithField("document", doc).Info("Using fallback results")

	stored.IsLiveData = false
	if stored.LastUpdated == "" {
		stored.LastUpdated = s.now().UTC().Format(time.RFC3339)
	}
	if stored.Teams == nil {
		stored.Teams = map[string]league.TeamRecord{}
	}
	return stored, nil
}

func (s *Service) fetchLive(ctx context.Context) (league.Results, error) {
	var previous league.Results
	if err := s.store.Load(ctx, store.DocCachedResults, &previous); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.WithError(err).Warn("Failed to read previous results for Elo ratings")
	}

	results, err := espn.FetchResults(ctx, s.espn, espn.FetchOptions{
		EnrichSchedules: s.cfg.ESPN.EnrichSchedules,
		MaxConcurrency:  s.cfg.ESPN.MaxConcurrency,
		Previous:        previous.Teams,
		NextUpdate:      s.cfg.Cache.DataTTL,
		Now:             s.now,
	}, s.logger)
	if err != nil {
		return league.Results{}, err
	}

	if err := s.store.Save(ctx, store.DocCachedResults, results); err != nil {
		s.logger.WithError(err).Warn("Failed to persist results snapshot")
	}
	return results, nil
}

// Standings is the pair of leaderboards along with the data they were computed from
type Standings struct {
	league.Leaderboards
	CurrentWeek int      `json:"currentWeek"`
	LastUpdated string   `json:"lastUpdated"`
	IsLiveData  bool     `json:"isLiveData"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (s *Service) Standings(ctx context.Context) (Standings, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.KeyStandings(s.hash), s.cfg.Cache.DataTTL, s.computeStandings)
}

func (s *Service) computeStandings(ctx context.Context) (Standings, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return Standings{}, err
	}
	boards := s.leaderboards(ctx, results)

	stored := achievements.Data{}
	if err := s.store.Load(ctx, store.DocAchievements, &stored); err == nil {
		achievements.Annotate(&boards, stored)
	}

	return Standings{
		Leaderboards: boards,
		CurrentWeek:  results.CurrentWeek,
		LastUpdated:  results.LastUpdated,
		IsLiveData:   results.IsLiveData,
		Warnings:     s.league.Warnings(),
	}, nil
}

// leaderboards ranks the players, taking trends from the latest recorded week before the current one
func (s *Service) leaderboards(ctx context.Context, results league.Results) league.Leaderboards {
	var previous *league.Leaderboards
	history, err := store.LoadHistory(ctx, s.store)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load history for trends")
	} else if week, _, ok := history.LatestWeekBefore(results.CurrentWeek); ok {
		previous = week.PreviousLeaderboards()
	}
	return league.CalculateStandings(s.roster, results.Teams, previous)
}

// Projections is the projected outcome for every player
type Projections struct {
	CurrentWeek int                                `json:"currentWeek"`
	Simulations int                                `json:"simulations"`
	Fallback    bool                               `json:"fallback"`
	IsLiveData  bool                               `json:"isLiveData"`
	Players     map[string]league.ProbabilityModel `json:"players"`
}

// Projections runs the season simulation. A non-positive simulations uses the configured default.
// If the simulation fails the uniform projection is returned with Fallback set.
func (s *Service) Projections(ctx context.Context, simulations int) (Projections, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return Projections{}, err
	}
	if simulations <= 0 {
		simulations = s.cfg.Projection.Simulations
	}
	if simulations > MaxSimulations {
		simulations = MaxSimulations
	}

	opts := league.ProjectionOptions{
		CurrentWeek: results.CurrentWeek,
		SeasonWeeks: s.cfg.Projection.SeasonWeeks,
		Simulations: simulations,
		Rand:        s.newRand(),
	}
	models, perr := safeProject(s.roster, results.Teams, opts)
	out := Projections{
		CurrentWeek: results.CurrentWeek,
		Simulations: simulations,
		IsLiveData:  results.IsLiveData,
		Players:     models,
	}
	if perr != nil {
		s.logger.WithError(perr).Warn("Projection failed, using uniform probabilities")
		out.Players = league.UniformProjection(s.roster, results.Teams, simulations)
		out.Fallback = true
	}
	return out, nil
}

// safeProject runs the projector and rejects panics and non-finite probabilities
func safeProject(roster league.Roster, teams map[string]league.TeamRecord, opts league.ProjectionOptions) (models map[string]league.ProbabilityModel, err error) {
	defer func() {
		if r := recover(); r != nil {
			models = nil
			err = fmt.Errorf("projection panicked: %v", r)
		}
	}()
	models = league.Project(roster, teams, opts)
	for id, m := range models {
		for _, p := range []float64{
			m.WinsCompetition.ProbabilityToWin, m.WinsCompetition.ProbabilityTop3,
			m.LossesCompetition.ProbabilityToWin, m.LossesCompetition.ProbabilityTop3,
		} {
			if math.IsNaN(p) || p < 0 || p > 1 {
				return nil, fmt.Errorf("invalid probability %v for player %s", p, id)
			}
		}
	}
	return models, nil
}

// Achievements evaluates achievements against the current standings, merging with and persisting
// the stored document.
func (s *Service) Achievements(ctx context.Context) (achievements.Data, error) {
	results, err := s.Results(ctx)
	if err != nil {
		stored := achievements.Data{}
		if serr := s.store.Load(ctx, store.DocAchievements, &stored); serr != nil {
			return achievements.Data{}, fmt.Errorf("failed to load achievements: %w", errors.Join(err, serr))
		}
		return stored, nil
	}
	key := cache.KeyAchievements(s.hash, results.CurrentWeek)
	return cache.GetOrLoad(ctx, s.cache, key, s.cfg.Cache.DataTTL, func(ctx context.Context) (achievements.Data, error) {
		return s.evaluateAchievements(ctx, results)
	})
}

func (s *Service) evaluateAchievements(ctx context.Context, results league.Results) (achievements.Data, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var previous *achievements.Data
	stored := achievements.Data{}
	err := s.store.Load(ctx, store.DocAchievements, &stored)
	switch {
	case err == nil:
		previous = &stored
	case !errors.Is(err, store.ErrNotFound):
		return achievements.Data{}, fmt.Errorf("failed to load achievements: %w", err)
	}

	data := achievements.Evaluate(achievements.Input{
		Roster: s.roster,
		Teams:  results.Teams,
		Boards: s.leaderboards(ctx, results),
		Week:   results.CurrentWeek,
	}, previous, s.now())

	if err := s.store.Save(ctx, store.DocAchievements, data); err != nil {
		s.logger.WithError(err).Warn("Failed to persist achievements")
	}
	return data, nil
}

// AchievementSummary returns one player's achievement summary
func (s *Service) AchievementSummary(ctx context.Context, playerID string) (achievements.Summary, error) {
	if _, ok := s.roster[playerID]; !ok {
		return achievements.Summary{}, fmt.Errorf("unknown player %q", playerID)
	}
	data, err := s.Achievements(ctx)
	if err != nil {
		return achievements.Summary{}, err
	}
	return achievements.Summarize(playerID, data), nil
}

func (s *Service) History(ctx context.Context) (league.History, error) {
	history, err := store.LoadHistory(ctx, s.store)
	if err != nil {
		return league.History{}, fmt.Errorf("failed to load history: %w", err)
	}
	if history.SeasonStart == "" {
		history.SeasonStart = s.league.SeasonStart
	}
	return history, nil
}

// Narratives returns the narrative archive, generating the current week's narrative when it is
// missing. When live data is unavailable the stored archive is returned as is.
func (s *Service) Narratives(ctx context.Context) (narrative.Archive, error) {
	results, err := s.Results(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Serving stored narratives without live data")
		archive, lerr := s.loadArchive(ctx)
		if lerr != nil {
			return narrative.Archive{Narratives: map[string]narrative.Narrative{}}, nil
		}
		return archive, nil
	}

	archive, err := s.loadArchive(ctx)
	if err != nil {
		return narrative.Archive{}, err
	}
	if _, ok := archive.Narratives[strconv.Itoa(results.CurrentWeek)]; ok {
		return archive, nil
	}

	s.logger.WithField("week", results.CurrentWeek).Info("Generating narrative for current week")
	if _, err := s.generate(ctx, results, results.CurrentWeek); err != nil {
		return narrative.Archive{}, err
	}
	return s.loadArchive(ctx)
}

// GenerateNarrative writes the narrative for week (the current week when week <= 0). An existing
// narrative is returned unchanged unless force is set.
func (s *Service) GenerateNarrative(ctx context.Context, week int, force bool) (narrative.Narrative, int, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return narrative.Narrative{}, 0, err
	}
	if week <= 0 {
		week = results.CurrentWeek
	}

	if !force {
		archive, err := s.loadArchive(ctx)
		if err != nil {
			return narrative.Narrative{}, week, err
		}
		if existing, ok := archive.Narratives[strconv.Itoa(week)]; ok {
			return existing, week, nil
		}
	}

	n, err := s.generate(ctx, results, week)
	return n, week, err
}

func (s *Service) generate(ctx context.Context, results league.Results, week int) (narrative.Narrative, error) {
	boards := s.leaderboards(ctx, results)
	n := s.narrator.Generate(ctx, narrative.Input{
		LeagueName: s.league.LeagueName,
		Season:     s.league.Season,
		Roster:     s.roster,
		Teams:      results.Teams,
		Standings:  boards.Wins,
		Week:       week,
	})

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	archive, err := s.loadArchive(ctx)
	if err != nil {
		return n, err
	}
	archive.Narratives[strconv.Itoa(week)] = n
	if week > archive.CurrentWeek {
		archive.CurrentWeek = week
	}
	archive.LastGenerated = s.now().UTC().Format(time.RFC3339)
	if err := s.store.Save(ctx, store.DocNarratives, archive); err != nil {
		return n, fmt.Errorf("failed to save narratives: %w", err)
	}
	s.cache.Delete(cache.KeyNarratives(week))
	return n, nil
}

func (s *Service) loadArchive(ctx context.Context) (narrative.Archive, error) {
	archive := narrative.Archive{}
	if err := s.store.Load(ctx, store.DocNarratives, &archive); err != nil && !errors.Is(err, store.ErrNotFound) {
		return archive, fmt.Errorf("failed to load narratives: %w", err)
	}
	if archive.Narratives == nil {
		archive.Narratives = map[string]narrative.Narrative{}
	}
	return archive, nil
}

// Narrative returns a single week's narrative, generating it when missing
func (s *Service) Narrative(ctx context.Context, week int) (narrative.Narrative, int, error) {
	if week > 0 {
		key := cache.KeyNarratives(week)
		if v, ok := s.cache.Get(key); ok {
			if n, ok := v.(narrative.Narrative); ok {
				return n, week, nil
			}
		}
	}
	n, week, err := s.GenerateNarrative(ctx, week, false)
	if err == nil {
		s.cache.Set(cache.KeyNarratives(week), n, s.cfg.Cache.DataTTL)
	}
	return n, week, err
}

// RefreshReport summarizes a refresh run
type RefreshReport struct {
	RefreshedAt        string `json:"refreshedAt"`
	CurrentWeek        int    `json:"currentWeek"`
	IsLiveData         bool   `json:"isLiveData"`
	HistoryRecorded    bool   `json:"historyRecorded"`
	NarrativeGenerated bool   `json:"narrativeGenerated"`
	Achievements       int    `json:"achievements"`
}

// Refresh drops cached NFL data, refetches it and recomputes every derived document: the week's
// history entry, achievements and, when missing, the week's narrative.
func (s *Service) Refresh(ctx context.Context) (RefreshReport, error) {
	s.cache.Delete(cache.KeyNFLData)
	s.cache.Delete(cache.KeyStandings(s.hash))

	results, err := s.Results(ctx)
	if err != nil {
		return RefreshReport{}, err
	}
	s.cache.Delete(cache.KeyAchievements(s.hash, results.CurrentWeek))

	report := RefreshReport{
		RefreshedAt: s.now().UTC().Format(time.RFC3339),
		CurrentWeek: results.CurrentWeek,
		IsLiveData:  results.IsLiveData,
	}

	if results.IsLiveData {
		if err := s.recordHistory(ctx, results); err != nil {
			s.logger.WithError(err).Warn("Failed to record weekly history")
		} else {
			report.HistoryRecorded = true
		}
	}

	data, err := s.Achievements(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to evaluate achievements")
	}
	for _, rec := range data.PlayerAchievements {
		report.Achievements += rec.Total
	}

	archive, err := s.loadArchive(ctx)
	if err == nil {
		if _, ok := archive.Narratives[strconv.Itoa(results.CurrentWeek)]; !ok {
			if _, err := s.generate(ctx, results, results.CurrentWeek); err != nil {
				s.logger.WithError(err).Warn("Failed to generate narrative during refresh")
			} else {
				report.NarrativeGenerated = true
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"week":      report.CurrentWeek,
		"live":      report.IsLiveData,
		"narrative": report.NarrativeGenerated,
	}).Info("Refresh complete")
	return report, nil
}

func (s *Service) recordHistory(ctx context.Context, results league.Results) error {
	boards := s.leaderboards(ctx, results)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	history, err := store.LoadHistory(ctx, s.store)
	if err != nil {
		return err
	}
	if history.SeasonStart == "" {
		history.SeasonStart = s.league.SeasonStart
	}
	start, end := s.weekDates(results.CurrentWeek)
	history.Weeks[strconv.Itoa(results.CurrentWeek)] = league.BuildWeekHistory(s.roster, results.Teams, boards, start, end)
	return s.store.Save(ctx, store.DocHistory, history)
}

// weekDates derives a week's first and last day from the configured season start
func (s *Service) weekDates(week int) (string, string) {
	start, err := time.Parse("2006-01-02", s.league.SeasonStart)
	if err != nil || week <= 0 {
		return "", ""
	}
	weekStart := start.AddDate(0, 0, 7*(week-1))
	return weekStart.Format("2006-01-02"), weekStart.AddDate(0, 0, 6).Format("2006-01-02")
}

func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache removes key, or every entry when key is empty
func (s *Service) ClearCache(key string) {
	if key == "" {
		s.cache.Clear()
		s.logger.Info("Cache cleared")
		return
	}
	s.cache.Delete(key)
	s.logger.WithField("key", key).Info("Cache entry cleared")
}
