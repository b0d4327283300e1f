package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sam-maryland/gridiron-dashboard/internal/cache"
	"github.com/sam-maryland/gridiron-dashboard/internal/config"
	"github.com/sam-maryland/gridiron-dashboard/internal/espn"
	"github.com/sam-maryland/gridiron-dashboard/internal/league"
	"github.com/sam-maryland/gridiron-dashboard/internal/narrative"
	"github.com/sam-maryland/gridiron-dashboard/internal/store"
)

var testNow = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

type half struct{}

func (half) Float64() float64 { return 0.5 }

type fakeESPN struct {
	mu    sync.Mutex
	week  int
	err   error
	calls int
}

func competitor(abbr, homeAway, score, record string, winner bool) espn.Competitor {
	c := espn.Competitor{HomeAway: homeAway, Score: score, Winner: winner}
	c.Team.Abbreviation = abbr
	c.Records = append(c.Records, struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Summary string `json:"summary"`
	}{Name: "overall", Type: "total", Summary: record})
	return c
}

func completed(date string, home, away espn.Competitor) espn.Event {
	comp := espn.Competition{Date: date, Competitors: []espn.Competitor{home, away}}
	comp.Status.Type.State = "post"
	comp.Status.Type.Completed = true
	return espn.Event{Competitions: []espn.Competition{comp}}
}

func (f *fakeESPN) GetScoreboard(ctx context.Context) (*espn.Scoreboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sb := &espn.Scoreboard{}
	sb.Week.Number = f.week
	sb.Events = []espn.Event{
		completed("2025-10-12", competitor("KC", "home", "30", "5-1", true), competitor("LV", "away", "10", "1-5", false)),
		completed("2025-10-12", competitor("BUF", "home", "24", "4-2", true), competitor("MIA", "away", "20", "2-4", false)),
		completed("2025-10-12", competitor("NYJ", "home", "3", "1-5", false), competitor("NE", "away", "21", "3-3", true)),
	}
	return sb, nil
}

func (f *fakeESPN) GetTeamSchedule(ctx context.Context, teamID string) (*espn.TeamSchedule, error) {
	return &espn.TeamSchedule{}, nil
}

type fixture struct {
	svc   *Service
	espn  *fakeESPN
	store *store.JSONStore
	hook  *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Projection.Simulations = 10

	lc := &config.LeagueConfig{
		LeagueName:  "Test League",
		Season:      "2025",
		SeasonStart: "2025-09-04",
		Players: map[string]config.PlayerSettings{
			"alice": {Name: "Alice", Teams: []string{"KC", "BUF"}},
			"bob":   {Name: "Bob", Teams: []string{"NYJ", "LV"}},
			"cara":  {Name: "Cara", Teams: []string{"MIA", "NE"}},
		},
	}

	fake := &fakeESPN{week: 6}
	js := store.NewJSONStore(cfg.DataDir)
	svc := NewService(Deps{
		Config:   cfg,
		League:   lc,
		ESPN:     fake,
		Store:    js,
		Cache:    cache.New(time.Hour, logger, cache.WithClock(func() time.Time { return testNow })),
		Narrator: narrative.NewGenerator(nil, 18, logger),
		Logger:   logger,
	},
		WithClock(func() time.Time { return testNow }),
		WithRand(func() league.RandSource { return half{} }),
	)
	return &fixture{svc: svc, espn: fake, store: js, hook: hook}
}

func TestService_ResultsLiveAndCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	results, err := f.svc.Results(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !results.IsLiveData || results.CurrentWeek != 6 || len(results.Teams) != 6 {
		t.Fatalf("Unexpected live results %+v", results)
	}
	if !f.store.Exists(store.DocCachedResults) {
		t.Error("Expected the live results to be persisted")
	}

	if _, err := f.svc.Results(ctx); err != nil {
		t.Fatal(err)
	}
	if f.espn.calls != 1 {
		t.Errorf("Expected the second call to hit the cache, got %d fetches", f.espn.calls)
	}
}

func TestService_ResultsFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.espn.err = errors.New("espn down")

	if _, err := f.svc.Results(ctx); err == nil {
		t.Fatal("Expected an error with no live data and no snapshot")
	}

	if err := f.store.Save(ctx, store.DocSampleResults, league.Results{
		CurrentWeek: 3,
		Teams:       map[string]league.TeamRecord{"KC": {Wins: 3}},
		IsLiveData:  true,
	}); err != nil {
		t.Fatal(err)
	}
	results, err := f.svc.Results(ctx)
	if err != nil {
		t.Fatalf("Expected the sample snapshot, got %v", err)
	}
	if results.IsLiveData || results.CurrentWeek != 3 || results.LastUpdated != "2025-10-14T12:00:00Z" {
		t.Errorf("Unexpected fallback results %+v", results)
	}
}

func TestService_Standings(t *testing.T) {
	f := newFixture(t)
	standings, err := f.svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// alice 9-3, cara 5-7, bob 2-10
	if standings.Wins[0].PlayerID != "alice" || standings.Losses[0].PlayerID != "bob" {
		t.Errorf("Unexpected leaders %s / %s", standings.Wins[0].PlayerID, standings.Losses[0].PlayerID)
	}
	if standings.CurrentWeek != 6 || !standings.IsLiveData {
		t.Errorf("Unexpected metadata %+v", standings)
	}
	if len(standings.Warnings) != 3 {
		t.Errorf("Expected a two-team warning per player, got %v", standings.Warnings)
	}
}

func TestService_Projections(t *testing.T) {
	f := newFixture(t)
	p, err := f.svc.Projections(context.Background(), 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Simulations != 10 || p.Fallback || !p.IsLiveData || len(p.Players) != 3 {
		t.Fatalf("Unexpected projections %+v", p)
	}
	var total float64
	for _, m := range p.Players {
		total += m.WinsCompetition.ProbabilityToWin
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("Expected win probabilities to sum to 1, got %f", total)
	}

	p, _ = f.svc.Projections(context.Background(), MaxSimulations+5)
	if p.Simulations != MaxSimulations {
		t.Errorf("Expected simulations capped at %d, got %d", MaxSimulations, p.Simulations)
	}
}

func TestService_ProjectionsFromSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.espn.err = errors.New("espn down")
	if err := f.store.Save(ctx, store.DocSampleResults, league.Results{
		CurrentWeek: 3,
		Teams: map[string]league.TeamRecord{
			"KC":  {Wins: 3},
			"NYJ": {Losses: 3},
		},
		IsLiveData: true,
	}); err != nil {
		t.Fatal(err)
	}

	p, err := f.svc.Projections(ctx, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.IsLiveData || p.CurrentWeek != 3 {
		t.Errorf("Expected a snapshot-backed projection, got %+v", p)
	}
}

type panicSource struct{}

func (panicSource) Float64() float64 { panic("bad source") }

func TestService_ProjectionsFallback(t *testing.T) {
	f := newFixture(t)
	f.svc.newRand = func() league.RandSource { return panicSource{} }

	p, err := f.svc.Projections(context.Background(), 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.Fallback {
		t.Fatal("Expected the uniform fallback")
	}
	for id, m := range p.Players {
		if m.WinsCompetition.ProbabilityToWin != 1.0/3.0 || m.WinsCompetition.ProbabilityTop3 != 1 {
			t.Errorf("Expected uniform odds for %s, got %+v", id, m.WinsCompetition)
		}
	}
}

func TestService_AchievementsPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data, err := f.svc.Achievements(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if data.PlayerAchievements["alice"].Total == 0 {
		t.Error("Expected alice to have earned achievements")
	}
	if !f.store.Exists(store.DocAchievements) {
		t.Error("Expected achievements to be persisted")
	}

	summary, err := f.svc.AchievementSummary(ctx, "alice")
	if err != nil || summary.Total != data.PlayerAchievements["alice"].Total {
		t.Errorf("Unexpected summary %+v (%v)", summary, err)
	}
	if _, err := f.svc.AchievementSummary(ctx, "nobody"); err == nil {
		t.Error("Expected an error for an unknown player")
	}
}

func TestService_NarrativesGenerateOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	archive, err := f.svc.Narratives(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	n, ok := archive.Narratives["6"]
	if !ok || n.Title != "Week 6: Alice Takes The Lead!" || n.Author != narrative.AuthorTemplate {
		t.Fatalf("Expected the week 6 template narrative, got %+v", archive)
	}
	if archive.CurrentWeek != 6 || archive.LastGenerated != "2025-10-14T12:00:00Z" {
		t.Errorf("Unexpected archive metadata %+v", archive)
	}

	existing, week, err := f.svc.GenerateNarrative(ctx, 0, false)
	if err != nil || week != 6 || existing.Title != n.Title {
		t.Errorf("Expected the stored narrative, got %+v week %d (%v)", existing, week, err)
	}

	older, week, err := f.svc.GenerateNarrative(ctx, 4, true)
	if err != nil || week != 4 || older.Week != 4 {
		t.Errorf("Expected a forced week 4 narrative, got %+v (%v)", older, err)
	}
	archive, _ = f.svc.Narratives(ctx)
	if len(archive.Narratives) != 2 || archive.CurrentWeek != 6 {
		t.Errorf("Expected weeks 4 and 6 with current week 6, got %+v", archive)
	}
}

func TestService_Refresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.HistoryRecorded || !report.NarrativeGenerated || report.CurrentWeek != 6 || report.Achievements == 0 {
		t.Errorf("Unexpected report %+v", report)
	}

	history, err := f.svc.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	week, ok := history.Weeks["6"]
	if !ok || week.WeekStart != "2025-10-09" || week.WeekEnd != "2025-10-15" || week.GamesCompleted != 3 {
		t.Errorf("Unexpected week 6 history %+v", week)
	}
	if history.SeasonStart != "2025-09-04" {
		t.Errorf("Expected the season start from the league config, got %q", history.SeasonStart)
	}

	// a second refresh refetches but keeps the narrative
	report, _ = f.svc.Refresh(ctx)
	if report.NarrativeGenerated || f.espn.calls != 2 {
		t.Errorf("Expected a refetch without a new narrative, got %+v after %d fetches", report, f.espn.calls)
	}
}

func TestService_ClearCache(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Results(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.svc.CacheStats().Active == 0 {
		t.Fatal("Expected cached entries")
	}

	f.svc.ClearCache(cache.KeyNFLData)
	if f.svc.cache.Has(cache.KeyNFLData) {
		t.Error("Expected nfl-data to be cleared")
	}
	f.svc.cache.Set("other", 1, 0)
	f.svc.ClearCache("")
	if f.svc.CacheStats().Total != 0 {
		t.Error("Expected an empty cache")
	}
}
