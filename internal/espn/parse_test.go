package espn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

func mustScoreboard(t *testing.T, body string) *Scoreboard {
	t.Helper()
	var sb Scoreboard
	if err := jsoniter.Unmarshal([]byte(body), &sb); err != nil {
		t.Fatalf("Invalid fixture: %v", err)
	}
	return &sb
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		in                 string
		wins, losses, ties int
		wantErr            bool
	}{
		{"5-2", 5, 2, 0, false},
		{"4-2-1", 4, 2, 1, false},
		{" 0-0 ", 0, 0, 0, false},
		{"5", 0, 0, 0, true},
		{"a-b", 0, 0, 0, true},
		{"1-2-3-4", 0, 0, 0, true},
		{"-1-2", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, l, ti, err := ParseRecord(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if w != tt.wins || l != tt.losses || ti != tt.ties {
				t.Errorf("Expected %d-%d-%d, got %d-%d-%d", tt.wins, tt.losses, tt.ties, w, l, ti)
			}
		})
	}
}

func TestParseScoreboard(t *testing.T) {
	parsed, errs := ParseScoreboard(mustScoreboard(t, scoreboardJSON))
	if len(errs) != 0 {
		t.Fatalf("Unexpected parse errors: %v", errs)
	}
	if parsed.Week != 6 || len(parsed.Teams) != 4 {
		t.Fatalf("Expected week 6 with 4 teams, got week %d with %d", parsed.Week, len(parsed.Teams))
	}

	kc := parsed.Teams["KC"]
	if kc.Wins != 5 || kc.Losses != 1 || kc.Elo != league.DefaultElo {
		t.Errorf("Unexpected KC record %+v", kc)
	}
	if kc.LastGame == nil || kc.LastGame.Result != "W" || kc.LastGame.Score != "27-24" || !kc.LastGame.WasHome {
		t.Errorf("Unexpected KC last game %+v", kc.LastGame)
	}
	buf := parsed.Teams["BUF"]
	if buf.LastGame == nil || buf.LastGame.Result != "L" || buf.LastGame.Opponent != "KC" || buf.LastGame.WasHome {
		t.Errorf("Unexpected BUF last game %+v", buf.LastGame)
	}

	dal := parsed.Teams["DAL"]
	if dal.Ties != 1 || dal.LastGame != nil {
		t.Errorf("Expected DAL 2-2-1 with the game still in progress, got %+v", dal)
	}
	if len(parsed.GamesInProgress) != 1 || parsed.GamesInProgress[0] != "DAL @ CAR" {
		t.Errorf("Expected DAL @ CAR in progress, got %v", parsed.GamesInProgress)
	}
}

func TestParseScoreboard_SkipsMalformed(t *testing.T) {
	body := `{"week": {}, "events": [{"competitions": [{
		"status": {"type": {"state": "pre"}},
		"date": "2025-10-19T17:00Z",
		"competitors": [
			{"homeAway": "home", "team": {"abbreviation": "NYJ"}, "records": [{"summary": "two-three"}]},
			{"homeAway": "away", "team": {"abbreviation": "MIA"}, "records": [{"summary": "2-3"}]},
			{"homeAway": "away", "team": {"id": "77"}}
		]
	}]}, {"competitions": []}]}`

	parsed, errs := ParseScoreboard(mustScoreboard(t, body))

	if parsed.Week != 1 {
		t.Errorf("Expected missing week to default to 1, got %d", parsed.Week)
	}
	if len(errs) != 2 {
		t.Fatalf("Expected 2 parse errors, got %v", errs)
	}
	var perr *ParseError
	if !errors.As(errs[0], &perr) || perr.Team != "NYJ" || perr.Field != "record" {
		t.Errorf("Expected a record error for NYJ, got %v", errs[0])
	}
	if !errors.As(errs[1], &perr) || perr.Field != "abbreviation" {
		t.Errorf("Expected an abbreviation error, got %v", errs[1])
	}

	mia, ok := parsed.Teams["MIA"]
	if !ok || mia.NextGame == nil || mia.NextGame.Opponent != "NYJ" || mia.NextGame.IsHome {
		t.Errorf("Expected MIA with an upcoming away game at NYJ, got %+v", mia)
	}
	if _, ok := parsed.Teams["NYJ"]; ok {
		t.Error("Expected NYJ to be skipped")
	}
}

func TestParseSchedule(t *testing.T) {
	schedule := &TeamSchedule{}
	body := `{"events": [
		{"competitions": [{"status": {"type": {"completed": true, "state": "post"}}, "competitors": [
			{"team": {"abbreviation": "KC"}}, {"team": {"abbreviation": "JAX"}}]}]},
		{"competitions": [{"status": {"type": {"state": "pre"}}, "competitors": [
			{"team": {"abbreviation": "LV"}}, {"team": {"abbreviation": "KC"}}]}]},
		{"competitions": [{"status": {"type": {"state": "pre"}}, "competitors": [
			{"team": {"abbreviation": "KC"}}, {"team": {"abbreviation": "den"}}]}]},
		{"competitions": []}
	]}`
	if err := jsoniter.Unmarshal([]byte(body), schedule); err != nil {
		t.Fatal(err)
	}

	got := ParseSchedule(schedule, "kc")
	if strings.Join(got, ",") != "LV,DEN" {
		t.Errorf("Expected LV,DEN, got %v", got)
	}
}

type mockClient struct {
	scoreboard    *Scoreboard
	scoreboardErr error
	scheduleCalls int32
}

func (m *mockClient) GetScoreboard(ctx context.Context) (*Scoreboard, error) {
	return m.scoreboard, m.scoreboardErr
}

func (m *mockClient) GetTeamSchedule(ctx context.Context, teamID string) (*TeamSchedule, error) {
	atomic.AddInt32(&m.scheduleCalls, 1)
	if teamID == league.TeamIDs["BUF"] {
		return nil, fmt.Errorf("boom")
	}
	body := `{"events": [{"competitions": [{"status": {"type": {"state": "pre"}}, "competitors": [
		{"team": {"abbreviation": "ZZZ"}}, {"team": {"abbreviation": "KC"}}]}]}]}`
	var schedule TeamSchedule
	_ = jsoniter.Unmarshal([]byte(body), &schedule)
	return &schedule, nil
}

func TestFetchResults(t *testing.T) {
	logger, hook := test.NewNullLogger()
	client := &mockClient{scoreboard: mustScoreboard(t, scoreboardJSON)}
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

	results, err := FetchResults(context.Background(), client, FetchOptions{
		EnrichSchedules: true,
		MaxConcurrency:  2,
		Previous:        map[string]league.TeamRecord{"BUF": {Elo: 1600}},
		Now:             func() time.Time { return now },
	}, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !results.IsLiveData || results.CurrentWeek != 6 {
		t.Errorf("Expected live week 6 results, got %+v", results)
	}
	if results.LastUpdated != "2025-10-13T12:00:00Z" || results.NextUpdate != "2025-10-13T13:00:00Z" {
		t.Errorf("Unexpected timestamps %s / %s", results.LastUpdated, results.NextUpdate)
	}
	if client.scheduleCalls != 4 {
		t.Errorf("Expected 4 schedule requests, got %d", client.scheduleCalls)
	}

	kc := results.Teams["KC"]
	if len(kc.RemainingSchedule) != 1 || kc.RemainingSchedule[0] != "ZZZ" {
		t.Errorf("Expected KC remaining schedule [ZZZ], got %v", kc.RemainingSchedule)
	}
	// KC beat a 1600-rated BUF
	if kc.Elo <= league.DefaultElo+16 {
		t.Errorf("Expected KC to gain more than 16 points for beating a stronger team, got %v", kc.Elo)
	}
	if buf := results.Teams["BUF"]; len(buf.RemainingSchedule) != 0 || buf.StrengthOfSchedule != 0.5 {
		t.Errorf("Expected BUF without a schedule, got %+v", buf)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Message == "Failed to fetch team schedule" {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected a warning for the failed schedule")
	}
}

func TestFetchResults_Errors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	boom := errors.New("boom")
	if _, err := FetchResults(context.Background(), &mockClient{scoreboardErr: boom}, FetchOptions{}, logger); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}

	empty := &mockClient{scoreboard: &Scoreboard{}}
	if _, err := FetchResults(context.Background(), empty, FetchOptions{}, logger); err == nil {
		t.Error("Expected an error for an empty scoreboard")
	}
}
