package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testLeagueJSON = `{
  "leagueName": "Sunday Scaries",
  "season": "2025",
  "players": {
    "alice": {"name": "Alice", "teams": ["KC", "BUF", "DET", "SF"], "joinDate": "2025-08-01"},
    "bob":   {"name": "Bob", "teams": ["NYJ", "CAR", "KC"]}
  }
}`

func TestLoadLeagueConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	if err := os.WriteFile(path, []byte(testLeagueJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLeagueConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.LeagueName != "Sunday Scaries" {
		t.Errorf("Expected league name 'Sunday Scaries', got '%s'", cfg.LeagueName)
	}

	roster := cfg.Roster()
	if len(roster) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(roster))
	}
	if roster["alice"].ID != "alice" || len(roster["alice"].Teams) != 4 {
		t.Errorf("Unexpected player %+v", roster["alice"])
	}
	if roster["alice"].JoinDate != "2025-08-01" {
		t.Errorf("Expected join date to carry over, got %q", roster["alice"].JoinDate)
	}

	warnings := cfg.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "bob has 3 teams") {
		t.Errorf("Expected team count warning for bob, got %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "team KC") {
		t.Errorf("Expected shared team warning for KC, got %q", warnings[1])
	}
}

func TestLoadLeagueConfig_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadLeagueConfig(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("Expected the default league, got error %v", err)
	}
	if cfg.LeagueName != "Default League" || len(cfg.Players) != 0 {
		t.Errorf("Unexpected default league %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLeagueConfig(bad); err == nil {
		t.Error("Expected a parse error for malformed JSON")
	}
}
