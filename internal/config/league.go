package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

// PlayerSettings represents one league member in the roster file
type PlayerSettings struct {
	Name     string   `json:"name"`
	Teams    []string `json:"teams"`
	JoinDate string   `json:"joinDate"`
}

// LeagueConfig represents the entire league roster file
type LeagueConfig struct {
	Instructions string                    `json:"_instructions,omitempty"`
	LeagueName   string                    `json:"leagueName"`
	Season       string                    `json:"season"`
	SeasonStart  string                    `json:"seasonStart"`
	SeasonEnd    string                    `json:"seasonEnd"`
	PlayoffStart string                    `json:"playoffStart"`
	SuperBowl    string                    `json:"superbowl"`
	Players      map[string]PlayerSettings `json:"players"`
}

// TeamsPerPlayer is the number of NFL teams each player drafts
const TeamsPerPlayer = 4

// DefaultLeagueConfig returns the league used when no roster file can be found
func DefaultLeagueConfig() *LeagueConfig {
	return &LeagueConfig{
		LeagueName: "Default League",
		Season:     "2025",
		Players:    make(map[string]PlayerSettings),
	}
}

// LoadLeagueConfig loads the league roster. An explicit path is tried first, then paths relative
// to the working directory.
func LoadLeagueConfig(path string) (*LeagueConfig, error) {
	configPaths := []string{
		"config/players.json",
		"../config/players.json",
		"../../config/players.json",
	}
	if path != "" {
		configPaths = append([]string{path}, configPaths...)
	}

	var configData []byte
	var foundPath string

	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			var readErr error
			configData, readErr = os.ReadFile(p)
			if readErr == nil {
				foundPath = p
				break
			}
		}
	}

	if foundPath == "" {
		return DefaultLeagueConfig(), nil
	}

	var cfg LeagueConfig
	if err := json.Unmarshal(configData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse league config from %s: %w", foundPath, err)
	}
	if cfg.Players == nil {
		cfg.Players = make(map[string]PlayerSettings)
	}

	return &cfg, nil
}

// Roster converts the configured players into the league domain roster
func (c *LeagueConfig) Roster() league.Roster {
	roster := make(league.Roster, len(c.Players))
	for id, p := range c.Players {
		teams := make([]string, len(p.Teams))
		copy(teams, p.Teams)
		roster[id] = league.Player{
			ID:       id,
			Name:     p.Name,
			Teams:    teams,
			JoinDate: p.JoinDate,
		}
	}
	return roster
}

// Warnings lists roster problems that do not prevent the dashboard from running: players without
// exactly four teams, and teams drafted by more than one player.
func (c *LeagueConfig) Warnings() []string {
	var warnings []string
	roster := c.Roster()

	for _, id := range roster.SortedPlayerIDs() {
		if n := len(roster[id].Teams); n != TeamsPerPlayer {
			warnings = append(warnings, fmt.Sprintf("player %s has %d teams, expected %d", id, n, TeamsPerPlayer))
		}
	}

	owners := roster.TeamOwners()
	shared := make([]string, 0)
	for abbr, holders := range owners {
		if len(holders) > 1 {
			shared = append(shared, abbr)
		}
	}
	sort.Strings(shared)
	for _, abbr := range shared {
		warnings = append(warnings, fmt.Sprintf("team %s is held by %v and is counted for each", abbr, owners[abbr]))
	}

	return warnings
}
