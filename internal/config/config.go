package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration for the dashboard and MCP server
type Config struct {
	LeagueFile string `yaml:"league_file"`
	DataDir    string `yaml:"data_dir"`
	LogLevel   string `yaml:"log_level"`

	Server     ServerConfig     `yaml:"server"`
	ESPN       ESPNConfig       `yaml:"espn"`
	Narrator   NarratorConfig   `yaml:"narrator"`
	Cache      CacheConfig      `yaml:"cache"`
	Projection ProjectionConfig `yaml:"projection"`
	Store      StoreConfig      `yaml:"store"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ESPNConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	EnrichSchedules bool          `yaml:"enrich_schedules"`
	MaxConcurrency  int           `yaml:"max_concurrency"`
}

type NarratorConfig struct {
	Enabled     bool          `yaml:"enabled"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	DataTTL    time.Duration `yaml:"data_ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

type ProjectionConfig struct {
	Simulations int `yaml:"simulations"`
	SeasonWeeks int `yaml:"season_weeks"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // "json" or "postgres"
	DSN    string `yaml:"dsn"`
}

type ScheduleConfig struct {
	Enabled     bool   `yaml:"enabled"`
	RefreshCron string `yaml:"refresh_cron"`
	Timezone    string `yaml:"timezone"`
}

func Default() Config {
	return Config{
		LeagueFile: "config/players.json",
		DataDir:    "data",
		LogLevel:   "info",
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		ESPN: ESPNConfig{
			BaseURL:        "https://site.api.espn.com/apis/site/v2/sports/football/nfl",
			Timeout:        10 * time.Second,
			MaxConcurrency: 4,
		},
		Narrator: NarratorConfig{
			Enabled:     true,
			BaseURL:     "https://api.x.ai/v1",
			Model:       "grok-beta",
			MaxTokens:   800,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		Cache: CacheConfig{
			DataTTL:    60 * time.Minute,
			MaxEntries: 100,
		},
		Projection: ProjectionConfig{
			Simulations: 1000,
			SeasonWeeks: 18,
		},
		Store: StoreConfig{
			Driver: "json",
		},
		Schedule: ScheduleConfig{
			Enabled:     true,
			RefreshCron: "0 * * * *",
			Timezone:    "America/New_York",
		},
	}
}

// LoadFile reads a YAML config on top of the defaults. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment when present.
// Variables already set are left untouched.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		_ = godotenv.Load(existing...)
	}
}

func (c *Config) ApplyEnv() {
	if v := os.Getenv("XAI_API_KEY"); v != "" {
		c.Narrator.APIKey = v
	} else if v := os.Getenv("GROK_API_KEY"); v != "" {
		c.Narrator.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_LEAGUE_FILE")); v != "" {
		c.LeagueFile = v
	}
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_DATA_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.Store.Driver = "postgres"
		c.Store.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_SIMULATIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Projection.Simulations = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_SCHEDULE_ENABLED")); v != "" {
		c.Schedule.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
}
