package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Validate checks runtime configuration constraints.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	driver := strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if driver != "json" && driver != "postgres" {
		return fmt.Errorf("store.driver must be 'json' or 'postgres', got %q", c.Store.Driver)
	}
	if driver == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for the postgres driver")
	}
	if driver == "json" && c.DataDir == "" {
		return fmt.Errorf("data_dir is required for the json driver")
	}

	if c.Projection.Simulations <= 0 {
		return fmt.Errorf("projection.simulations must be > 0, got %d", c.Projection.Simulations)
	}
	if c.Projection.SeasonWeeks <= 0 {
		return fmt.Errorf("projection.season_weeks must be > 0, got %d", c.Projection.SeasonWeeks)
	}

	if c.Cache.DataTTL <= 0 {
		return fmt.Errorf("cache.data_ttl must be > 0, got %s", c.Cache.DataTTL)
	}
	if c.ESPN.BaseURL == "" {
		return fmt.Errorf("espn.base_url is required")
	}
	if c.ESPN.MaxConcurrency <= 0 {
		return fmt.Errorf("espn.max_concurrency must be > 0, got %d", c.ESPN.MaxConcurrency)
	}

	if c.Narrator.Temperature < 0 || c.Narrator.Temperature > 2 {
		return fmt.Errorf("narrator.temperature must be within [0,2], got %f", c.Narrator.Temperature)
	}
	if c.Narrator.MaxTokens <= 0 {
		return fmt.Errorf("narrator.max_tokens must be > 0, got %d", c.Narrator.MaxTokens)
	}

	if c.Schedule.Enabled {
		if _, err := cron.ParseStandard(c.Schedule.RefreshCron); err != nil {
			return fmt.Errorf("schedule.refresh_cron %q: %w", c.Schedule.RefreshCron, err)
		}
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			return fmt.Errorf("schedule.timezone %q: %w", c.Schedule.Timezone, err)
		}
	}

	return nil
}
