package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/cache"
	"github.com/sam-maryland/gridiron-dashboard/internal/config"
	"github.com/sam-maryland/gridiron-dashboard/internal/espn"
	"github.com/sam-maryland/gridiron-dashboard/internal/narrative"
	"github.com/sam-maryland/gridiron-dashboard/internal/store"
)

// NewLogger returns a JSON logger at level, falling back to info
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Open builds a Service and its collaborators from cfg. The returned close function releases the
// snapshot store.
func Open(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Service, func() error, error) {
	leagueCfg, err := config.LoadLeagueConfig(cfg.LeagueFile)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range leagueCfg.Warnings() {
		logger.WithField("league", leagueCfg.LeagueName).Warn(w)
	}
	logger.WithFields(logrus.Fields{
		"league":  leagueCfg.LeagueName,
		"season":  leagueCfg.Season,
		"players": len(leagueCfg.Players),
	}).Info("League configuration loaded")

	snapshots, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var client narrative.Client
	switch {
	case !cfg.Narrator.Enabled:
		logger.Info("Narrative model disabled, using template narratives")
	case cfg.Narrator.APIKey == "":
		logger.Warn("No xAI API key configured, using template narratives")
	default:
		client = narrative.NewXAIClient(narrative.XAIOptions{
			BaseURL:     cfg.Narrator.BaseURL,
			APIKey:      cfg.Narrator.APIKey,
			Model:       cfg.Narrator.Model,
			MaxTokens:   cfg.Narrator.MaxTokens,
			Temperature: cfg.Narrator.Temperature,
			Timeout:     cfg.Narrator.Timeout,
		}, logger)
	}

	svc := NewService(Deps{
		Config:   cfg,
		League:   leagueCfg,
		ESPN:     espn.NewHTTPClient(cfg.ESPN.BaseURL, cfg.ESPN.Timeout, logger),
		Store:    snapshots,
		Cache:    cache.New(cfg.Cache.DataTTL, logger, cache.WithMaxEntries(cfg.Cache.MaxEntries)),
		Narrator: narrative.NewGenerator(client, cfg.Projection.SeasonWeeks, logger),
		Logger:   logger,
	})
	return svc, closeStore, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (store.Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Driver)) {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.Store.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		logger.Info("Using Postgres snapshot store")
		return pg, pg.Close, nil
	case "json", "":
		logger.WithField("data_dir", cfg.DataDir).Info("Using JSON snapshot store")
		return store.NewJSONStore(cfg.DataDir), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
