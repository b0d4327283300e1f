package store

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned when a snapshot has never been saved
var ErrNotFound = errors.New("snapshot not found")

// Document names a persisted snapshot
type Document string

const (
	DocCachedResults Document = "cached-results"
	DocSampleResults Document = "results"
	DocHistory       Document = "history"
	DocAchievements  Document = "achievements"
	DocNarratives    Document = "narratives"
)

// Store persists dashboard snapshots as JSON documents
type Store interface {
	Load(ctx context.Context, doc Document, v interface{}) error
	Save(ctx context.Context, doc Document, v interface{}) error
}

// LoadResults returns the last saved live results, falling back to the bundled sample results.
func LoadResults(ctx context.Context, s Store) (league.Results, Document, error) {
	var lastErr error
	for _, doc := range []Document{DocCachedResults, DocSampleResults} {
		var results league.Results
		err := s.Load(ctx, doc, &results)
		if err == nil {
			return results, doc, nil
		}
		lastErr = err
	}
	return league.Results{}, "", fmt.Errorf("no fallback results available: %w", lastErr)
}

// LoadHistory returns the stored history, or an empty one when none exists
func LoadHistory(ctx context.Context, s Store) (league.History, error) {
	history := league.History{Weeks: map[string]league.WeekHistory{}}
	if err := s.Load(ctx, DocHistory, &history); err != nil && !errors.Is(err, ErrNotFound) {
		return history, err
	}
	if history.Weeks == nil {
		history.Weeks = map[string]league.WeekHistory{}
	}
	return history, nil
}
