package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgresStore keeps each document as a JSONB row in the snapshots table
type PostgresStore struct {
	DB     *sql.DB
	logger *logrus.Logger
}

// NewPostgresStore opens and verifies a Postgres connection.
func NewPostgresStore(ctx context.Context, dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logger.Info("Connected to Postgres snapshot store")
	return &PostgresStore{DB: db, logger: logger}, nil
}

// Migrate creates the snapshots table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			name       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, doc Document, v interface{}) error {
	var body []byte
	err := s.DB.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE name = $1`, string(doc)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", doc, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", doc, err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, doc Document, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc, err)
	}
	query := `
	INSERT INTO snapshots (name, body, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`
	if _, err := s.DB.ExecContext(ctx, query, string(doc), body); err != nil {
		return fmt.Errorf("saving %s: %w", doc, err)
	}
	s.logger.WithField("document", doc).Debug("Saved snapshot")
	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
