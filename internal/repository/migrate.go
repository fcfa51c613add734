package repository

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/policyscope/policyscope/internal/repository/migrations"
)

// NewMigrator returns a goose provider bound to the store's connection and
// the embedded schema migrations.
func (s *Store) NewMigrator(ctx context.Context) (*goose.Provider, error) {
	db, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(s.driver.Dialect(), db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration.
func (s *Store) Migrate(ctx context.Context) error {
	provider, err := s.NewMigrator(ctx)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Info("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration", r.Duration,
		)
	}
	return nil
}
