// internal/devbackend/migrate.go
package devbackend

import (
	"context"
	_ "embed"

	apperrors "gemfinder/internal/common/errors"
)

//go:embed schema.sql
var schemaSQL string

//go:embed seed.sql
var seedSQL string

// Migrate creates the tables if needed and, when seed is set, inserts the
// sample rows. Both steps are idempotent.
func (s *Store) Migrate(ctx context.Context, seed bool) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperrors.NewDatabaseQueryFailedError("create schema", err)
	}
	if !seed {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, seedSQL); err != nil {
		return apperrors.NewDatabaseQueryFailedError("seed", err)
	}
	return nil
}
