// internal/devbackend/store.go
package devbackend

import (
	"context"
	"database/sql"

	apperrors "gemfinder/internal/common/errors"

	"github.com/lib/pq"
)

const (
	countGemsQuery = `SELECT COUNT(*) FROM gems`

	listGemsQuery = `
		SELECT g.id, g.name, g.gem_location, COALESCE(g.category_id, ''),
		       COALESCE(c.category_name, ''), g.avg_rating, g.status,
		       g.images, g.is_subscribed
		FROM gems g
		LEFT JOIN categories c ON c.id = g.category_id
		ORDER BY g.created_at DESC, g.id
		LIMIT $1 OFFSET $2`

	listCategoriesQuery = `SELECT id, category_name FROM categories ORDER BY category_name, id`

	addWishlistQuery = `
		INSERT INTO wishlist (user_id, gem_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, gem_id) DO NOTHING`

	removeWishlistQuery = `DELETE FROM wishlist WHERE user_id = $1 AND gem_id = $2`
)

// Store reads the dev backend tables.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListGems returns one page of gems and the total row count. Every status
// is returned; filtering is the client's job.
func (s *Store) ListGems(ctx context.Context, page, pageSize int) ([]GemRow, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, countGemsQuery).Scan(&total); err != nil {
		return nil, 0, apperrors.NewDatabaseQueryFailedError("count gems", err)
	}

	rows, err := s.db.QueryContext(ctx, listGemsQuery, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseQueryFailedError("list gems", err)
	}
	defer rows.Close()

	gems := make([]GemRow, 0, pageSize)
	for rows.Next() {
		var g GemRow
		if err := rows.Scan(
			&g.ID, &g.Name, &g.GemLocation, &g.CategoryID,
			&g.CategoryName, &g.AvgRating, &g.Status,
			pq.Array(&g.Images), &g.IsSubscribed,
		); err != nil {
			return nil, 0, apperrors.NewDatabaseQueryFailedError("scan gem", err)
		}
		gems = append(gems, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewDatabaseQueryFailedError("list gems", err)
	}
	return gems, total, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := s.db.QueryContext(ctx, listCategoriesQuery)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("list categories", err)
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.ID, &c.CategoryName); err != nil {
			return nil, apperrors.NewDatabaseQueryFailedError("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError("list categories", err)
	}
	return out, nil
}

func (s *Store) AddWishlist(ctx context.Context, userID, gemID string) error {
	if _, err := s.db.ExecContext(ctx, addWishlistQuery, userID, gemID); err != nil {
		return apperrors.NewDatabaseQueryFailedError("add wishlist", err)
	}
	return nil
}

func (s *Store) RemoveWishlist(ctx context.Context, userID, gemID string) error {
	if _, err := s.db.ExecContext(ctx, removeWishlistQuery, userID, gemID); err != nil {
		return apperrors.NewDatabaseQueryFailedError("remove wishlist", err)
	}
	return nil
}

// totalPages is ceil(total/pageSize).
func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
