package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// RecommendationRepository handles cached commander recommendation lists.
type RecommendationRepository interface {
	ReplaceForCommander(ctx context.Context, commander string, recs []deckbuilder.Recommendation) error
	GetForCommander(ctx context.Context, commander string, maxAge time.Duration) ([]deckbuilder.Recommendation, error)
	DeleteForCommander(ctx context.Context, commander string) error
	Count(ctx context.Context) (int, error)
}

// recommendationRepo implements RecommendationRepository.
type recommendationRepo struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new recommendation repository.
func NewRecommendationRepository(db *sql.DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

// ReplaceForCommander atomically swaps the cached list for a commander.
// The rows remember list order so reads reproduce the ranking exactly.
func (r *recommendationRepo) ReplaceForCommander(ctx context.Context, commander string, recs []deckbuilder.Recommendation) error {
	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE LOWER(commander) = LOWER(?)`, commander)
		if err != nil {
			return fmt.Errorf("failed to clear recommendations: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO recommendations (commander, card_name, position, synergy_score, role, inclusion_percentage, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, rec := range recs {
			_, err := stmt.ExecContext(ctx,
				commander, rec.Name, i, rec.SynergyScore,
				string(rec.Role), rec.InclusionPercentage,
			)
			if err != nil {
				return fmt.Errorf("failed to insert recommendation for %s: %w", rec.Name, err)
			}
		}

		return nil
	})
}

// GetForCommander returns the cached list in its original order, or nil
// when the cache has no fresh entry for the commander. The whole list is
// treated as stale when its oldest row exceeds maxAge; a maxAge of zero
// disables the freshness check.
func (r *recommendationRepo) GetForCommander(ctx context.Context, commander string, maxAge time.Duration) ([]deckbuilder.Recommendation, error) {
	if maxAge > 0 {
		var fresh bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM recommendations WHERE LOWER(commander) = LOWER(?) AND fetched_at >= ?)`,
			commander, sqlCutoff(maxAge),
		).Scan(&fresh)
		if err != nil {
			return nil, fmt.Errorf("failed to check recommendation age: %w", err)
		}
		if !fresh {
			return nil, nil
		}
	}

	query := `
		SELECT card_name, synergy_score, role, inclusion_percentage
		FROM recommendations
		WHERE LOWER(commander) = LOWER(?)
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, commander)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []deckbuilder.Recommendation
	for rows.Next() {
		var rec deckbuilder.Recommendation
		var role string
		if err := rows.Scan(&rec.Name, &rec.SynergyScore, &role, &rec.InclusionPercentage); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.Role = deckbuilder.Role(role)
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, nil
}

// DeleteForCommander removes the cached list for a commander.
func (r *recommendationRepo) DeleteForCommander(ctx context.Context, commander string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recommendations WHERE LOWER(commander) = LOWER(?)`, commander)
	if err != nil {
		return fmt.Errorf("failed to delete recommendations: %w", err)
	}
	return nil
}

// Count gets the number of cached recommendation rows.
func (r *recommendationRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recommendations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get recommendation count: %w", err)
	}
	return count, nil
}
