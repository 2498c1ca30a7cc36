// Package repository provides data access for the local card cache.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// FactRepository handles cached card fact operations.
type FactRepository interface {
	BulkUpsertFacts(ctx context.Context, facts []deckbuilder.CardFact) error
	GetFacts(ctx context.Context, names []string, maxAge time.Duration) (map[string]deckbuilder.CardFact, error)
	PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error)
	Count(ctx context.Context) (int, error)
}

// factRepo implements FactRepository.
type factRepo struct {
	db *sql.DB
}

// NewFactRepository creates a new card fact repository.
func NewFactRepository(db *sql.DB) FactRepository {
	return &factRepo{db: db}
}

// BulkUpsertFacts inserts or updates multiple card facts in one transaction.
func (r *factRepo) BulkUpsertFacts(ctx context.Context, facts []deckbuilder.CardFact) error {
	if len(facts) == 0 {
		return nil
	}

	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO card_facts (name, type_line, mana_cost, cmc, color_identity, oracle_text, banned, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(name) DO UPDATE SET
				type_line = excluded.type_line,
				mana_cost = excluded.mana_cost,
				cmc = excluded.cmc,
				color_identity = excluded.color_identity,
				oracle_text = excluded.oracle_text,
				banned = excluded.banned,
				fetched_at = CURRENT_TIMESTAMP
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, fact := range facts {
			_, err := stmt.ExecContext(ctx,
				fact.Name, fact.TypeLine, fact.ManaCost, fact.CMC,
				joinColors(fact.ColorIdentity), fact.OracleText, fact.Banned,
			)
			if err != nil {
				return fmt.Errorf("failed to insert fact for %s: %w", fact.Name, err)
			}
		}

		return nil
	})
}

// GetFacts returns cached facts for the given names, keyed by the cached
// card name. Entries older than maxAge are skipped; a maxAge of zero
// disables the freshness check. Names absent from the cache are simply
// missing from the result.
func (r *factRepo) GetFacts(ctx context.Context, names []string, maxAge time.Duration) (map[string]deckbuilder.CardFact, error) {
	facts := make(map[string]deckbuilder.CardFact, len(names))
	if len(names) == 0 {
		return facts, nil
	}

	query := `
		SELECT name, type_line, mana_cost, cmc, color_identity, oracle_text, banned
		FROM card_facts
		WHERE name IN (?` + strings.Repeat(", ?", len(names)-1) + `)
	`

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = name
	}
	if maxAge > 0 {
		query += ` AND fetched_at >= ?`
		args = append(args, sqlCutoff(maxAge))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get card facts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var fact deckbuilder.CardFact
		var colors string
		if err := rows.Scan(
			&fact.Name, &fact.TypeLine, &fact.ManaCost, &fact.CMC,
			&colors, &fact.OracleText, &fact.Banned,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card fact: %w", err)
		}
		fact.ColorIdentity = splitColors(colors)
		facts[fact.Name] = fact
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card facts: %w", err)
	}

	return facts, nil
}

// PurgeStale deletes facts older than maxAge and returns the number removed.
func (r *factRepo) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM card_facts WHERE fetched_at < ?`, sqlCutoff(maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale facts: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged facts: %w", err)
	}

	return n, nil
}

// Count gets the number of cached card facts.
func (r *factRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM card_facts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get fact count: %w", err)
	}
	return count, nil
}

// sqlCutoff formats a staleness cutoff the way SQLite's CURRENT_TIMESTAMP
// stores timestamps: UTC, without a zone suffix. That keeps comparisons
// against fetched_at lexically correct.
func sqlCutoff(maxAge time.Duration) string {
	return time.Now().UTC().Add(-maxAge).Format("2006-01-02 15:04:05")
}

func joinColors(colors []string) string {
	return strings.Join(colors, ",")
}

func splitColors(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
