package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// setupCacheTestDB creates an in-memory SQLite database with the cache schema.
func setupCacheTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// In-memory databases are per-connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS card_facts (
			name TEXT PRIMARY KEY,
			type_line TEXT NOT NULL DEFAULT '',
			mana_cost TEXT NOT NULL DEFAULT '',
			cmc REAL NOT NULL DEFAULT 0,
			color_identity TEXT NOT NULL DEFAULT '',
			oracle_text TEXT NOT NULL DEFAULT '',
			banned INTEGER NOT NULL DEFAULT 0,
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS recommendations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			commander TEXT NOT NULL,
			card_name TEXT NOT NULL,
			position INTEGER NOT NULL,
			synergy_score REAL NOT NULL DEFAULT 0,
			role TEXT NOT NULL DEFAULT '',
			inclusion_percentage REAL NOT NULL DEFAULT 0,
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(commander, card_name)
		);
		CREATE INDEX IF NOT EXISTS idx_recommendations_commander ON recommendations(commander);
	`)
	require.NoError(t, err)

	return db
}

func TestFactRepository_BulkUpsertAndGet(t *testing.T) {
	db := setupCacheTestDB(t)
	repo := NewFactRepository(db)
	ctx := context.Background()

	facts := []deckbuilder.CardFact{
		{
			Name:          "Sol Ring",
			TypeLine:      "Artifact",
			ManaCost:      "{1}",
			CMC:           1,
			ColorIdentity: nil,
		},
		{
			Name:          "Rhystic Study",
			TypeLine:      "Enchantment",
			ManaCost:      "{2}{U}",
			CMC:           3,
			ColorIdentity: []string{"U"},
			OracleText:    "Whenever an opponent casts a spell, you may draw a card unless that player pays {1}.",
		},
		{
			Name:          "Lutri, the Spellchaser",
			TypeLine:      "Legendary Creature — Elemental Otter",
			ManaCost:      "{1}{U}{R}",
			CMC:           3,
			ColorIdentity: []string{"U", "R"},
			Banned:        true,
		},
	}

	require.NoError(t, repo.BulkUpsertFacts(ctx, facts))

	got, err := repo.GetFacts(ctx, []string{"Sol Ring", "Rhystic Study", "Lutri, the Spellchaser", "Not Cached"}, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Empty(t, got["Sol Ring"].ColorIdentity)
	assert.Equal(t, []string{"U"}, got["Rhystic Study"].ColorIdentity)
	assert.Equal(t, []string{"U", "R"}, got["Lutri, the Spellchaser"].ColorIdentity)
	assert.True(t, got["Lutri, the Spellchaser"].Banned)
	assert.Equal(t, "{2}{U}", got["Rhystic Study"].ManaCost)
	assert.Equal(t, 3.0, got["Rhystic Study"].CMC)
	assert.Contains(t, got["Rhystic Study"].OracleText, "draw a card")
}

func TestFactRepository_UpsertOverwrites(t *testing.T) {
	db := setupCacheTestDB(t)
	repo := NewFactRepository(db)
	ctx := context.Background()

	fact := deckbuilder.CardFact{Name: "Uro, Titan of Nature's Wrath", TypeLine: "Legendary Creature", CMC: 3}
	require.NoError(t, repo.BulkUpsertFacts(ctx, []deckbuilder.CardFact{fact}))

	fact.Banned = true
	require.NoError(t, repo.BulkUpsertFacts(ctx, []deckbuilder.CardFact{fact}))

	got, err := repo.GetFacts(ctx, []string{"Uro, Titan of Nature's Wrath"}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got["Uro, Titan of Nature's Wrath"].Banned)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFactRepository_EmptyInput(t *testing.T) {
	db := setupCacheTestDB(t)
	repo := NewFactRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.BulkUpsertFacts(ctx, nil))

	got, err := repo.GetFacts(ctx, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFactRepository_MaxAge(t *testing.T) {
	db := setupCacheTestDB(t)
	repo := NewFactRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.BulkUpsertFacts(ctx, []deckbuilder.CardFact{
		{Name: "Fresh Card", TypeLine: "Instant"},
	}))

	// Backdate one entry well past any cutoff used below.
	_, err := db.Exec(`
		INSERT INTO card_facts (name, type_line, fetched_at)
		VALUES ('Stale Card', 'Sorcery', datetime('now', '-30 days'))
	`)
	require.NoError(t, err)

	got, err := repo.GetFacts(ctx, []string{"Fresh Card", "Stale Card"}, 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "Fresh Card")

	// A zero maxAge returns everything regardless of age.
	got, err = repo.GetFacts(ctx, []string{"Fresh Card", "Stale Card"}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFactRepository_PurgeStale(t *testing.T) {
	db := setupCacheTestDB(t)
	repo := NewFactRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.BulkUpsertFacts(ctx, []deckbuilder.CardFact{
		{Name: "Fresh Card", TypeLine: "Instant"},
	}))

	_, err := db.Exec(`
		INSERT INTO card_facts (name, type_line, fetched_at)
		VALUES ('Stale Card', 'Sorcery', datetime('now', '-30 days'))
	`)
	require.NoError(t, err)

	purged, err := repo.PurgeStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
