package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/edh-builder/internal/charts"
	"github.com/ramonehamilton/edh-builder/internal/collection"
	"github.com/ramonehamilton/edh-builder/internal/config"
	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
	"github.com/ramonehamilton/edh-builder/internal/edhrec"
	"github.com/ramonehamilton/edh-builder/internal/output"
	"github.com/ramonehamilton/edh-builder/internal/scryfall"
	"github.com/ramonehamilton/edh-builder/internal/storage"
	"github.com/ramonehamilton/edh-builder/internal/storage/repository"
)

// app wires the collection loader, the card APIs, the cache and the engine
// together for the CLI commands.
type app struct {
	cfg      *config.Config
	opts     deckbuilder.Options
	scryfall *scryfall.Client
	edhrec   *edhrec.Client
	db       *storage.DB
	facts    repository.FactRepository
	recs     repository.RecommendationRepository
	cacheTTL time.Duration
	writer   *output.Writer
	flags    *buildFlags
}

func newApp(bf *buildFlags) (*app, error) {
	var cfg *config.Config
	var err error
	if bf.configPath != "" {
		cfg, err = config.LoadFrom(bf.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Flags win over the config file.
	if bf.strategy != "" {
		cfg.Builder.Strategy = bf.strategy
	}
	if bf.minLands > 0 {
		cfg.Builder.MinLands = bf.minLands
	}
	if bf.maxLands > 0 {
		cfg.Builder.MaxLands = bf.maxLands
	}
	if bf.outputDir != "" {
		cfg.Output.Directory = bf.outputDir
	}
	if bf.writeJSON {
		cfg.Output.JSON = true
	}
	if bf.writeCharts {
		cfg.Output.Charts = true
	}
	if bf.debugMode {
		cfg.App.DebugMode = true
	}
	if bf.noCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{
		cfg:      cfg,
		opts:     cfg.Options(),
		scryfall: scryfall.NewClient(),
		edhrec:   edhrec.NewClient(),
		writer:   output.NewWriter(cfg.Output.Directory),
		flags:    bf,
	}

	if cfg.Cache.Enabled {
		ttl, err := cfg.GetCacheTTL()
		if err != nil {
			return nil, fmt.Errorf("invalid cache TTL: %w", err)
		}
		dbPath, err := cfg.CachePath()
		if err != nil {
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}

		dbConfig := storage.DefaultConfig(dbPath)
		dbConfig.AutoMigrate = true
		db, err := storage.Open(dbConfig)
		if err != nil {
			// A broken cache should not block deck building.
			log.Printf("[Cache] Disabled, could not open %s: %v", dbPath, err)
		} else {
			a.db = db
			a.facts = repository.NewFactRepository(db.Conn())
			a.recs = repository.NewRecommendationRepository(db.Conn())
			a.cacheTTL = ttl
		}
	}

	return a, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("[Cache] Error closing database: %v", err)
		}
	}
}

func (a *app) debugf(format string, args ...interface{}) {
	if a.cfg.App.DebugMode {
		log.Printf(format, args...)
	}
}

// BuildDeck runs the full pipeline: load collection, resolve commander,
// gather facts and recommendations, build, and write the deck files.
func (a *app) BuildDeck(ctx context.Context, collectionPath, commanderName string) error {
	col, err := collection.Load(collectionPath)
	if err != nil {
		return err
	}
	a.debugf("[Collection] Loaded %d cards from %s", col.Len(), collectionPath)

	commander, err := col.FindCommander(commanderName)
	if err != nil {
		return err
	}

	facts, err := a.lookupFacts(ctx, col.Names())
	if err != nil {
		return err
	}

	commanderFact, ok := facts[commander]
	if !ok {
		return fmt.Errorf("no card data found for commander %q", commander)
	}
	if !collection.CanCommand(commanderFact) {
		return &collection.NotACommanderError{Name: commander, TypeLine: commanderFact.TypeLine}
	}

	recs, err := a.lookupRecommendations(ctx, commander)
	if err != nil {
		return err
	}
	a.debugf("[EDHREC] Using %d recommendations for %s", len(recs), commander)

	input := deckbuilder.Input{
		Commander: deckbuilder.Commander{
			Name:          commander,
			ColorIdentity: commanderFact.ColorIdentity,
			ManaValue:     commanderFact.CMC,
		},
		Collection:      col.Cards(),
		Recommendations: recs,
		Facts:           facts,
	}

	deck, err := deckbuilder.Build(input, a.opts)
	if err != nil {
		return err
	}
	stats := deckbuilder.Statistics(deck, input)

	fmt.Print(output.FormatDeckList(deck, stats))

	path, err := a.writer.WriteDeck(deck, stats)
	if err != nil {
		return err
	}
	fmt.Printf("\nDeck written to %s\n", path)

	if a.cfg.Output.JSON {
		jsonPath, err := a.writer.WriteJSON(deck, stats)
		if err != nil {
			return err
		}
		fmt.Printf("JSON export written to %s\n", jsonPath)
	}

	if a.cfg.Output.Charts {
		if err := a.renderCharts(deck, stats); err != nil {
			return err
		}
	}

	return nil
}

// ListCommanders prints every card in the collection that can lead a deck.
func (a *app) ListCommanders(ctx context.Context, collectionPath string) error {
	col, err := collection.Load(collectionPath)
	if err != nil {
		return err
	}

	facts, err := a.lookupFacts(ctx, col.Names())
	if err != nil {
		return err
	}

	commanders := col.ListCommanders(facts)
	if len(commanders) == 0 {
		fmt.Println("No eligible commanders found in the collection.")
		return nil
	}

	fmt.Printf("Eligible commanders (%d):\n", len(commanders))
	for _, name := range commanders {
		fact := facts[name]
		fmt.Printf("  %s  [%s]\n", name, identityLabel(fact.ColorIdentity))
	}
	return nil
}

// CheckCommander reports whether a card can lead a Commander deck.
func (a *app) CheckCommander(ctx context.Context, collectionPath, commanderName string) error {
	col, err := collection.Load(collectionPath)
	if err != nil {
		return err
	}

	commander, err := col.FindCommander(commanderName)
	if err != nil {
		return err
	}

	facts, err := a.lookupFacts(ctx, []string{commander})
	if err != nil {
		return err
	}
	fact, ok := facts[commander]
	if !ok {
		return fmt.Errorf("no card data found for %q", commander)
	}

	fmt.Printf("%s\n", commander)
	fmt.Printf("  Type: %s\n", fact.TypeLine)
	fmt.Printf("  Color Identity: %s\n", identityLabel(fact.ColorIdentity))
	switch {
	case fact.Banned:
		fmt.Println("  ✗ Banned in Commander")
	case collection.CanCommand(fact):
		fmt.Println("  ✓ Can lead a Commander deck")
	default:
		fmt.Println("  ✗ Cannot lead a Commander deck")
	}
	return nil
}

// lookupFacts returns card facts for the given names, serving from the cache
// when possible and fetching the rest from Scryfall.
func (a *app) lookupFacts(ctx context.Context, names []string) (map[string]deckbuilder.CardFact, error) {
	facts := make(map[string]deckbuilder.CardFact, len(names))

	if a.facts != nil {
		cached, err := a.facts.GetFacts(ctx, names, a.cacheTTL)
		if err != nil {
			log.Printf("[Cache] Fact lookup failed: %v", err)
		} else {
			facts = cached
		}
	}

	var missing []string
	for _, name := range names {
		if _, ok := facts[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		a.debugf("[Scryfall] All %d facts served from cache", len(names))
		return facts, nil
	}
	a.debugf("[Scryfall] Fetching %d facts (%d cached)", len(missing), len(facts))

	fetched, notFound, err := a.scryfall.FetchFacts(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("fetch card data: %w", err)
	}
	for _, name := range notFound {
		a.debugf("[Scryfall] Not found: %s", name)
	}

	if a.facts != nil && len(fetched) > 0 {
		upsert := make([]deckbuilder.CardFact, 0, len(fetched))
		for _, fact := range fetched {
			upsert = append(upsert, fact)
		}
		if err := a.facts.BulkUpsertFacts(ctx, upsert); err != nil {
			log.Printf("[Cache] Fact store failed: %v", err)
		}
	}

	for name, fact := range fetched {
		facts[name] = fact
	}
	return facts, nil
}

// lookupRecommendations serves the commander's ranked list from the cache
// when fresh, otherwise from EDHREC (with the static fallback inside).
func (a *app) lookupRecommendations(ctx context.Context, commander string) ([]deckbuilder.Recommendation, error) {
	if a.recs != nil {
		cached, err := a.recs.GetForCommander(ctx, commander, a.cacheTTL)
		if err != nil {
			log.Printf("[Cache] Recommendation lookup failed: %v", err)
		} else if len(cached) > 0 {
			a.debugf("[EDHREC] Recommendations served from cache")
			return cached, nil
		}
	}

	recs := a.edhrec.RecommendationsWithFallback(ctx, commander)

	if a.recs != nil && len(recs) > 0 {
		if err := a.recs.ReplaceForCommander(ctx, commander, recs); err != nil {
			log.Printf("[Cache] Recommendation store failed: %v", err)
		}
	}
	return recs, nil
}

func (a *app) renderCharts(deck *deckbuilder.Deck, stats *deckbuilder.DeckStatistics) error {
	slug := output.SanitizeFilename(deck.Commander)

	cfg := charts.DefaultChartConfig()
	cfg.Title = fmt.Sprintf("Mana Curve: %s", deck.Commander)
	curvePath := filepath.Join(a.cfg.Output.Directory, slug+"_curve.html")
	if err := charts.RenderManaCurve(stats, cfg, curvePath); err != nil {
		return err
	}
	fmt.Printf("Mana curve chart written to %s\n", curvePath)

	cfg.Title = fmt.Sprintf("Color Distribution: %s", deck.Commander)
	colorPath := filepath.Join(a.cfg.Output.Directory, slug+"_colors.html")
	if err := charts.RenderColorDistribution(stats, cfg, colorPath); err != nil {
		return err
	}
	fmt.Printf("Color chart written to %s\n", colorPath)
	return nil
}

func identityLabel(identity []string) string {
	if len(identity) == 0 {
		return "Colorless"
	}
	label := ""
	for _, c := range identity {
		label += c
	}
	return label
}
