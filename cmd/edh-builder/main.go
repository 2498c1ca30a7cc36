package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/edh-builder/internal/config"
	"github.com/ramonehamilton/edh-builder/internal/storage"
	"github.com/ramonehamilton/edh-builder/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "build":
		runBuildCommand(os.Args[2:], false)
	case "watch":
		runBuildCommand(os.Args[2:], true)
	case "list-commanders":
		runListCommandersCommand(os.Args[2:])
	case "check-commander":
		runCheckCommanderCommand(os.Args[2:])
	case "migrate":
		runMigrationCommand()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("EDH Builder - Commander Deck Building Engine")
	fmt.Println("============================================")
	fmt.Println()
	fmt.Println("Usage: edh-builder <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  build            - Build a Commander deck from a collection CSV")
	fmt.Println("  watch            - Build, then rebuild whenever the collection file changes")
	fmt.Println("  list-commanders  - List every card in the collection that can lead a deck")
	fmt.Println("  check-commander  - Check whether a card is a legal commander")
	fmt.Println("  migrate          - Run cache database migrations")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  edh-builder build -collection cards.csv -commander \"Talrand, Sky Summoner\"")
	fmt.Println("  edh-builder build -collection cards.csv -commander Atraxa -strategy control -charts")
	fmt.Println("  edh-builder watch -collection cards.csv -commander \"Muldrotha, the Gravetide\"")
	fmt.Println("  edh-builder list-commanders -collection cards.csv")
	fmt.Println("  edh-builder migrate up")
	fmt.Println()
	fmt.Println("For more information, see: https://github.com/ramonehamilton/edh-builder")
	fmt.Println()
}

// buildFlags carries the flag values shared by build and watch.
type buildFlags struct {
	collectionPath string
	commander      string
	configPath     string
	outputDir      string
	strategy       string
	minLands       int
	maxLands       int
	writeJSON      bool
	writeCharts    bool
	noCache        bool
	debounce       time.Duration
	debugMode      bool
}

func parseBuildFlags(name string, args []string) *buildFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	bf := &buildFlags{}

	fs.StringVar(&bf.collectionPath, "collection", "", "Path to the collection CSV file (required)")
	fs.StringVar(&bf.commander, "commander", "", "Commander card name (required)")
	fs.StringVar(&bf.configPath, "config", "", "Path to config file (default: ~/.edh-builder/config.toml)")
	fs.StringVar(&bf.outputDir, "output", "", "Output directory for deck files (default: from config)")
	fs.StringVar(&bf.strategy, "strategy", "", "Deck strategy: balanced, aggro, control, combo, ramp")
	fs.IntVar(&bf.minLands, "min-lands", 0, "Minimum land count (default: from config)")
	fs.IntVar(&bf.maxLands, "max-lands", 0, "Maximum land count (default: from config)")
	fs.BoolVar(&bf.writeJSON, "json", false, "Also write a JSON deck export")
	fs.BoolVar(&bf.writeCharts, "charts", false, "Render statistics charts to HTML")
	fs.BoolVar(&bf.noCache, "no-cache", false, "Bypass the local card cache")
	fs.DurationVar(&bf.debounce, "debounce", watch.DefaultDebounce, "Rebuild debounce for watch mode")
	fs.BoolVar(&bf.debugMode, "debug-mode", false, "Enable verbose debug logging")

	var debugShort bool
	fs.BoolVar(&debugShort, "d", false, "Enable debug logging (shorthand for -debug-mode)")

	_ = fs.Parse(args)
	if debugShort {
		bf.debugMode = true
	}

	if bf.collectionPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -collection is required")
		fs.Usage()
		os.Exit(1)
	}
	return bf
}

func runBuildCommand(args []string, watchMode bool) {
	bf := parseBuildFlags("build", args)
	if bf.commander == "" {
		fmt.Fprintln(os.Stderr, "Error: -commander is required")
		os.Exit(1)
	}

	app, err := newApp(bf)
	if err != nil {
		log.Fatalf("Error initializing: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.BuildDeck(ctx, bf.collectionPath, bf.commander); err != nil {
		log.Fatalf("Error building deck: %v", err)
	}

	if !watchMode {
		return
	}

	watcher := watch.NewWatcher(bf.collectionPath, func(path string) {
		log.Printf("[Watch] Collection changed, rebuilding...")
		if err := app.BuildDeck(ctx, path, bf.commander); err != nil {
			log.Printf("[Watch] Rebuild failed: %v", err)
		}
	}, watch.WithDebounce(bf.debounce))

	if err := watcher.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Error watching collection: %v", err)
	}
}

func runListCommandersCommand(args []string) {
	bf := parseBuildFlags("list-commanders", args)

	app, err := newApp(bf)
	if err != nil {
		log.Fatalf("Error initializing: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.ListCommanders(ctx, bf.collectionPath); err != nil {
		log.Fatalf("Error listing commanders: %v", err)
	}
}

func runCheckCommanderCommand(args []string) {
	bf := parseBuildFlags("check-commander", args)
	if bf.commander == "" {
		fmt.Fprintln(os.Stderr, "Error: -commander is required")
		os.Exit(1)
	}

	app, err := newApp(bf)
	if err != nil {
		log.Fatalf("Error initializing: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.CheckCommander(ctx, bf.collectionPath, bf.commander); err != nil {
		log.Fatalf("Error checking commander: %v", err)
	}
}

func runMigrationCommand() {
	if len(os.Args) < 3 {
		printMigrationUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	dbPath, err := cfg.CachePath()
	if err != nil {
		log.Fatalf("Error resolving cache path: %v", err)
	}

	mgr, err := storage.NewMigrationManager(dbPath)
	if err != nil {
		log.Fatalf("Error creating migration manager: %v", err)
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Printf("Error closing migration manager: %v", err)
		}
	}()

	switch os.Args[2] {
	case "up":
		fmt.Println("Applying all pending migrations...")
		if err := mgr.Up(); err != nil {
			log.Fatalf("Error applying migrations: %v", err)
		}
		printMigrationVersion(mgr)

	case "down":
		fmt.Println("Rolling back last migration...")
		if err := mgr.Down(); err != nil {
			log.Fatalf("Error rolling back migration: %v", err)
		}
		printMigrationVersion(mgr)

	case "status", "version":
		printMigrationVersion(mgr)

	default:
		fmt.Printf("Unknown migration command: %s\n\n", os.Args[2])
		printMigrationUsage()
		os.Exit(1)
	}
}

func printMigrationVersion(mgr *storage.MigrationManager) {
	version, dirty, err := mgr.Version()
	if err != nil {
		log.Fatalf("Error getting version: %v", err)
	}
	if dirty {
		fmt.Printf("Current version: %d (dirty - migration failed or interrupted)\n", version)
	} else {
		fmt.Printf("Current version: %d\n", version)
	}
}

func printMigrationUsage() {
	fmt.Println("EDH Builder - Cache Migration Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  edh-builder migrate <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up       Apply all pending migrations")
	fmt.Println("  down     Rollback the last migration")
	fmt.Println("  status   Show current migration version")
	fmt.Println("  version  Show current migration version (alias for status)")
}
