package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/sbb-sim/internal/catalog"
	"github.com/magefree/sbb-sim/internal/config"
	"github.com/magefree/sbb-sim/internal/game"
	"github.com/magefree/sbb-sim/internal/trials"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Cancel the run on termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("species", cat.Len()))

	rosterA, err := game.ParseRoster(cfg.Rosters.A)
	if err != nil {
		logger.Fatal("invalid roster for side A", zap.Error(err))
	}
	rosterB, err := game.ParseRoster(cfg.Rosters.B)
	if err != nil {
		logger.Fatal("invalid roster for side B", zap.Error(err))
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	runner := trials.NewRunner(cat, logger)
	summary, err := runner.Run(ctx, trials.Spec{
		RosterA: rosterA,
		RosterB: rosterB,
		Trials:  cfg.Simulation.Trials,
		Seed:    seed,
		Workers: cfg.Simulation.Workers,
	})
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	fmt.Printf("side A: %v\n", rosterA)
	fmt.Printf("side B: %v\n", rosterB)
	fmt.Printf("trials: %d  seed: %d\n", summary.Trials, summary.Seed)
	fmt.Printf("wins: %d  draws: %d  losses: %d\n", summary.Wins, summary.Draws, summary.Losses)
	fmt.Printf("score: %.4f  mean turns: %.2f\n", summary.Score(), summary.MeanTurns())
}

// loadCatalog picks the template source: database, then file, then the
// bundled catalog.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	switch {
	case cfg.DatabaseURL != "":
		logger.Info("loading catalog from database")
		loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return catalog.OpenPostgres(loadCtx, cfg.DatabaseURL)
	case cfg.Path != "":
		logger.Info("loading catalog from file", zap.String("path", cfg.Path))
		return catalog.LoadFile(cfg.Path)
	default:
		return catalog.Default()
	}
}

// initLogger builds the logger from configuration. Unknown levels fall back
// to info; console output is meant for a terminal, json for log collectors.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build(zap.Fields(zap.String("app", "sbb-sim")))
}
