// Package main is the entry point for the Play Whe draw analysis service.
// It records lottery draws, maintains per-number frequency counts, and
// serves ranked prediction sets backed by backtested validation.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/playwhe/internal/config"
	"github.com/aristath/playwhe/internal/database"
	"github.com/aristath/playwhe/internal/modules/draws"
	drawshandlers "github.com/aristath/playwhe/internal/modules/draws/handlers"
	"github.com/aristath/playwhe/internal/modules/ingestion"
	ingestionhandlers "github.com/aristath/playwhe/internal/modules/ingestion/handlers"
	"github.com/aristath/playwhe/internal/modules/prediction"
	predictionhandlers "github.com/aristath/playwhe/internal/modules/prediction/handlers"
	"github.com/aristath/playwhe/internal/modules/scoring"
	"github.com/aristath/playwhe/internal/modules/snapshots"
	"github.com/aristath/playwhe/internal/modules/validation"
	"github.com/aristath/playwhe/internal/scheduler"
	"github.com/aristath/playwhe/internal/server"
	"github.com/aristath/playwhe/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Int("port", cfg.Port).
		Msg("Starting Play Whe analysis service")

	// The draw log is an audit trail; the snapshot cache is ephemeral.
	drawsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "draws.db"),
		Profile: database.ProfileLedger,
		Name:    "draws",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open draws database")
	}
	defer drawsDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{drawsDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to run migrations")
		}
	}

	// Repositories and services
	drawRepo := draws.NewDrawRepository(drawsDB.Conn(), log)
	freqRepo := draws.NewFrequencyRepository(drawsDB.Conn(), log)
	drawService := draws.NewService(drawRepo, freqRepo, log)

	ingestionService := ingestion.NewService(drawRepo, freqRepo, log)

	snapshotRepo := snapshots.NewRepository(cacheDB.Conn(), log)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scorer := scoring.NewScorer(log, rng)
	validator := validation.New(log)
	predictionService := prediction.NewService(drawService, scorer, validator, log)

	// Background jobs
	sched := scheduler.New(log)
	reconcileJob := scheduler.NewReconcileFrequenciesJob(drawRepo, freqRepo, log)
	if err := sched.AddJob(cfg.ReconcileSchedule, reconcileJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register reconciliation job")
	}
	pruneJob := scheduler.NewPruneSnapshotsJob(snapshotRepo, log)
	if err := sched.AddJob(cfg.PruneSchedule, pruneJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register snapshot prune job")
	}
	sched.Start()

	// Repair any drift left over from a previous unclean shutdown
	// before the API starts serving frequency data.
	if err := sched.RunNow(reconcileJob); err != nil {
		log.Error().Err(err).Msg("Startup frequency reconciliation failed")
	}

	srv := server.New(server.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		DataDir: cfg.DataDir,
		DrawsDB: drawsDB,
		CacheDB: cacheDB,
		Handlers: []server.RouteRegistrar{
			drawshandlers.NewHandler(drawService, log),
			ingestionhandlers.NewHandler(ingestionService, log),
			predictionhandlers.NewHandler(predictionService, snapshotRepo, drawService, validator, log),
		},
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
