// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log" // Standard log for messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"startupteam_backend/internal/app"
	"startupteam_backend/internal/application"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/platform/logger"
	"startupteam_backend/internal/role"
	"startupteam_backend/internal/startup"
)

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		startServer()
	case "migrate":
		runMigrate()
	case "sync-startups":
		syncCmd := flag.NewFlagSet("sync-startups", flag.ExitOnError)
		timeout := syncCmd.Duration("timeout", 10*time.Minute, "Upper bound for the whole reindex")
		_ = syncCmd.Parse(os.Args[2:])
		runStartupSync(*timeout)
	default:
		log.Fatalf("FATAL: unknown command %q (expected serve, migrate or sync-startups)", cmd)
	}
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
}

func runMigrate() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for migrate: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for migrate: %v", err)
	}
	db, cleanup, err := provideDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize database for migrate", zap.Error(err))
	}
	defer cleanup()

	if err := app.Migrate(db, appLogger); err != nil {
		appLogger.Error("Migration failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

// runStartupSync pushes every active startup into the search index.
func runStartupSync(timeout time.Duration) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
	}
	db, cleanup, err := provideDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize database for sync", zap.Error(err))
	}
	defer cleanup()

	esClient, err := provideSearchClient(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize Elasticsearch client for sync", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	if esClient == nil {
		appLogger.Error("ELASTICSEARCH_URL is not set; nothing to sync.")
		cleanup()
		os.Exit(1)
	}

	service := startup.NewService(
		startup.NewGORMRepository(db),
		role.NewGORMRepository(db),
		application.NewGORMRepository(db),
		startup.NewSearchIndex(esClient, appLogger),
		appLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	appLogger.Info("Starting startup synchronization to Elasticsearch...", zap.Duration("timeout", timeout))
	indexed, err := service.Reindex(ctx)
	if err != nil {
		appLogger.Error("Startup synchronization failed", zap.Int("indexed", indexed), zap.Error(err))
		cancel()
		cleanup()
		os.Exit(1)
	}
	appLogger.Info("Startup synchronization completed successfully.", zap.Int("indexed", indexed))
}
