/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the asset depreciation server.
  Handles configuration, dependency injection, and graceful shutdown.

COMMANDS:
  serve (default)  Run the HTTP API
  seed             Load a catalog file into the database and exit

STARTUP SEQUENCE (serve):
  1. Load configuration (env, .env, flags)
  2. Configure the logger
  3. Initialize SQLite store (and the Redis lock when REDIS_URL is set)
  4. Create API handler, router and close scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  --port   HTTP server port (overrides PORT)
  --db     SQLite database path (overrides DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Stop the close scheduler
  3. Wait for active requests to complete (30s timeout)
  4. Close database and Redis connections
  5. Exit

EXAMPLES:
  # Run with file database
  ./server --db=./data/depreciacion.db

  # Run with in-memory database, seeded from a catalog
  ./server seed --db=./data/demo.db --file=catalogo.yaml

ENVIRONMENT:
  PORT, APP_ENV, LOG_LEVEL, CORS_ORIGINS, RATE_LIMIT, DB_PATH, REDIS_URL,
  LOCK_TTL, BATCH_WORKERS, CLOSE_INTERVAL (see config/config.go)

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warp/asset-depreciation/api"
	"github.com/warp/asset-depreciation/config"
	"github.com/warp/asset-depreciation/depreciation"
	"github.com/warp/asset-depreciation/store/redislock"
	"github.com/warp/asset-depreciation/store/sqlite"
)

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Asset depreciation ledger API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	root.PersistentFlags().Int("port", 0, "HTTP server port")
	root.PersistentFlags().String("db", "", "SQLite database path")
	v.BindPFlag("PORT", root.PersistentFlags().Lookup("port"))
	v.BindPFlag("DB_PATH", root.PersistentFlags().Lookup("db"))

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	})
	root.AddCommand(newSeedCmd(v))
	return root
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	store, svc, cleanup, err := openService(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		return err
	}
	defer cleanup()

	handler := api.NewHandler(svc, store)
	router, err := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to configure router")
		return err
	}

	scheduler := api.NewCloseScheduler(svc.Engine)
	scheduler.CheckInterval = cfg.CloseInterval
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("db", cfg.DBPath).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		scheduler.Stop()
		log.Error().Err(err).Msg("server failed")
		return err
	}

	log.Info().Msg("shutting down server")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

// =============================================================================
// WIRING
// =============================================================================

func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return nil, err
	}
	setupLogger(cfg)
	return cfg, nil
}

// setupLogger: console output in development, JSON in production.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// openService opens the store and the lock backend and wires the service.
func openService(ctx context.Context, cfg *config.Config) (*sqlite.Store, *depreciation.Service, func(), error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	opts := []depreciation.Option{depreciation.WithWorkers(cfg.BatchWorkers)}
	var client *redis.Client
	if cfg.RedisURL != "" {
		client, err = redislock.Connect(ctx, cfg.RedisURL)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		opts = append(opts, depreciation.WithLocker(redislock.New(client, cfg.LockTTL)))
		log.Info().Msg("using redis asset locks")
	}

	cleanup := func() {
		if client != nil {
			client.Close()
		}
		store.Close()
	}
	return store, depreciation.New(store, opts...), cleanup, nil
}
