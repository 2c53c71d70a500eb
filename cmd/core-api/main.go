package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/api"
	"github.com/arcagent/arcagent/internal/config"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/db"
	"github.com/arcagent/arcagent/internal/logging"
	"github.com/arcagent/arcagent/internal/mcpserver"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/metrics"
	"github.com/arcagent/arcagent/internal/wallet"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations/core", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("core-api"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.CoreDatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	corePool, err := db.NewCorePool(ctx, cfg.CoreDatabaseURL, "arcagent-core-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to core database")
	}
	defer corePool.Close()
	metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, corePool)

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	var rdb redis.UniversalClient
	if redisClient != nil {
		defer redisClient.Close()
		rdb = redisClient
	}

	// Without a provider the balance endpoints report an error.
	provider, err := wallet.NewFromConfig(cfg, rdb)
	if err != nil {
		logger.Warn().Err(err).Msg("wallet provider unavailable, balance reads disabled")
	}

	catalog, err := messaging.DefaultCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load message catalog")
	}

	dialOpts, err := cfg.TemporalClientOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure temporal TLS")
	}
	if dialOpts.ConnectionOptions.TLS != nil {
		logger.Info().Msg("temporal mTLS enabled")
	}
	dialOpts.Logger = logging.NewTemporalLogger(logger)
	tc, err := temporalclient.Dial(dialOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	services := core.NewServices(tc, activity.NewCoreDB(corePool), provider, rdb,
		messaging.NewSender(cfg, logger), catalog, core.Options{
			TaskQueue:       cfg.TemporalTaskQueue,
			AutoVerify:      cfg.RegistrationAutoVerify,
			PINSetupBaseURL: cfg.PINSetupBaseURL,
		})

	mcpSrv, err := mcpserver.New(services, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create MCP server")
	}

	checks := map[string]api.ReadyCheck{
		"core_db": corePool.Ping,
		"temporal": func(ctx context.Context) error {
			_, err := tc.CheckHealth(ctx, &temporalclient.CheckHealthRequest{})
			return err
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	srv := api.NewServer(logger, cfg, services, catalog, rdb, mcpSrv, checks)

	// WriteTimeout stays unset: payment watch sockets and MCP streams are long-lived.
	httpServer := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting core API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
