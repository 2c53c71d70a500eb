package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/config"
	"github.com/arcagent/arcagent/internal/db"
	"github.com/arcagent/arcagent/internal/events"
	"github.com/arcagent/arcagent/internal/logging"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/metrics"
	"github.com/arcagent/arcagent/internal/receipts"
	"github.com/arcagent/arcagent/internal/wallet"
	"github.com/arcagent/arcagent/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	corePool, err := db.NewCorePool(ctx, cfg.CoreDatabaseURL, "arcagent-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to core database")
	}
	defer corePool.Close()
	metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, corePool)

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	// Keep rdb a nil interface when Redis is not configured.
	var rdb redis.UniversalClient
	if redisClient != nil {
		defer redisClient.Close()
		rdb = redisClient
	}

	provider, err := wallet.NewFromConfig(cfg, rdb)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure wallet provider")
	}

	catalog, err := messaging.DefaultCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load message catalog")
	}

	publisher := events.New(cfg.AMQPURL, logger)
	defer publisher.Close()

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

	w := worker.New(tc, cfg.TemporalTaskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{&workflow.ErrorTypingInterceptor{}},
	})

	// Register activities
	coreDBActivities := activity.NewCoreDB(corePool)
	w.RegisterActivity(coreDBActivities)

	notifyActivities := activity.NewNotify(messaging.NewSender(cfg, logger), catalog, coreDBActivities, logger)
	w.RegisterActivity(notifyActivities)

	walletActivities := activity.NewWallet(provider, coreDBActivities)
	w.RegisterActivity(walletActivities)

	eventActivities := activity.NewEvents(publisher)
	w.RegisterActivity(eventActivities)

	receiptActivities := activity.NewReceipts(receipts.NewFromConfig(cfg))
	w.RegisterActivity(receiptActivities)

	// Register workflows
	w.RegisterWorkflow(workflow.RegistrationWorkflow)
	w.RegisterWorkflow(workflow.PaymentWorkflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr, corePool.Ping)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().
			Str("taskQueue", cfg.TemporalTaskQueue).
			Str("walletProvider", cfg.WalletProvider).
			Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}
