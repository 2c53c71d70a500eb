// Command mcp-server speaks MCP over stdio for local agent hosts. It drives
// the same workflows as the /mcp endpoint of core-api.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/config"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/db"
	"github.com/arcagent/arcagent/internal/logging"
	"github.com/arcagent/arcagent/internal/mcpserver"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/wallet"
)

func main() {
	configPath := flag.String("config", "", "Path to a tools.yaml override (defaults to the embedded one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("mcp"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries the protocol.
	logger := logging.NewLogger(cfg).Output(os.Stderr)

	var toolCfg *mcpserver.Config
	if *configPath != "" {
		if toolCfg, err = mcpserver.LoadConfig(*configPath); err != nil {
			logger.Fatal().Err(err).Msg("failed to load tool config")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	corePool, err := db.NewCorePool(ctx, cfg.CoreDatabaseURL, "arcagent-mcp")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to core database")
	}
	defer corePool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	var rdb redis.UniversalClient
	if redisClient != nil {
		defer redisClient.Close()
		rdb = redisClient
	}

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

	srv, err := mcpserver.New(services, toolCfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create MCP server")
	}

	logger.Info().Msg("MCP stdio server starting")
	if err := srv.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("stdio server error")
	}
	logger.Info().Msg("MCP stdio server stopped")
}
