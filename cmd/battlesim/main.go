// Package main provides the battle simulator binary. It serves the battle
// operations as MCP tools over stdio and, when enabled, as a gRPC service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/element"
	"github.com/cory-johannsen/battlesim/internal/gameserver"
	"github.com/cory-johannsen/battlesim/internal/mcpserver"
	"github.com/cory-johannsen/battlesim/internal/observability"
	"github.com/cory-johannsen/battlesim/internal/provider/pokeapi"
	"github.com/cory-johannsen/battlesim/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and BATTLESIM_ environment overrides")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	client := pokeapi.NewClient(cfg.Provider, logger.Named("pokeapi"))
	svc := gameserver.NewService(client, element.Default(), combat.DefaultRules(logger.Named("scripting")), cfg.Battle, logger)

	lifecycle := server.NewLifecycle(logger)

	if cfg.MCP.Enabled {
		mcpServer := mcpserver.New(cfg.MCP, svc, logger.Named("mcp"))
		mcpCtx, cancelMCP := context.WithCancel(ctx)
		lifecycle.Add("mcp", &server.FuncService{
			StartFn: func() error {
				return mcpServer.Run(mcpCtx, &mcp.StdioTransport{})
			},
			StopFn: cancelMCP,
		})
	}

	if cfg.GRPC.Enabled {
		grpcServer, healthServer := gameserver.NewGRPCServer(svc, logger.Named("grpc"))
		lifecycle.Add("grpc", &server.FuncService{
			StartFn: func() error {
				lis, err := net.Listen("tcp", cfg.GRPC.Addr())
				if err != nil {
					return fmt.Errorf("listening on %s: %w", cfg.GRPC.Addr(), err)
				}
				logger.Info("gRPC server listening",
					zap.String("addr", lis.Addr().String()),
				)
				return grpcServer.Serve(lis)
			},
			StopFn: func() {
				healthServer.Shutdown()
				grpcServer.GracefulStop()
			},
		})
	}

	logger.Info("battle simulator initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Bool("mcp", cfg.MCP.Enabled),
		zap.Bool("grpc", cfg.GRPC.Enabled),
		zap.Int64("seed", cfg.Battle.Seed),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}
