package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/app"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/observability"
	"github.com/spec-kit/lostfound-service/internal/seed"
)

func main() {
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment")
	seedFile := pflag.String("seed", "", "YAML file with moderator accounts to create at start-up")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}

	a := app.New(cfg, stores, logger)

	if *seedFile != "" {
		file, err := seed.Load(*seedFile)
		if err != nil {
			logger.Fatal("failed to read seed file", zap.Error(err))
		}
		if err := seed.Apply(ctx, file, a.Auth, logger); err != nil {
			logger.Fatal("failed to apply seed file", zap.Error(err))
		}
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("store", string(cfg.Store.Driver)),
			zap.String("mutation_policy", string(cfg.Items.MutationPolicy)))
		if err := a.Fiber.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := a.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	stores.Close(closeCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
