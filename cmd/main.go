package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ccloudinthesky/journee/config"
	deps "github.com/ccloudinthesky/journee/internal/debs"
	api "github.com/ccloudinthesky/journee/internal/http/rest"
	"github.com/ccloudinthesky/journee/util"
	"go.uber.org/zap"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()

	logger, err := util.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	dependencies, err := deps.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise dependencies", zap.Error(err))
	}

	a := &api.API{
		Config: cfg,
		Deps:   dependencies,
		Logger: logger,
	}
	a.Init()

	ctx, stopHub := context.WithCancel(context.Background())
	go dependencies.WebSocket.Run(ctx)

	go func() {
		logger.Info("server running", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := a.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	logger.Info("shutdown requested, draining", zap.Duration("grace", allowConnectionsAfterShutdown))
	time.Sleep(allowConnectionsAfterShutdown)

	if err := a.Shutdown(); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	stopHub()
	dependencies.Close()
	logger.Info("server stopped, database connections closed")
}
