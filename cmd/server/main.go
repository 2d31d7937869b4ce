package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/omochice/roomtalk/internal/config"
	"github.com/omochice/roomtalk/internal/logging"
	"github.com/omochice/roomtalk/internal/room"
	"github.com/omochice/roomtalk/internal/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	var history room.HistoryStore = room.NewMemoryHistory(cfg.HistoryLimit)
	if cfg.RedisAddr != "" {
		rh, err := room.NewRedisHistory(context.Background(), room.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.HistoryLimit)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rh.Close()
		history = rh
		logger.Info("room history in redis", zap.String("addr", cfg.RedisAddr))
	}

	srv := server.New(server.Config{
		Address:   cfg.Addr,
		QueueSize: cfg.QueueSize,
		Logger:    logger,
	}, room.NewHub(history, logger))
	if err := srv.Listen(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("accepting TCP and WebSocket connections", zap.String("addr", srv.Addr()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-sigChan:
		logger.Info("shutting down", zap.Stringer("signal", sig))
		srv.Stop()
	}

	logger.Info("server stopped")
}
