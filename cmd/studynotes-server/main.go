// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/northbound/studynotes/internal/ai"
	"github.com/northbound/studynotes/internal/config"
	"github.com/northbound/studynotes/internal/logger"
	"github.com/northbound/studynotes/internal/parser"
	"github.com/northbound/studynotes/internal/progress"
	"github.com/northbound/studynotes/internal/server"
	"github.com/northbound/studynotes/internal/session"
	"github.com/northbound/studynotes/internal/study"
)

var (
	configPath = pflag.String("config", "", "Path to a YAML config file (default ./studynotes.yaml if present)")
	port       = pflag.Int("port", 8501, "HTTP server port")
)

func main() {
	pflag.Parse()

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: failed to load .env: %v", err)
	}

	v := viper.New()
	if err := v.BindPFlag("server.port", pflag.Lookup("port")); err != nil {
		log.Fatalf("failed to bind flags: %v", err)
	}
	cfg, err := config.Load(v, *configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, closeLog, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	ctx := context.Background()

	extractor, err := parser.NewExtractor(cfg.Extract.PDFBackend, lg)
	if err != nil {
		lg.Fatal("failed to initialize extractor", zap.Error(err))
	}

	completer, err := ai.NewCompleter(ctx, cfg.LLM)
	if err != nil {
		// Keep serving; every generation reports the cause
		lg.Warn("generation client unavailable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		completer = ai.Unavailable(err)
	} else {
		lg.Info("initialized generation client", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	}
	if c, ok := completer.(io.Closer); ok {
		defer c.Close()
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize session store", zap.Error(err))
	}
	defer closeSessions()

	srv, err := server.New(server.Options{
		Study:          study.NewService(completer, lg),
		Extractor:      extractor,
		Sessions:       sessions,
		Progress:       progress.NewBroadcaster(),
		Logger:         lg,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})
	if err != nil {
		lg.Fatal("failed to initialize server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	waitForShutdown(httpServer, lg)
}

// newSessionStore builds the configured session backend and its cleanup func
func newSessionStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (session.Store, func(), error) {
	if cfg.Session.Backend != "redis" {
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}

	client, err := config.NewRedisClient(ctx, cfg.Redis, lg)
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewRedisStore(client, session.DefaultKeyPrefix, cfg.Session.TTL)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return store, func() { client.Close() }, nil
}

func waitForShutdown(httpServer *http.Server, lg *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lg.Info("Shutting down server...")

	if err := httpServer.Shutdown(ctx); err != nil {
		lg.Error("HTTP shutdown error", zap.Error(err))
	}
}
