package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rozenaakter/ai-chat-app/internal/ai"
	"github.com/rozenaakter/ai-chat-app/internal/api"
	"github.com/rozenaakter/ai-chat-app/internal/chat"
	"github.com/rozenaakter/ai-chat-app/internal/config"
	"github.com/rozenaakter/ai-chat-app/internal/handlers"
	"github.com/rozenaakter/ai-chat-app/internal/models"
)

// seedMessage greets users who join an otherwise empty room.
const (
	seedMessage  = "Hello, how can I help you today?"
	seedIdentity = "OSTAD AI"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core state: bounded history, live sessions, typing set.
	store := chat.NewMessageStore(cfg.HistoryCap)
	store.Append(models.Message{Content: seedMessage, Username: seedIdentity, IsAI: true})
	registry := chat.NewSessionRegistry()
	typing := chat.NewTypingCoordinator()

	hub := chat.NewHub(logger, store, registry, typing)

	// AI assist pipeline. With no API key configured the provider calls fail
	// and every mention is answered from the fallback pool.
	if cfg.AI.APIKey == "" {
		logger.Warn().Msg("OPENROUTER_API_KEY not set; AI replies will use fallbacks only")
	}
	pipeline := ai.NewPipeline(logger, ai.NewClient(cfg.AI), hub, store, cfg.AI)
	hub.SetAssistant(pipeline)

	go hub.Run(ctx)
	go pipeline.Run(ctx)

	// Create router
	h := handlers.NewHandler(logger, cfg, hub)
	router := api.NewRouter(logger, h)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("env", cfg.Env).
			Str("trigger", cfg.AI.Trigger).
			Msg("starting chat server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	// Stop the hub and pipeline after the listener drains.
	cancel()

	logger.Info().Msg("server stopped")
}
