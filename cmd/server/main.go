package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/astview/internal/api"
	"github.com/dgallion1/astview/internal/compiler"
	"github.com/dgallion1/astview/internal/config"
	"github.com/dgallion1/astview/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the compiler client.
	cc := compiler.NewClient(cfg.CompilerURL, cfg.CompilerAPIKey, cfg.CompilerTimeout, log)

	// Initialize sessions.
	store := session.NewStore(cc, cfg.Unit(), cfg.SessionTTL, cfg.MaxSessions, log)
	store.Start(ctx, cfg.CleanupInterval)

	// Initialize HTTP server.
	srv := api.NewServer(store, cc.Stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Stop()
		cc.Close()
	}()

	log.Info("starting astview", "port", cfg.Port, "compiler_url", cfg.CompilerURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
