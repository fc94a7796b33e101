package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equishare-gateway/internal/backend"
	"equishare-gateway/internal/config"
	"equishare-gateway/internal/jobs"
	"equishare-gateway/internal/logger"
	"equishare-gateway/internal/scheduler"
	"equishare-gateway/internal/security"
	"equishare-gateway/internal/server"
	"equishare-gateway/internal/session"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Initialize("info", "text")
		logger.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EquiShare gateway", "backend", cfg.Backend.BaseURL)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout())
	tokens := security.NewTokenManager(cfg.Session.Secret)
	sessions := session.NewManager(client, tokens, cfg.SessionTTL())

	jobRunner := jobs.NewJobRunner(sessions, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	srv := server.New(client, sessions, cfg.Session.CookieName, cfg.SessionTTL())
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Gateway listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gateway")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
