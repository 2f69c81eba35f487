package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yunseo-dev/disasterscope/config"
	"github.com/yunseo-dev/disasterscope/internal/analysis"
	"github.com/yunseo-dev/disasterscope/internal/api"
	"github.com/yunseo-dev/disasterscope/internal/clients"
	"github.com/yunseo-dev/disasterscope/internal/collection"
	"github.com/yunseo-dev/disasterscope/internal/db"
	"github.com/yunseo-dev/disasterscope/internal/logging"
	"github.com/yunseo-dev/disasterscope/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	service, err := clients.GetYouTubeService()
	if err != nil {
		slog.Error("[Main] YouTube client unavailable, cannot serve",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache, err := clients.InitValkey()
	if err != nil {
		slog.Warn("[Main] Result caching disabled", slog.String("error", err.Error()))
	}
	defer clients.CloseValkey()

	var archive api.Archiver
	if a, err := db.NewArchive(); err == nil {
		archive = a
	}

	collector := collection.NewClient(service, cache)
	classifier := sentiment.GetClassifier()
	if !classifier.Ready() {
		slog.Warn("[Main] Emotion model not loaded, sentiment labels will be empty")
	}

	orchestrator := analysis.NewOrchestrator(collector, classifier)
	server := api.NewServer(collector, orchestrator, archive)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] HTTP server listening", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] HTTP server failed", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Shutdown error", slog.String("error", err.Error()))
	}
}
