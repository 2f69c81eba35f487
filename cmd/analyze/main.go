// Command analyze runs the full pipeline once from the terminal: search for
// disaster videos, collect their comments, label them, and write the dataset
// as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/yunseo-dev/disasterscope/config"
	"github.com/yunseo-dev/disasterscope/internal/analysis"
	"github.com/yunseo-dev/disasterscope/internal/clients"
	"github.com/yunseo-dev/disasterscope/internal/collection"
	"github.com/yunseo-dev/disasterscope/internal/db"
	"github.com/yunseo-dev/disasterscope/internal/keywords"
	"github.com/yunseo-dev/disasterscope/internal/logging"
	"github.com/yunseo-dev/disasterscope/internal/models"
	"github.com/yunseo-dev/disasterscope/internal/sentiment"
)

func main() {
	query := flag.String("query", "", "disaster-related search query (required unless -videos is set)")
	order := flag.String("order", collection.ORDER_RELEVANCE, "search order: relevance or viewCount")
	maxResults := flag.Int64("max-results", models.DefaultMaxSearchResults, "max search results to consider")
	videoIDs := flag.String("videos", "", "comma-separated video ids to analyze directly, bypassing search")
	maxComments := flag.Int64("max-comments", models.DefaultMaxCommentsPerVideo, "max comments collected per video")
	threshold := flag.Float64("threshold", models.DefaultEmotionThreshold, "emotion label decision threshold")
	out := flag.String("out", "", "write the dataset JSON to this file instead of stdout")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	if *query == "" && *videoIDs == "" {
		slog.Error("[Main] Either -query or -videos is required")
		os.Exit(1)
	}

	service, err := clients.GetYouTubeService()
	if err != nil {
		slog.Error("[Main] YouTube client unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache, err := clients.InitValkey()
	if err != nil {
		slog.Warn("[Main] Result caching disabled", slog.String("error", err.Error()))
	}
	defer clients.CloseValkey()

	ctx := context.Background()
	collector := collection.NewClient(service, cache)

	selection := models.NewSelectionSet()
	if *videoIDs != "" {
		for _, id := range strings.Split(*videoIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if err := selection.Add(id, id); err != nil {
				slog.Error("[Main] Invalid selection", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	} else {
		if !keywords.ContainsDisasterTerm(*query) {
			slog.Error("[Main] Query has no known disaster keyword",
				slog.String("query", *query))
			os.Exit(1)
		}

		videos, err := collector.SearchVideos(ctx, *query, *order, *maxResults)
		if err != nil {
			slog.Error("[Main] Video search failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, video := range videos {
			if selection.Len() >= models.MaxSelectedVideos {
				break
			}
			if err := selection.Add(video.VideoID, video.Title); err != nil {
				slog.Warn("[Main] Skipping video", slog.String("error", err.Error()))
			}
		}
	}

	if selection.Len() == 0 {
		slog.Error("[Main] Nothing to analyze: no videos selected")
		os.Exit(1)
	}

	orchestrator := analysis.NewOrchestrator(collector, sentiment.GetClassifier())
	result, err := orchestrator.Run(ctx, selection, models.AnalysisOptions{
		MaxCommentsPerVideo: *maxComments,
		EmotionThreshold:    *threshold,
	})
	if err != nil {
		if errors.Is(err, analysis.ErrNoComments) {
			slog.Warn("[Main] No comments collected for any selected video")
			os.Exit(0)
		}
		slog.Error("[Main] Analysis run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, warning := range result.Warnings {
		slog.Warn("[Main] " + warning)
	}

	if archive, err := db.NewArchive(); err == nil {
		if err := archive.StoreRun(ctx, result.Dataset); err != nil {
			slog.Warn("[Main] Failed to archive run", slog.String("error", err.Error()))
		}
	}

	data, err := json.MarshalIndent(result.Dataset, "", "  ")
	if err != nil {
		slog.Error("[Main] Failed to encode dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(append(data, '\n'))
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		slog.Error("[Main] Failed to write dataset file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Dataset written",
		slog.String("path", *out),
		slog.Int("rows", len(result.Dataset.Rows)))
}
