// Package analysis composes collection, disaster labeling, and emotion
// classification into one dataset per run.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yunseo-dev/disasterscope/internal/keywords"
	"github.com/yunseo-dev/disasterscope/internal/models"
	"github.com/yunseo-dev/disasterscope/internal/sentiment"
)

// ErrNoComments is the explicit no-data outcome: every selected video
// yielded zero comments. It is informational, not a failure.
var ErrNoComments = errors.New("analysis: no comments collected for any selected video")

// Collector pulls raw comments for one video. A non-nil error may accompany
// a partial result.
type Collector interface {
	CollectComments(ctx context.Context, videoID string, maxPerPage, totalCap int64) ([]models.RawComment, error)
}

// EmotionClassifier labels a batch of texts, one label list per text.
type EmotionClassifier interface {
	ClassifyBatch(texts []string, threshold float64) [][]string
}

// Orchestrator runs one analysis pass over a selection set. The labeling
// functions are injected so tests can run without dictionaries or models.
type Orchestrator struct {
	collector     Collector
	classifier    EmotionClassifier
	labelDisaster func(text string) []string
	polarityScore func(text string) float64
	pageSize      int64
}

func NewOrchestrator(collector Collector, classifier EmotionClassifier) *Orchestrator {
	return &Orchestrator{
		collector:     collector,
		classifier:    classifier,
		labelDisaster: keywords.LabelDisaster,
		polarityScore: sentiment.PolarityScore,
		pageSize:      models.DefaultCommentPageSize,
	}
}

// Run collects comments for every selected video in selection order, labels
// them, and assembles a fresh dataset that fully replaces any prior run.
// Per-video collection failures shrink the dataset and surface as warnings;
// only a completely empty collection ends the run, with ErrNoComments.
func (o *Orchestrator) Run(ctx context.Context, selection *models.SelectionSet, opts models.AnalysisOptions) (*models.AnalysisResult, error) {
	if opts.MaxCommentsPerVideo <= 0 {
		opts.MaxCommentsPerVideo = models.DefaultMaxCommentsPerVideo
	}
	if opts.EmotionThreshold <= 0 {
		opts.EmotionThreshold = models.DefaultEmotionThreshold
	}

	var warnings []string
	var collected []models.RawComment
	var titles []string

	for _, video := range selection.Videos() {
		comments, err := o.collector.CollectComments(ctx, video.VideoID, o.pageSize, opts.MaxCommentsPerVideo)
		if err != nil {
			warnings = append(warnings,
				fmt.Sprintf("comment collection for video %q was cut short; keeping %d collected comments", video.VideoID, len(comments)))
		}
		for _, comment := range comments {
			collected = append(collected, comment)
			titles = append(titles, video.Title)
		}
		slog.Info("[Orchestrator] Collected comments for video",
			slog.String("video_id", video.VideoID),
			slog.Int("count", len(comments)))
	}

	if len(collected) == 0 {
		return &models.AnalysisResult{Warnings: warnings}, ErrNoComments
	}

	// One global batch across all videos: cheaper than per-video calls and
	// identical per-text results.
	texts := make([]string, len(collected))
	for i, comment := range collected {
		texts[i] = comment.Text
	}
	sentimentLabels := o.classifier.ClassifyBatch(texts, opts.EmotionThreshold)

	rows := make([]models.LabeledComment, 0, len(collected))
	for i, comment := range collected {
		row := models.LabeledComment{
			RawComment:      comment,
			VideoTitle:      titles[i],
			DisasterLabels:  ensureLabels(o.labelDisaster(comment.Text)),
			SentimentLabels: ensureLabels(sentimentLabels[i]),
			PolarityScore:   o.polarityScore(comment.Text),
		}
		if comment.PublishedAt != nil {
			hour := comment.PublishedAt.Hour()
			year := comment.PublishedAt.Year()
			row.CommentHour = &hour
			row.CommentDate = comment.PublishedAt.Format("2006-01-02")
			row.CommentYear = &year
		}
		rows = append(rows, row)
	}

	dataset := &models.AnalysisDataset{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Rows:      rows,
	}

	slog.Info("[Orchestrator] Analysis run complete",
		slog.String("run_id", dataset.RunID),
		slog.Int("videos", selection.Len()),
		slog.Int("rows", len(rows)),
		slog.Int("warnings", len(warnings)))

	return &models.AnalysisResult{Dataset: dataset, Warnings: warnings}, nil
}

// ensureLabels upholds the dataset invariant that label fields are lists,
// never nil.
func ensureLabels(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
