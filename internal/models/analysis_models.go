package models

import "time"

const (
	DefaultMaxSearchResults    = 25
	DefaultMaxCommentsPerVideo = 100
	DefaultCommentPageSize     = 100
	DefaultEmotionThreshold    = 0.4
)

// AnalysisOptions are the per-run tunables.
type AnalysisOptions struct {
	MaxCommentsPerVideo int64   `json:"max_comments_per_video"`
	EmotionThreshold    float64 `json:"emotion_threshold"`
}

// AnalysisDataset is the labeled output of one analysis run. Each run fully
// replaces the previous dataset; there is no incremental merge.
type AnalysisDataset struct {
	RunID     string           `json:"run_id" dynamodbav:"run_id"`
	CreatedAt time.Time        `json:"created_at" dynamodbav:"created_at"`
	Rows      []LabeledComment `json:"rows" dynamodbav:"rows"`
}

// AnalysisResult carries the dataset plus any per-video failure messages that
// were absorbed as partial results along the way.
type AnalysisResult struct {
	Dataset  *AnalysisDataset `json:"dataset"`
	Warnings []string         `json:"warnings,omitempty"`
}
