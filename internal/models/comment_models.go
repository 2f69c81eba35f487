package models

import "time"

// RawComment is one top-level comment as returned by the comment-thread
// endpoint. CommentID is only unique per video, so consumers must scope it by
// VideoID. PublishedAt is nil when the upstream timestamp failed to parse.
type RawComment struct {
	VideoID     string     `json:"video_id" dynamodbav:"video_id"`
	CommentID   string     `json:"comment_id" dynamodbav:"comment_id"`
	Text        string     `json:"text" dynamodbav:"text"`
	Author      string     `json:"author" dynamodbav:"author"`
	PublishedAt *time.Time `json:"published_at" dynamodbav:"published_at,omitempty"`
	LikeCount   int64      `json:"like_count" dynamodbav:"like_count"`
}

// LabeledComment is a RawComment plus everything the analysis run derives
// from it. DisasterLabels and SentimentLabels are always non-nil; an empty
// slice means "none matched" and is data, not an error.
type LabeledComment struct {
	RawComment
	VideoTitle      string   `json:"video_title" dynamodbav:"video_title"`
	DisasterLabels  []string `json:"disaster_labels" dynamodbav:"disaster_labels"`
	SentimentLabels []string `json:"sentiment_labels" dynamodbav:"sentiment_labels"`
	PolarityScore   float64  `json:"polarity_score" dynamodbav:"polarity_score"`
	CommentHour     *int     `json:"comment_hour" dynamodbav:"comment_hour,omitempty"`
	CommentDate     string   `json:"comment_date,omitempty" dynamodbav:"comment_date,omitempty"`
	CommentYear     *int     `json:"comment_year,omitempty" dynamodbav:"comment_year,omitempty"`
}
