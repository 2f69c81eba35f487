package collection

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yunseo-dev/disasterscope/internal/clients"
	"github.com/yunseo-dev/disasterscope/internal/models"
)

// CollectComments pages through a video's top-level comments up to totalCap.
// Each page asks for min(maxPerPage, remaining budget) items and follows the
// continuation token until the budget or the thread is exhausted. An API
// error at any point stops paging and returns everything accumulated so far
// together with the error; this is best effort under quota pressure, not a
// failure of the run. The result is always truncated to totalCap.
func (c *Client) CollectComments(ctx context.Context, videoID string, maxPerPage, totalCap int64) ([]models.RawComment, error) {
	comments := []models.RawComment{}
	if totalCap <= 0 {
		return comments, nil
	}

	cacheKey := clients.CommentsCacheKey(videoID, totalCap)
	if cached, ok := c.cache.CacheGet(ctx, cacheKey); ok {
		var cachedComments []models.RawComment
		if err := json.Unmarshal(cached, &cachedComments); err == nil {
			slog.Info("[CommentCollector] Returning cached comments",
				slog.String("video_id", videoID),
				slog.Int("count", len(cachedComments)))
			return cachedComments, nil
		}
	}

	pageToken := ""
	for int64(len(comments)) < totalCap {
		pageSize := maxPerPage
		if remaining := totalCap - int64(len(comments)); remaining < pageSize {
			pageSize = remaining
		}
		if pageSize <= 0 {
			break
		}

		response, err := c.fetchCommentPage(ctx, videoID, pageSize, pageToken)
		if err != nil {
			logAPIError("[CommentCollector] Comment page fetch failed, returning partial result", err)
			return truncate(comments, totalCap), err
		}

		usable := 0
		for _, item := range response.Items {
			if item.Snippet == nil || item.Snippet.TopLevelComment == nil {
				continue
			}
			topLevel := item.Snippet.TopLevelComment
			snippet := topLevel.Snippet
			if snippet == nil {
				continue
			}

			comment := models.RawComment{
				VideoID:   videoID,
				CommentID: topLevel.Id,
				Text:      snippet.TextDisplay,
				Author:    snippet.AuthorDisplayName,
				LikeCount: snippet.LikeCount,
			}
			// A bad timestamp degrades to nil, it never drops the comment.
			if publishedAt, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
				comment.PublishedAt = &publishedAt
			}

			comments = append(comments, comment)
			usable++
		}

		pageToken = response.NextPageToken
		if pageToken == "" || usable == 0 {
			break
		}
	}

	comments = truncate(comments, totalCap)

	slog.Info("[CommentCollector] Collection complete",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))

	if data, err := json.Marshal(comments); err == nil {
		c.cache.CacheSet(ctx, cacheKey, data)
	}

	return comments, nil
}

func truncate(comments []models.RawComment, cap int64) []models.RawComment {
	if int64(len(comments)) > cap {
		return comments[:cap]
	}
	return comments
}
