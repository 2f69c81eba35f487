// Package collection wraps the YouTube Data API surfaces the analysis
// pipeline pulls from: video search and comment threads. Both degrade to
// partial or empty results under quota pressure instead of failing a run.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"github.com/yunseo-dev/disasterscope/internal/clients"
	"github.com/yunseo-dev/disasterscope/internal/models"
)

const (
	// Region/language bias is fixed configuration, not caller input.
	REGION_CODE        = "KR"
	RELEVANCE_LANGUAGE = "ko"

	ORDER_RELEVANCE  = "relevance"
	ORDER_VIEW_COUNT = "viewCount"
)

type searchFetcher func(ctx context.Context, query, order string, maxResults int64) (*youtube.SearchListResponse, error)

type commentPageFetcher func(ctx context.Context, videoID string, pageSize int64, pageToken string) (*youtube.CommentThreadListResponse, error)

// Client fetches candidate videos and raw comments, consulting the shared
// result cache before spending quota.
type Client struct {
	fetchSearch      searchFetcher
	fetchCommentPage commentPageFetcher
	cache            *clients.ValkeyClient
}

// NewClient builds a collection client over the given YouTube service.
func NewClient(service *youtube.Service, cache *clients.ValkeyClient) *Client {
	return &Client{
		fetchSearch: func(ctx context.Context, query, order string, maxResults int64) (*youtube.SearchListResponse, error) {
			return service.Search.List([]string{"id", "snippet"}).
				Q(query).
				Type("video").
				Order(order).
				MaxResults(maxResults).
				RegionCode(REGION_CODE).
				RelevanceLanguage(RELEVANCE_LANGUAGE).
				Context(ctx).
				Do()
		},
		fetchCommentPage: func(ctx context.Context, videoID string, pageSize int64, pageToken string) (*youtube.CommentThreadListResponse, error) {
			call := service.CommentThreads.List([]string{"snippet"}).
				VideoId(videoID).
				MaxResults(pageSize).
				TextFormat("plainText").
				Order("relevance").
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			return call.Do()
		},
		cache: cache,
	}
}

// SearchVideos returns up to maxResults candidate videos for the query.
// Items without a video id are dropped; missing optional metadata is filled
// with empty strings. A non-nil error means the upstream call failed; the
// HTTP boundary collapses that to an empty list plus a reported message.
func (c *Client) SearchVideos(ctx context.Context, query, order string, maxResults int64) ([]models.CandidateVideo, error) {
	cacheKey := clients.SearchCacheKey(query, order, maxResults)
	if cached, ok := c.cache.CacheGet(ctx, cacheKey); ok {
		var videos []models.CandidateVideo
		if err := json.Unmarshal(cached, &videos); err == nil {
			slog.Info("[SearchClient] Returning cached search results",
				slog.String("query", query),
				slog.Int("count", len(videos)))
			return videos, nil
		}
	}

	response, err := c.fetchSearch(ctx, query, order, maxResults)
	if err != nil {
		logAPIError("[SearchClient] Video search failed", err)
		return nil, err
	}

	videos := make([]models.CandidateVideo, 0, len(response.Items))
	for _, item := range response.Items {
		// only a missing video id disqualifies an item
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}

		video := models.CandidateVideo{VideoID: item.Id.VideoId}
		if item.Snippet != nil {
			video.Title = item.Snippet.Title
			video.PublishedAt = item.Snippet.PublishedAt
			if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
				video.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
			}
		}
		videos = append(videos, video)
	}

	slog.Info("[SearchClient] Search complete",
		slog.String("query", query),
		slog.String("order", order),
		slog.Int("count", len(videos)))

	if data, err := json.Marshal(videos); err == nil {
		c.cache.CacheSet(ctx, cacheKey, data)
	}

	return videos, nil
}

func logAPIError(msg string, err error) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		slog.Error(msg,
			slog.Int("status", apiErr.Code),
			slog.String("error", apiErr.Message))
		return
	}
	slog.Error(msg, slog.String("error", err.Error()))
}
