package collection

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/youtube/v3"
)

func searchItem(videoID, title string) *youtube.SearchResult {
	return &youtube.SearchResult{
		Id: &youtube.ResourceId{VideoId: videoID},
		Snippet: &youtube.SearchResultSnippet{
			Title:       title,
			PublishedAt: "2025-06-15T12:00:00Z",
			Thumbnails: &youtube.ThumbnailDetails{
				Default: &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/" + videoID + "/default.jpg"},
			},
		},
	}
}

func TestSearchVideos(t *testing.T) {
	t.Run("MapsItemsToCandidates", func(t *testing.T) {
		client := &Client{
			fetchSearch: func(_ context.Context, query, order string, maxResults int64) (*youtube.SearchListResponse, error) {
				if query != "포항 지진" || order != ORDER_RELEVANCE || maxResults != 25 {
					t.Errorf("unexpected request: query=%q order=%q max=%d", query, order, maxResults)
				}
				return &youtube.SearchListResponse{Items: []*youtube.SearchResult{
					searchItem("vid-1", "지진 현장 영상"),
					searchItem("vid-2", "지진 분석"),
				}}, nil
			},
		}

		videos, err := client.SearchVideos(context.Background(), "포항 지진", ORDER_RELEVANCE, 25)
		if err != nil {
			t.Fatalf("SearchVideos failed: %v", err)
		}
		if len(videos) != 2 {
			t.Fatalf("got %d videos, want 2", len(videos))
		}
		if videos[0].VideoID != "vid-1" || videos[0].Title != "지진 현장 영상" {
			t.Errorf("first video mismatch: %+v", videos[0])
		}
		if videos[0].ThumbnailURL == "" || videos[0].PublishedAt == "" {
			t.Errorf("metadata not carried over: %+v", videos[0])
		}
	})

	t.Run("DropsItemsWithoutVideoID", func(t *testing.T) {
		client := &Client{
			fetchSearch: func(_ context.Context, _, _ string, _ int64) (*youtube.SearchListResponse, error) {
				return &youtube.SearchListResponse{Items: []*youtube.SearchResult{
					{Id: &youtube.ResourceId{ChannelId: "chan-1"}, Snippet: &youtube.SearchResultSnippet{Title: "채널"}},
					searchItem("vid-1", "영상"),
					{Id: nil, Snippet: &youtube.SearchResultSnippet{Title: "고아"}},
				}}, nil
			},
		}

		videos, err := client.SearchVideos(context.Background(), "지진", ORDER_RELEVANCE, 25)
		if err != nil {
			t.Fatalf("SearchVideos failed: %v", err)
		}
		if len(videos) != 1 || videos[0].VideoID != "vid-1" {
			t.Errorf("filtering mismatch: %+v", videos)
		}
	})

	t.Run("KeepsItemsWithoutSnippet", func(t *testing.T) {
		client := &Client{
			fetchSearch: func(_ context.Context, _, _ string, _ int64) (*youtube.SearchListResponse, error) {
				return &youtube.SearchListResponse{Items: []*youtube.SearchResult{
					{Id: &youtube.ResourceId{VideoId: "vid-1"}},
				}}, nil
			},
		}

		videos, err := client.SearchVideos(context.Background(), "지진", ORDER_RELEVANCE, 25)
		if err != nil {
			t.Fatalf("SearchVideos failed: %v", err)
		}
		if len(videos) != 1 {
			t.Fatalf("got %d videos, want 1: missing metadata must not drop an item", len(videos))
		}
		if videos[0].VideoID != "vid-1" || videos[0].Title != "" {
			t.Errorf("video = %+v, want vid-1 with empty title", videos[0])
		}
	})

	t.Run("ToleratesMissingThumbnails", func(t *testing.T) {
		client := &Client{
			fetchSearch: func(_ context.Context, _, _ string, _ int64) (*youtube.SearchListResponse, error) {
				return &youtube.SearchListResponse{Items: []*youtube.SearchResult{
					{
						Id:      &youtube.ResourceId{VideoId: "vid-1"},
						Snippet: &youtube.SearchResultSnippet{Title: "썸네일 없음"},
					},
				}}, nil
			},
		}

		videos, err := client.SearchVideos(context.Background(), "지진", ORDER_RELEVANCE, 25)
		if err != nil {
			t.Fatalf("SearchVideos failed: %v", err)
		}
		if len(videos) != 1 {
			t.Fatalf("got %d videos, want 1", len(videos))
		}
		if videos[0].ThumbnailURL != "" {
			t.Errorf("thumbnail = %q, want empty", videos[0].ThumbnailURL)
		}
	})

	t.Run("UpstreamErrorIsReturned", func(t *testing.T) {
		wantErr := errors.New("quotaExceeded")
		client := &Client{
			fetchSearch: func(_ context.Context, _, _ string, _ int64) (*youtube.SearchListResponse, error) {
				return nil, wantErr
			},
		}

		videos, err := client.SearchVideos(context.Background(), "지진", ORDER_RELEVANCE, 25)
		if !errors.Is(err, wantErr) {
			t.Fatalf("error = %v, want %v", err, wantErr)
		}
		if videos != nil {
			t.Errorf("videos = %v, want nil on search failure", videos)
		}
	})

	t.Run("EmptyResultSet", func(t *testing.T) {
		client := &Client{
			fetchSearch: func(_ context.Context, _, _ string, _ int64) (*youtube.SearchListResponse, error) {
				return &youtube.SearchListResponse{}, nil
			},
		}

		videos, err := client.SearchVideos(context.Background(), "지진", ORDER_VIEW_COUNT, 25)
		if err != nil {
			t.Fatalf("SearchVideos failed: %v", err)
		}
		if len(videos) != 0 {
			t.Errorf("got %d videos, want 0", len(videos))
		}
	})
}
