package clients

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	youtubeInstance *youtube.Service
	youtubeInitErr  error
	youtubeOnce     sync.Once
)

// GetYouTubeService returns the shared YouTube Data API client. A missing
// API key disables the search/collection features but nothing else.
func GetYouTubeService() (*youtube.Service, error) {
	youtubeOnce.Do(func() {
		apiKey := os.Getenv("YOUTUBE_API_KEY")
		if apiKey == "" {
			slog.Error("[YouTubeClient] API key is missing, video features disabled")
			youtubeInitErr = errors.New("[YouTubeClient] YOUTUBE_API_KEY is not set")
			return
		}

		slog.Info("[YouTubeClient] Initializing YouTube Data API client")
		service, err := youtube.NewService(context.Background(),
			option.WithAPIKey(apiKey),
			option.WithUserAgent(USER_AGENT))
		if err != nil {
			slog.Error("[YouTubeClient] Failed to initialize service",
				slog.String("error", err.Error()))
			youtubeInitErr = err
			return
		}
		youtubeInstance = service
	})
	return youtubeInstance, youtubeInitErr
}
