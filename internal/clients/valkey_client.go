package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
	valkeyInitErr  error
)

// ValkeyClient caches upstream results so repeated searches and comment
// pulls inside the validity window do not spend API quota.
type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

// RESULT_CACHE_TTL bounds how long a cached search or comment collection
// stays valid. Staleness past the window means re-fetch, not an error.
const RESULT_CACHE_TTL = time.Hour

// InitValkey connects the shared cache client. An unset address or a failed
// connection disables caching only; callers get a nil client and fall
// through to direct fetches.
func InitValkey() (*ValkeyClient, error) {
	valkeyOnce.Do(func() {
		valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
		if valkeyAddr == "" {
			slog.Warn("[ValkeyClient] VALKEY_INIT_ADDRESS not set, result caching disabled")
			valkeyInitErr = fmt.Errorf("[ValkeyClient] VALKEY_INIT_ADDRESS is not set")
			return
		}
		valkeyPassword := os.Getenv("VALKEY_PASSWORD")
		useTLS := os.Getenv("VALKEY_TLS") == "true"

		opts := valkey.ClientOption{
			InitAddress: []string{
				valkeyAddr,
			},
			Password:         valkeyPassword,
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}

		if useTLS {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			slog.Error("[ValkeyClient] Failed to create Valkey client, caching disabled",
				slog.String("error", err.Error()))
			valkeyInitErr = err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		c := client.Do(ctx, client.B().Ping().Build())
		if c.Error() != nil {
			slog.Error("[ValkeyClient] Failed to ping Valkey, caching disabled",
				slog.String("error", c.Error().Error()))
			client.Close()
			valkeyInitErr = c.Error()
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")

		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance, valkeyInitErr
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// SearchCacheKey identifies one search result set by its full request shape.
func SearchCacheKey(query, order string, maxResults int64) string {
	return fmt.Sprintf("search:%s:%s:%d", query, order, maxResults)
}

// CommentsCacheKey identifies one comment collection by video and cap.
func CommentsCacheKey(videoID string, totalCap int64) string {
	return fmt.Sprintf("comments:%s:%d", videoID, totalCap)
}

// CacheSet stores value under key for RESULT_CACHE_TTL. Failures are logged
// and swallowed; the cache is best effort.
func (vc *ValkeyClient) CacheSet(ctx context.Context, key string, value []byte) {
	if vc == nil {
		return
	}

	completed := []valkey.Completed{
		vc.Client.B().Set().Key(key).Value(string(value)).Build(),
		vc.Client.B().Expire().Key(key).Seconds(int64(RESULT_CACHE_TTL.Seconds())).Build(),
	}

	for _, res := range vc.doMultiWithRetry(ctx, completed, MAX_RETRIES) {
		if err := res.Error(); err != nil {
			slog.Warn("[ValkeyClient] Failed to cache result",
				slog.String("key", key),
				slog.String("error", err.Error()))
			return
		}
	}
}

// CacheGet returns the cached value for key and whether it was present.
func (vc *ValkeyClient) CacheGet(ctx context.Context, key string) ([]byte, bool) {
	if vc == nil {
		return nil, false
	}

	res := vc.doWithRetry(ctx, vc.Client.B().Get().Key(key).Build(), MAX_RETRIES)
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	value, err := res.AsBytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (vc *ValkeyClient) doMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	backoff := INITIAL_BACKOFF
	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil && !valkey.IsValkeyNil(r.Error()) {
				hasErr = true
				slog.Warn("[ValkeyClient] DoMulti failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(backoff)
		backoff = nextBackoff(backoff)
	}

	return results
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	backoff := INITIAL_BACKOFF
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		if isConnectionError(result.Error()) {
			break
		}
		time.Sleep(backoff)
		backoff = nextBackoff(backoff)
	}

	return result
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > MAX_BACKOFF {
		next = MAX_BACKOFF
	}
	return next
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
