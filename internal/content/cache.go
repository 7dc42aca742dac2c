package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/metrics"
)

// DefaultCacheTTL is how long generated content stays cached. Questionnaire
// answers rarely repeat, but repeated submissions within a few minutes (form
// retries, double clicks) skip a second LLM round trip.
const DefaultCacheTTL = 5 * time.Minute

// CachedGenerator decorates a Generator with a Redis cache keyed by the
// request inputs. Cache failures are logged and fall through to the inner
// generator; the cache never turns a working generator into a failing one.
type CachedGenerator struct {
	inner  Generator
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGenerator connects to Redis at redisURL and wraps inner with a
// content cache. Returns an error when the URL is malformed or the server is
// unreachable at startup.
func NewCachedGenerator(inner Generator, redisURL string, ttl time.Duration, logger *slog.Logger) (*CachedGenerator, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connection to redis failed: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	logger.Info("content cache initialized", "ttl", ttl)

	return &CachedGenerator{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Generate returns cached content when present, otherwise delegates to the
// inner generator and stores the result.
func (c *CachedGenerator) Generate(ctx context.Context, industry string, answers []string, toggles domain.SectionToggles) (string, error) {
	key := cacheKey(industry, answers, toggles)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		metrics.ContentCacheHits.Inc()
		c.logger.Debug("content cache hit", "key", key)
		return cached, nil
	}
	if err != redis.Nil {
		c.logger.Warn("content cache read failed", "error", err)
	}
	metrics.ContentCacheMisses.Inc()

	generated, err := c.inner.Generate(ctx, industry, answers, toggles)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, generated, c.ttl).Err(); err != nil {
		c.logger.Warn("content cache write failed", "error", err)
	}

	return generated, nil
}

// Close releases the Redis connection.
func (c *CachedGenerator) Close() error {
	return c.client.Close()
}

// cacheKey digests the request inputs into a stable cache key.
func cacheKey(industry string, answers []string, toggles domain.SectionToggles) string {
	h := sha256.New()
	h.Write([]byte(industry))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(answers, "\x00")))
	for _, s := range domain.SectionOrder {
		if toggles.Enabled(s) {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return "content:" + hex.EncodeToString(h.Sum(nil))
}

var _ Generator = (*CachedGenerator)(nil)
