package content

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/metrics"
)

func TestCacheKey(t *testing.T) {
	base := cacheKey("Retail", []string{"a1", "a2", "a3"}, nil)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, base, cacheKey("Retail", []string{"a1", "a2", "a3"}, nil))
	})

	t.Run("prefixed for keyspace scans", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(base, "content:"))
	})

	t.Run("industry changes the key", func(t *testing.T) {
		assert.NotEqual(t, base, cacheKey("Finance", []string{"a1", "a2", "a3"}, nil))
	})

	t.Run("answers change the key", func(t *testing.T) {
		assert.NotEqual(t, base, cacheKey("Retail", []string{"a1", "a2", "a3x"}, nil))
	})

	t.Run("answer boundaries are unambiguous", func(t *testing.T) {
		assert.NotEqual(t,
			cacheKey("Retail", []string{"ab", "c"}, nil),
			cacheKey("Retail", []string{"a", "bc"}, nil),
		)
	})

	t.Run("toggles change the key", func(t *testing.T) {
		toggles := domain.SectionToggles{domain.SectionAnalysis: false}
		assert.NotEqual(t, base, cacheKey("Retail", []string{"a1", "a2", "a3"}, toggles))
	})

	t.Run("explicit true toggle matches default", func(t *testing.T) {
		toggles := domain.SectionToggles{domain.SectionAnalysis: true}
		assert.Equal(t, base, cacheKey("Retail", []string{"a1", "a2", "a3"}, toggles))
	})
}

type stubGenerator struct {
	calls int
	out   string
}

func (s *stubGenerator) Generate(ctx context.Context, industry string, answers []string, toggles domain.SectionToggles) (string, error) {
	s.calls++
	return s.out, nil
}

func TestCachedGeneratorFailsOpen(t *testing.T) {
	inner := &stubGenerator{out: "<body>generated</body>"}

	// A client with nothing listening: every cache operation errors
	c := &CachedGenerator{
		inner: inner,
		client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 10 * time.Millisecond,
			MaxRetries:  -1,
		}),
		ttl:    time.Minute,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	defer c.Close()

	missesBefore := testutil.ToFloat64(metrics.ContentCacheMisses)

	got, err := c.Generate(context.Background(), "Retail", []string{"a1", "a2", "a3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "<body>generated</body>", got)
	assert.Equal(t, 1, inner.calls)

	// An unreadable cache counts as a miss
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(metrics.ContentCacheMisses))
}
