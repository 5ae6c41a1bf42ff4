package nomads

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

// countingFetcher tracks how many times each issuance reaches the backend.
type countingFetcher struct {
	missing map[time.Time]bool
	calls   map[time.Time]int
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{missing: make(map[time.Time]bool), calls: make(map[time.Time]int)}
}

func (f *countingFetcher) FetchBulletin(_ context.Context, product domain.Product, issuance time.Time) (string, error) {
	f.calls[issuance]++
	if f.missing[issuance] {
		return "", domain.ErrBulletinMissing
	}
	return fmt.Sprintf("%s bulletin at %s", product, issuance.Format(time.RFC3339)), nil
}

func TestCachedFetcher(t *testing.T) {
	issuance := time.Date(2020, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("second fetch is served from cache", func(t *testing.T) {
		inner := newCountingFetcher()
		c := NewCachedFetcher(inner, 8)

		first, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance)
		require.NoError(t, err)
		second, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.calls[issuance])
	})

	t.Run("products do not share entries", func(t *testing.T) {
		inner := newCountingFetcher()
		c := NewCachedFetcher(inner, 8)

		hourly, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance)
		require.NoError(t, err)
		extended, err := c.FetchBulletin(context.Background(), domain.ProductExtended, issuance)
		require.NoError(t, err)

		assert.NotEqual(t, hourly, extended)
		assert.Equal(t, 2, inner.calls[issuance])
	})

	t.Run("misses are cached too", func(t *testing.T) {
		inner := newCountingFetcher()
		inner.missing[issuance] = true
		c := NewCachedFetcher(inner, 8)

		for i := 0; i < 3; i++ {
			_, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance)
			require.ErrorIs(t, err, domain.ErrBulletinMissing)
		}
		assert.Equal(t, 1, inner.calls[issuance])
	})

	t.Run("least recently used entry is evicted", func(t *testing.T) {
		inner := newCountingFetcher()
		c := NewCachedFetcher(inner, 2)

		a := issuance
		b := issuance.Add(-time.Hour)
		d := issuance.Add(-2 * time.Hour)

		_, err := c.FetchBulletin(context.Background(), domain.ProductHourly, a)
		require.NoError(t, err)
		_, err = c.FetchBulletin(context.Background(), domain.ProductHourly, b)
		require.NoError(t, err)

		// Touch a so b becomes the eviction candidate.
		_, err = c.FetchBulletin(context.Background(), domain.ProductHourly, a)
		require.NoError(t, err)
		_, err = c.FetchBulletin(context.Background(), domain.ProductHourly, d)
		require.NoError(t, err)

		_, err = c.FetchBulletin(context.Background(), domain.ProductHourly, a)
		require.NoError(t, err)
		_, err = c.FetchBulletin(context.Background(), domain.ProductHourly, b)
		require.NoError(t, err)

		assert.Equal(t, 1, inner.calls[a])
		assert.Equal(t, 2, inner.calls[b])
		assert.Equal(t, 1, inner.calls[d])
	})
}
