package nomads

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFetchBulletin(t *testing.T) {
	issuance := time.Date(2020, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte("KCLT bulletin text"))
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, testLogger())
		c.baseURL = srv.URL

		text, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance)
		require.NoError(t, err)
		assert.Equal(t, "KCLT bulletin text", text)
		assert.Equal(t, "/blend.20200610/14/text/blend_nbhtx.t14z", gotPath)
	})

	t.Run("missing issuance", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, testLogger())
		c.baseURL = srv.URL

		_, err := c.FetchBulletin(context.Background(), domain.ProductShortRange, issuance)
		require.ErrorIs(t, err, domain.ErrBulletinMissing)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, testLogger())
		c.baseURL = srv.URL

		_, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrBulletinMissing)
	})

	t.Run("repeated misses never trip the breaker", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, testLogger())
		c.baseURL = srv.URL

		for i := 0; i < 10; i++ {
			_, err := c.FetchBulletin(context.Background(), domain.ProductHourly, issuance.Add(-time.Duration(i)*time.Hour))
			require.ErrorIs(t, err, domain.ErrBulletinMissing, "probe %d", i)
		}
	})
}
