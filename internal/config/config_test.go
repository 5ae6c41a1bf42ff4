package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "normalized-observations", cfg.KafkaSinkTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "data/stations.json", cfg.StationsPath)
	assert.Equal(t, "data/icons.json", cfg.IconsPath)
	assert.Equal(t, []Point{{Lat: 40.78, Lon: -73.97}}, cfg.Points)
	assert.Equal(t, []string{"nbh", "nbs", "nbe"}, cfg.Products)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 48, cfg.LocateMaxAttempts)
	assert.Equal(t, 256, cfg.BulletinCacheSize)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "weather-obs")
	t.Setenv("POINTS", "30.18,-97.68; 35.21,-80.94")
	t.Setenv("PRODUCTS", "nbh")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("LOCATE_MAX_ATTEMPTS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "weather-obs", cfg.KafkaSinkTopic)
	assert.Equal(t, []Point{{Lat: 30.18, Lon: -97.68}, {Lat: 35.21, Lon: -80.94}}, cfg.Points)
	assert.Equal(t, []string{"nbh"}, cfg.Products)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 12, cfg.LocateMaxAttempts)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable duration", "REFRESH_INTERVAL", "soon"},
		{"negative duration", "FETCH_TIMEOUT", "-5s"},
		{"non-numeric int", "BULLETIN_CACHE_SIZE", "many"},
		{"zero int", "LOCATE_MAX_ATTEMPTS", "0"},
		{"half a point", "POINTS", "40.78"},
		{"non-numeric point", "POINTS", "here,there"},
		{"empty products", "PRODUCTS", " , "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
