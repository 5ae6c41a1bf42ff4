package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Point is one geographic location the service refreshes.
type Point struct {
	Lat float64
	Lon float64
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers   []string
	KafkaSinkTopic string
	HTTPAddr       string
	LogLevel       string
	LogFormat      string

	StationsPath string
	IconsPath    string

	Points   []Point
	Products []string

	FetchTimeout      time.Duration
	LocateMaxAttempts int
	BulletinCacheSize int
	RefreshInterval   time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := envDuration("REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	locateAttempts, err := envInt("LOCATE_MAX_ATTEMPTS", 48)
	if err != nil {
		return nil, err
	}
	cacheSize, err := envInt("BULLETIN_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	points, err := parsePoints(envOrDefault("POINTS", "40.78,-73.97"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:      splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:    envOrDefault("KAFKA_SINK_TOPIC", "normalized-observations"),
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		StationsPath:      envOrDefault("STATIONS_PATH", "data/stations.json"),
		IconsPath:         envOrDefault("ICONS_PATH", "data/icons.json"),
		Points:            points,
		Products:          splitList(envOrDefault("PRODUCTS", "nbh,nbs,nbe")),
		FetchTimeout:      fetchTimeout,
		LocateMaxAttempts: locateAttempts,
		BulletinCacheSize: cacheSize,
		RefreshInterval:   refreshInterval,
		ShutdownTimeout:   shutdownTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.StationsPath == "" || cfg.IconsPath == "" {
		return nil, errors.New("STATIONS_PATH and ICONS_PATH are required")
	}
	if len(cfg.Products) == 0 {
		return nil, errors.New("PRODUCTS must name at least one bulletin product")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePoints parses "lat,lon" pairs separated by semicolons,
// e.g. "40.78,-73.97;30.18,-97.68".
func parsePoints(s string) ([]Point, error) {
	var points []Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid POINTS entry %q", pair)
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid POINTS entry %q", pair)
		}
		points = append(points, Point{Lat: lat, Lon: lon})
	}
	if len(points) == 0 {
		return nil, errors.New("POINTS must hold at least one lat,lon pair")
	}
	return points, nil
}
