package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultLocateAttempts bounds the Locator's backward search. Two days of
// hourly candidates is far beyond any gap NOMADS exhibits in practice.
const DefaultLocateAttempts = 48

// BulletinFetcher retrieves the raw text of one bulletin issuance. It returns
// ErrBulletinMissing when no bulletin was published for that time.
type BulletinFetcher interface {
	FetchBulletin(ctx context.Context, product Product, issuance time.Time) (string, error)
}

// LocatedBulletin is the result of a successful Locate: the raw bulletin
// text, the chosen station, and the issuance that produced it.
type LocatedBulletin struct {
	Text     string
	Station  Station
	Issuance time.Time
}

// Locator selects the nearest reporting station for a point and finds the
// most recent bulletin issuance that actually exists, probing backward one
// hour at a time. It is the only component in this package that touches the
// network, and only through the injected fetcher.
type Locator struct {
	fetcher     BulletinFetcher
	stations    *StationTable
	maxAttempts int
}

// NewLocator creates a Locator. maxAttempts <= 0 selects DefaultLocateAttempts.
func NewLocator(fetcher BulletinFetcher, stations *StationTable, maxAttempts int) *Locator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultLocateAttempts
	}
	return &Locator{fetcher: fetcher, stations: stations, maxAttempts: maxAttempts}
}

// Locate finds the nearest station to (lat, lon) and the freshest available
// bulletin for the product. The hourly product trails real time by an hour,
// so its first candidate is now-1h; the others start at now. A zero now uses
// the package clock. Exhausting the attempt bound wraps ErrBulletinUnavailable.
func (l *Locator) Locate(ctx context.Context, product Product, lat, lon float64, now time.Time) (LocatedBulletin, error) {
	if now.IsZero() {
		now = clock.Now()
	}
	station := l.stations.Nearest(lat, lon)

	candidate := now.UTC().Truncate(time.Hour)
	if product == ProductHourly {
		candidate = candidate.Add(-time.Hour)
	}

	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		text, err := l.fetcher.FetchBulletin(ctx, product, candidate)
		switch {
		case err == nil:
			return LocatedBulletin{Text: text, Station: station, Issuance: candidate}, nil
		case errors.Is(err, ErrBulletinMissing):
			candidate = candidate.Add(-time.Hour)
		default:
			return LocatedBulletin{}, fmt.Errorf("fetch %s bulletin: %w", product, err)
		}
	}
	return LocatedBulletin{}, fmt.Errorf("%w: %s for station %s after %d attempts",
		ErrBulletinUnavailable, product, station.ID, l.maxAttempts)
}
