package ndfd

import (
	"context"
	"time"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

// TimeSeriesFetcher retrieves a DWML document for a point around a
// reference instant.
type TimeSeriesFetcher interface {
	FetchTimeSeries(ctx context.Context, lat, lon float64, reference time.Time) (*Document, error)
}

// Conditions produces a present-conditions observation for a point by
// sampling the NDFD time series at the current instant. It implements
// pipeline.CurrentSource.
type Conditions struct {
	client TimeSeriesFetcher
	icons  *domain.IconTable
}

// NewConditions creates a present-conditions producer.
func NewConditions(client TimeSeriesFetcher, icons *domain.IconTable) *Conditions {
	return &Conditions{client: client, icons: icons}
}

// Current fetches the time series around now and normalizes the aligned
// samples into one observation. The condition comes from the document's
// icon link rather than probability elements; the forecast service has
// already resolved present weather into that link. A zero now uses the
// domain clock.
func (c *Conditions) Current(ctx context.Context, lat, lon float64, now time.Time) (domain.NormalizedObservation, error) {
	if now.IsZero() {
		now = domain.Now()
	}
	now = now.UTC()

	doc, err := c.client.FetchTimeSeries(ctx, lat, lon, now)
	if err != nil {
		return domain.NormalizedObservation{}, err
	}
	s, err := doc.SampleAt(now)
	if err != nil {
		return domain.NormalizedObservation{}, err
	}

	var windMPH *float64
	if s.WindSpeed != nil {
		mph := *s.WindSpeed * domain.KnotsToMPH
		windMPH = &mph
	}
	derived := domain.Derive(s.Temperature, windMPH, s.RelativeHumidity, s.Dewpoint)

	tag := c.icons.LinkCondition(s.IconLink)
	icon, err := c.icons.Classify(tag, domain.PhaseDay)
	if err != nil {
		return domain.NormalizedObservation{}, err
	}

	return domain.NormalizedObservation{
		Time:             now.Truncate(time.Hour),
		Temperature:      s.Temperature,
		Dewpoint:         s.Dewpoint,
		WindSpeed:        s.WindSpeed,
		WindGust:         s.WindGust,
		WindDirection:    s.WindDirection,
		RelativeHumidity: derived.RelativeHumidity,
		Ceiling:          s.Ceiling,
		HeatIndex:        derived.HeatIndex,
		WindChill:        derived.WindChill,
		Condition:        tag,
		Icon:             icon.Icon,
		Description:      icon.Description,
		ProcessedAt:      domain.Now().UTC(),
	}, nil
}
