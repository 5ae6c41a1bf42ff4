package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/config"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
	"github.com/AnimatronicEmulator/rainbow-rest/internal/observability"
)

// BulletinSource locates the freshest bulletin for a product near a point.
type BulletinSource interface {
	Locate(ctx context.Context, product domain.Product, lat, lon float64, now time.Time) (domain.LocatedBulletin, error)
}

// CurrentSource produces a present-conditions observation for a point.
type CurrentSource interface {
	Current(ctx context.Context, lat, lon float64, now time.Time) (domain.NormalizedObservation, error)
}

// Loader writes normalized observations to the destination.
type Loader interface {
	LoadBatch(ctx context.Context, observations []domain.NormalizedObservation) error
}

// Pipeline runs the locate-decode-normalize-publish cycle for every
// configured point and product.
type Pipeline struct {
	source   BulletinSource
	currents CurrentSource
	icons    *domain.IconTable
	loader   Loader
	logger   *slog.Logger
	metrics  *observability.Metrics
	points   []config.Point
	products []domain.Product

	ready       atomic.Bool
	lastRefresh atomic.Int64 // unix nanos of the last successful publish
	lastCount   atomic.Int64
}

// New creates a Pipeline over the given sources, tables, and sink. currents
// may be nil to skip the present-conditions stage.
func New(source BulletinSource, currents CurrentSource, icons *domain.IconTable, loader Loader, logger *slog.Logger, metrics *observability.Metrics, points []config.Point, products []domain.Product) *Pipeline {
	return &Pipeline{
		source:   source,
		currents: currents,
		icons:    icons,
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
		points:   points,
		products: products,
	}
}

// CheckReadiness returns nil once at least one refresh has published
// observations.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any observations yet")
	}
	return nil
}

// LastPublish reports when the most recent batch was published and how many
// observations it carried. A zero time means nothing has been published yet.
func (p *Pipeline) LastPublish() (time.Time, int) {
	ns := p.lastRefresh.Load()
	if ns == 0 {
		return time.Time{}, 0
	}
	return time.Unix(0, ns).UTC(), int(p.lastCount.Load())
}

// Refresh runs one full cycle. A failure for one point/product pair is
// logged and counted but does not abort the others. Partial records within a
// single bulletin are never published; a decode failure drops that product's
// whole table. Refresh returns an error only when every pair failed or the
// publish itself fails.
func (p *Pipeline) Refresh(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	defer func() {
		p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	var batch []domain.NormalizedObservation
	failures := 0
	for _, pt := range p.points {
		for _, product := range p.products {
			obs, err := p.refreshOne(ctx, product, pt)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failures++
				p.logger.Error("refresh failed",
					"product", product.String(), "lat", pt.Lat, "lon", pt.Lon, "error", err)
				continue
			}
			batch = append(batch, obs...)
		}

		if p.currents != nil {
			obs, err := p.currents.Current(ctx, pt.Lat, pt.Lon, time.Time{})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failures++
				p.logger.Error("current conditions failed",
					"lat", pt.Lat, "lon", pt.Lon, "error", err)
			} else {
				batch = append(batch, obs)
			}
		}
	}

	if len(batch) == 0 {
		return fmt.Errorf("refresh produced no observations (%d failures)", failures)
	}
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		return fmt.Errorf("publish observations: %w", err)
	}
	p.metrics.ObservationsPublished.Add(float64(len(batch)))
	p.lastRefresh.Store(time.Now().UnixNano())
	p.lastCount.Store(int64(len(batch)))
	p.ready.Store(true)
	p.logger.Info("refresh complete",
		"observations", len(batch), "failures", failures, "duration", time.Since(start))
	return nil
}

// refreshOne locates, decodes, and normalizes one product for one point.
func (p *Pipeline) refreshOne(ctx context.Context, product domain.Product, pt config.Point) ([]domain.NormalizedObservation, error) {
	probeStart := time.Now()
	located, err := p.source.Locate(ctx, product, pt.Lat, pt.Lon, time.Time{})
	p.metrics.LocateProbes.Observe(time.Since(probeStart).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrBulletinUnavailable) {
			p.metrics.LocateFailures.WithLabelValues(product.String()).Inc()
		}
		return nil, err
	}

	table, err := domain.DecodeBulletin(located.Text, located.Station, product, located.Issuance)
	if err != nil {
		p.metrics.DecodeFailures.WithLabelValues(product.String()).Inc()
		return nil, err
	}
	p.metrics.BulletinsDecoded.WithLabelValues(product.String()).Inc()

	return domain.NormalizeTable(table, located.Station, product, p.icons, domain.PhaseDay)
}
