package nomads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

// Client implements domain.BulletinFetcher against the NOMADS file server
// that publishes NBM text bulletins. A missing issuance is an expected
// outcome (the Locator probes backward through them), so 404 responses are
// reported as domain.ErrBulletinMissing and never trip the circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a NOMADS bulletin client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nomads",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://nomads.ncep.noaa.gov/pub/data/nccf/com/blend/prod",
		breaker:    cb,
		logger:     logger,
	}
}

type fetchResult struct {
	status int
	body   string
}

// FetchBulletin retrieves the raw text of one bulletin issuance. The NOMADS
// path layout is blend.YYYYMMDD/HH/text/blend_<product>tx.tHHz.
func (c *Client) FetchBulletin(ctx context.Context, product domain.Product, issuance time.Time) (string, error) {
	issuance = issuance.UTC()
	u := fmt.Sprintf("%s/blend.%s/%s/text/blend_%stx.t%sz",
		c.baseURL, issuance.Format("20060102"), issuance.Format("15"),
		product, issuance.Format("15"))

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("nomads request: %w", err)
		}
		defer resp.Body.Close()

		// A 404 is a normal miss during backward probing; only transport
		// failures and server errors count against the breaker.
		if resp.StatusCode == http.StatusNotFound {
			return fetchResult{status: resp.StatusCode}, nil
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("nomads error: status %d: %s", resp.StatusCode, body)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read bulletin body: %w", err)
		}
		return fetchResult{status: resp.StatusCode, body: string(body)}, nil
	})
	if err != nil {
		return "", err
	}

	res := result.(fetchResult)
	if res.status == http.StatusNotFound {
		return "", fmt.Errorf("%s at %s: %w", product, issuance.Format(time.RFC3339), domain.ErrBulletinMissing)
	}
	return res.body, nil
}
