package ndfd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// Client fetches DWML time-series documents from the NDFD XML interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an NDFD client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ndfd",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://digital.mdl.nws.noaa.gov/xml/sample_products/browser_interface/ndfdXMLclient.php",
		breaker:    cb,
		logger:     logger,
	}
}

// ndfdVars are the element selectors requested from the interface; they
// correspond to the fields Document.SampleAt reads.
var ndfdVars = []string{"temp", "dew", "wbgt", "wspd", "wgust", "wdir", "rh", "icons", "ceil"}

// FetchTimeSeries requests a time-series document around the reference
// instant: one hour back through two hours ahead, minute-truncated, matching
// the window the sampler aligns against.
func (c *Client) FetchTimeSeries(ctx context.Context, lat, lon float64, reference time.Time) (*Document, error) {
	params := url.Values{
		"lat":     {strconv.FormatFloat(lat, 'f', 4, 64)},
		"lon":     {strconv.FormatFloat(lon, 'f', 4, 64)},
		"product": {"time-series"},
		"begin":   {reference.Add(-time.Hour).Truncate(time.Hour).Format("2006-01-02T15:04:05")},
		"end":     {reference.Add(2 * time.Hour).Truncate(time.Hour).Format("2006-01-02T15:04:05")},
	}
	for _, v := range ndfdVars {
		params.Set(v, v)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ndfd request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("ndfd error: status %d: %s", resp.StatusCode, body)
		}
		return ParseDocument(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Document), nil
}
