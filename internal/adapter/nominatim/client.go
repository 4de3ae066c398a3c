// Package nominatim implements domain.Geocoder against the OpenStreetMap
// Nominatim search API. Nominatim's usage policy allows at most one request
// per second, so every outbound call funnels through a single rate gate
// shared by all callers of one Client.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/observability"
)

// Client resolves place names via the Nominatim /search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. minInterval is the minimum delay
// between any two outbound requests, enforced across all concurrent callers.
func NewClient(baseURL, userAgent string, timeout, minInterval time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(minInterval), 1),
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve geocodes a place name. found is false when Nominatim has no match;
// transport and API failures are returned as errors. The call blocks on the
// shared rate gate first, so cancelling ctx aborts a queued lookup without
// issuing the request.
func (c *Client) Resolve(ctx context.Context, name string) (domain.ResolvedLocation, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("rate gate: %w", err)
	}

	params := url.Values{
		"q":      {name},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("create request: %w", err)
	}
	// Nominatim rejects requests without an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.ResolvedLocation{}, false, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.ResolvedLocation{}, false, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.ResolvedLocation{}, false, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return domain.ResolvedLocation{}, false, nil
	}

	p := places[0]
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lon, errLon := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLon != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.ResolvedLocation{}, false, fmt.Errorf("nominatim returned malformed coordinates %q,%q for %q", p.Lat, p.Lon, name)
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return domain.ResolvedLocation{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Address:   p.DisplayName,
	}, true, nil
}

// Nominatim API response types. Coordinates arrive as strings.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
