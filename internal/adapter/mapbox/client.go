package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
	"github.com/gidroatlas/water-objects-etl/internal/observability"
)

const (
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

	// Consecutive failures that open the breaker, and how long it stays open.
	breakerTrips   = 5
	breakerTimeout = 30 * time.Second
)

// ErrUnavailable is returned while the circuit breaker rejects requests.
var ErrUnavailable = errors.New("mapbox unavailable: circuit open")

// Client implements domain.ReverseGeocoder using the Mapbox Geocoding API.
// Requests go through a circuit breaker so an outage does not stall the
// pipeline on per-record timeouts.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	language   string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox reverse geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		language:   "ru",
		breaker:    newBreaker(metrics, logger),
		metrics:    metrics,
		logger:     logger,
	}
}

func newBreaker(metrics *observability.Metrics, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "mapbox",
		Interval: time.Minute,
		Timeout:  breakerTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= breakerTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				metrics.GeocodeBreakerOpen.Set(1)
			} else {
				metrics.GeocodeBreakerOpen.Set(0)
			}
		},
	})
}

// ReverseGeocode resolves coordinates to the nearest named place. An empty
// result with a nil error means Mapbox had no match.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	// Mapbox uses lon,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lon, lat)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	fullURL := fmt.Sprintf("%s/%s.json?%s", c.baseURL, coord, params.Encode())

	start := time.Now()
	out, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, fullURL)
	})
	c.metrics.GeocodeAPIDuration.WithLabelValues("reverse").Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "rejected").Inc()
		return domain.GeocodingResult{}, ErrUnavailable
	}
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "error").Inc()
		return domain.GeocodingResult{}, err
	}

	result := out.(domain.GeocodingResult)
	if result.FormattedAddress == "" {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
	} else {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "success").Inc()
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}

	f := mapboxResp.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		result.Lon = f.Center[0]
		result.Lat = f.Center[1]
	}
	return result, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
