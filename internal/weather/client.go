// Package weather is a thin client for the OpenWeatherMap current, forecast
// and geocoding APIs. Responses are passed through unmodified except for the
// geocoding search, which is reshaped.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/weatherapp/weather-go/internal/metrics"
	"github.com/weatherapp/weather-go/internal/model"
)

var (
	ErrNotFound      = errors.New("location not found")
	ErrMissingAPIKey = errors.New("weather api key is not configured")
)

// StatusError is returned when the provider answers with an unexpected status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather provider %s returned %d: %s", e.Endpoint, e.Code, e.Body)
}

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Units   string
	Lang    string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client calls OpenWeatherMap. Outbound requests share one token bucket so the
// provider quota holds across all inbound requests.
type Client struct {
	apiKey     string
	baseURL    string
	geoURL     string
	units      string
	lang       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(opts Options) *Client {
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		geoURL:  strings.TrimRight(opts.GeoURL, "/"),
		units:   opts.Units,
		lang:    opts.Lang,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Current returns current conditions for a city.
func (c *Client) Current(ctx context.Context, city string) (json.RawMessage, error) {
	q := c.query()
	q.Set("q", city)
	return c.getRaw(ctx, "current", c.baseURL+"/weather", q)
}

// Forecast returns the five day / three hour forecast for a city.
func (c *Client) Forecast(ctx context.Context, city string) (json.RawMessage, error) {
	q := c.query()
	q.Set("q", city)
	return c.getRaw(ctx, "forecast", c.baseURL+"/forecast", q)
}

// ByCoords returns current conditions at a coordinate.
func (c *Client) ByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	q := c.query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.getRaw(ctx, "coords", c.baseURL+"/weather", q)
}

// SearchCities geocodes a free-text query into at most limit candidate cities.
func (c *Client) SearchCities(ctx context.Context, query string, limit int) ([]model.CitySearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("appid", c.apiKey)

	body, err := c.getRaw(ctx, "search", c.geoURL+"/direct", q)
	if err != nil {
		return nil, err
	}

	var matches []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		State   string  `json:"state"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("weather provider search: decode: %w", err)
	}

	cities := make([]model.CitySearchResult, 0, len(matches))
	for _, m := range matches {
		cities = append(cities, model.CitySearchResult{
			Name:    m.Name,
			Country: m.Country,
			State:   m.State,
			Lat:     m.Lat,
			Lon:     m.Lon,
		})
	}
	return cities, nil
}

func (c *Client) query() url.Values {
	q := url.Values{}
	q.Set("appid", c.apiKey)
	if c.units != "" {
		q.Set("units", c.units)
	}
	if c.lang != "" {
		q.Set("lang", c.lang)
	}
	return q
}

func (c *Client) getRaw(ctx context.Context, endpoint, rawURL string, q url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("weather provider %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather provider %s: %w", endpoint, withoutURL(err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("weather provider %s: %w", endpoint, withoutURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("weather provider %s: read: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	if !json.Valid(body) {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("weather provider %s: response is not valid JSON", endpoint)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return json.RawMessage(body), nil
}

// withoutURL drops the request URL, which carries the API key, from a url.Error.
func withoutURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
