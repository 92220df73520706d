package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/service"
	"github.com/weatherapp/weather-go/internal/weather"
)

type fakeProvider struct {
	lastCity string
	lat, lon float64
	err      error
}

func (p *fakeProvider) Current(_ context.Context, city string) (json.RawMessage, error) {
	p.lastCity = city
	return json.RawMessage(`{"name":"` + city + `"}`), p.err
}

func (p *fakeProvider) Forecast(_ context.Context, city string) (json.RawMessage, error) {
	p.lastCity = city
	return json.RawMessage(`{"list":[]}`), p.err
}

func (p *fakeProvider) ByCoords(_ context.Context, lat, lon float64) (json.RawMessage, error) {
	p.lat, p.lon = lat, lon
	return json.RawMessage(`{"coord":{}}`), p.err
}

func (p *fakeProvider) SearchCities(_ context.Context, query string, _ int) ([]model.CitySearchResult, error) {
	return []model.CitySearchResult{{Name: query, Country: "UA"}}, p.err
}

func newWeatherRouter(p *fakeProvider) http.Handler {
	h := NewWeatherHandler(service.NewWeatherService(p))
	r := chi.NewRouter()
	r.Get("/api/weather/current/{city}", h.HandleCurrent)
	r.Get("/api/weather/forecast/{city}", h.HandleForecast)
	r.Get("/api/weather/search/{query}", h.HandleSearch)
	r.Get("/api/weather/coords/{lat}/{lon}", h.HandleByCoords)
	return r
}

func TestWeatherRoutes(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "current", path: "/api/weather/current/Kyiv", wantStatus: http.StatusOK, wantBody: `{"name":"Kyiv"}`},
		{name: "escaped city", path: "/api/weather/current/New%20York", wantStatus: http.StatusOK, wantBody: `{"name":"New York"}`},
		{name: "forecast", path: "/api/weather/forecast/Lviv", wantStatus: http.StatusOK, wantBody: `{"list":[]}`},
		{name: "coords", path: "/api/weather/coords/50.45/30.52", wantStatus: http.StatusOK, wantBody: `{"coord":{}}`},
		{name: "bad coords", path: "/api/weather/coords/north/30", wantStatus: http.StatusBadRequest},
		{name: "coords out of range", path: "/api/weather/coords/95/30", wantStatus: http.StatusBadRequest},
		{name: "unknown city", path: "/api/weather/current/Atlantis", err: weather.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "provider down", path: "/api/weather/forecast/Kyiv", err: &weather.StatusError{Code: 500}, wantStatus: http.StatusBadGateway},
		{name: "no api key", path: "/api/weather/current/Kyiv", err: weather.ErrMissingAPIKey, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newWeatherRouter(&fakeProvider{err: tt.err}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestWeatherSearchShape(t *testing.T) {
	rr := httptest.NewRecorder()
	newWeatherRouter(&fakeProvider{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/weather/search/Kyiv", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"name":"Kyiv","country":"UA","lat":0,"lon":0}]`, rr.Body.String())
}
