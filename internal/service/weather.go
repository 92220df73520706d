package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/weather"
)

// SearchLimit caps the number of geocoding matches returned by Search.
const SearchLimit = 5

// WeatherProvider is the upstream used by WeatherService.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (json.RawMessage, error)
	Forecast(ctx context.Context, city string) (json.RawMessage, error)
	ByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error)
	SearchCities(ctx context.Context, query string, limit int) ([]model.CitySearchResult, error)
}

// WeatherService proxies weather lookups and maps provider failures to service errors.
type WeatherService struct {
	provider WeatherProvider
}

func NewWeatherService(provider WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

func (s *WeatherService) Current(ctx context.Context, city string) (json.RawMessage, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityNameRequired
	}
	body, err := s.provider.Current(ctx, city)
	return body, mapProviderError(err)
}

func (s *WeatherService) Forecast(ctx context.Context, city string) (json.RawMessage, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityNameRequired
	}
	body, err := s.provider.Forecast(ctx, city)
	return body, mapProviderError(err)
}

func (s *WeatherService) ByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	if err := validateLatitude(lat); err != nil {
		return nil, err
	}
	if err := validateLongitude(lon); err != nil {
		return nil, err
	}
	body, err := s.provider.ByCoords(ctx, lat, lon)
	return body, mapProviderError(err)
}

// Search geocodes query into at most SearchLimit cities. An empty result is not an error.
func (s *WeatherService) Search(ctx context.Context, query string) ([]model.CitySearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	cities, err := s.provider.SearchCities(ctx, query, SearchLimit)
	if err != nil {
		return nil, mapProviderError(err)
	}
	if cities == nil {
		cities = []model.CitySearchResult{}
	}
	return cities, nil
}

func mapProviderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, weather.ErrNotFound):
		return ErrCityNotFound
	case errors.Is(err, weather.ErrMissingAPIKey):
		return ErrWeatherUnavailable
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
