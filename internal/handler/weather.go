package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weatherapp/weather-go/internal/service"
)

// WeatherHandler proxies weather lookups to the provider. Routes are public.
type WeatherHandler struct {
	service *service.WeatherService
}

func NewWeatherHandler(svc *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{service: svc}
}

// HandleCurrent handles GET /api/weather/current/{city} requests.
func (h *WeatherHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Current(r.Context(), pathParam(r, "city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// HandleForecast handles GET /api/weather/forecast/{city} requests.
func (h *WeatherHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Forecast(r.Context(), pathParam(r, "city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// HandleSearch handles GET /api/weather/search/{query} requests.
func (h *WeatherHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Search(r.Context(), pathParam(r, "query"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

// HandleByCoords handles GET /api/weather/coords/{lat}/{lon} requests.
func (h *WeatherHandler) HandleByCoords(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(pathParam(r, "lat"), 64)
	if err != nil {
		writeError(w, r, service.ErrLatitudeOutOfRange)
		return
	}
	lon, err := strconv.ParseFloat(pathParam(r, "lon"), 64)
	if err != nil {
		writeError(w, r, service.ErrLongitudeOutOfRange)
		return
	}

	body, err := h.service.ByCoords(r.Context(), lat, lon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// pathParam returns a URL parameter with percent-escapes decoded; chi matches
// on the raw path when the request carries one.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
