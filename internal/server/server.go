// Package server assembles the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weatherapp/weather-go/internal/handler"
	"github.com/weatherapp/weather-go/internal/middleware"
	"github.com/weatherapp/weather-go/internal/service"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Auth        *service.AuthService
	Favorites   *service.FavoriteService
	Weather     *service.WeatherService
	DB          handler.Pinger
	CORSOrigins []string
}

// NewRouter builds the application's HTTP handler.
func NewRouter(d Deps) http.Handler {
	authHandler := handler.NewAuthHandler(d.Auth)
	favoriteHandler := handler.NewFavoriteHandler(d.Favorites)
	weatherHandler := handler.NewWeatherHandler(d.Weather)
	healthHandler := handler.NewHealthHandler(d.DB)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.Get("/", healthHandler.HandleIndex)
	r.Get("/health", healthHandler.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Route("/weather", func(r chi.Router) {
			r.Get("/current/{city}", weatherHandler.HandleCurrent)
			r.Get("/forecast/{city}", weatherHandler.HandleForecast)
			r.Get("/search/{query}", weatherHandler.HandleSearch)
			r.Get("/coords/{lat}/{lon}", weatherHandler.HandleByCoords)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(d.Auth))

			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/logout", authHandler.HandleLogout)

			r.Get("/favorites", favoriteHandler.HandleList)
			r.Post("/favorites", favoriteHandler.HandleAdd)
			r.Delete("/favorites/{cityId}", favoriteHandler.HandleRemove)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"route not found"}`))
	})

	return r
}
