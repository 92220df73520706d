package model

import "time"

// FavoriteCity is a city saved by a user. Country and coordinates are optional.
type FavoriteCity struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CityName  string    `json:"city_name"`
	Country   *string   `json:"country"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteRequest is the body of POST /api/favorites.
type FavoriteRequest struct {
	CityName string   `json:"city_name"`
	Country  *string  `json:"country"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// FavoriteResponse wraps a newly created favorite.
type FavoriteResponse struct {
	Message  string       `json:"message"`
	Favorite FavoriteCity `json:"favorite"`
}
