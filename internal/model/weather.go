package model

// CitySearchResult is one geocoding match returned by GET /api/weather/search.
type CitySearchResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
