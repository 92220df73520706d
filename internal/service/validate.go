package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/weatherapp/weather-go/internal/model"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	maxEmailLen    = 100
	minPasswordLen = 6
	maxPasswordLen = 72

	maxCityNameLen = 100
	maxCountryLen  = 50
)

func normalizeRegister(req model.RegisterRequest) (model.RegisterRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	if n := utf8.RuneCountInString(req.Username); n < minUsernameLen || n > maxUsernameLen {
		return req, ErrUsernameInvalid
	}
	if !validEmail(req.Email) {
		return req, ErrEmailInvalid
	}
	if err := validatePassword(req.Password); err != nil {
		return req, err
	}
	return req, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address only; display-name forms are rejected.
func validEmail(email string) bool {
	if email == "" || len(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeFavorite(req model.FavoriteRequest) (model.FavoriteRequest, error) {
	req.CityName = strings.TrimSpace(req.CityName)
	if req.CityName == "" {
		return req, ErrCityNameRequired
	}
	if utf8.RuneCountInString(req.CityName) > maxCityNameLen {
		return req, ErrCityNameTooLong
	}

	if req.Country != nil {
		country := strings.TrimSpace(*req.Country)
		switch {
		case country == "":
			req.Country = nil
		case utf8.RuneCountInString(country) > maxCountryLen:
			return req, ErrCountryTooLong
		default:
			req.Country = &country
		}
	}

	if req.Lat != nil {
		if err := validateLatitude(*req.Lat); err != nil {
			return req, err
		}
	}
	if req.Lon != nil {
		if err := validateLongitude(*req.Lon); err != nil {
			return req, err
		}
	}
	return req, nil
}

func validateLatitude(lat float64) error {
	if !(lat >= -90 && lat <= 90) {
		return ErrLatitudeOutOfRange
	}
	return nil
}

func validateLongitude(lon float64) error {
	if !(lon >= -180 && lon <= 180) {
		return ErrLongitudeOutOfRange
	}
	return nil
}
