package service

import (
	"errors"
	"fmt"

	"github.com/weatherapp/weather-go/internal/crypto"
)

// ErrValidation matches every input validation failure returned by this package.
var ErrValidation = errors.New("validation failed")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(msg string) error {
	return &validationError{msg: msg}
}

var (
	ErrUsernameInvalid  = newValidationError("username must be between 3 and 50 characters")
	ErrEmailInvalid     = newValidationError("email address is invalid")
	ErrPasswordTooShort = newValidationError("password must be at least 6 characters")
	ErrPasswordTooLong  = newValidationError("password must be at most 72 bytes")

	ErrCityNameRequired    = newValidationError("city_name is required")
	ErrCityNameTooLong     = newValidationError("city_name must be at most 100 characters")
	ErrCountryTooLong      = newValidationError("country must be at most 50 characters")
	ErrLatitudeOutOfRange  = newValidationError("lat must be between -90 and 90")
	ErrLongitudeOutOfRange = newValidationError("lon must be between -180 and 180")
	ErrQueryRequired       = newValidationError("search query is required")
)

var (
	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = fmt.Errorf("%w: token has been revoked", crypto.ErrInvalidToken)

	ErrFavoriteExists   = errors.New("city already in favorites")
	ErrFavoriteNotFound = errors.New("city not found in favorites")

	ErrCityNotFound       = errors.New("city not found")
	ErrUpstream           = errors.New("weather provider request failed")
	ErrWeatherUnavailable = errors.New("weather service is not configured")
)
