package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

var (
	errBodyTooLarge   = errors.New("request body too large")
	errInvalidBody    = errors.New("invalid request body")
	errInternalServer = errors.New("internal server error")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func errorResponse(msg string) model.MessageResponse {
	return model.MessageResponse{Message: msg}
}

// decodeJSON reads a size-capped JSON body into dst. On failure it writes the
// error response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(errBodyTooLarge.Error()))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(errInvalidBody.Error()))
		return false
	}
	return true
}

// statusFor maps a service error to an HTTP status. Unknown errors map to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrFavoriteExists),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFavoriteNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCityNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrWeatherUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err. Internal details are logged and
// replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
		)
		msg = errInternalServer.Error()
	case http.StatusBadGateway:
		slog.Warn("weather provider failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
		)
		msg = service.ErrUpstream.Error()
	}

	writeJSON(w, status, errorResponse(msg))
}
