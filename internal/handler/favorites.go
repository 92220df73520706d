package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weatherapp/weather-go/internal/middleware"
	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/service"
)

// FavoriteHandler handles HTTP requests for a user's favorite cities.
type FavoriteHandler struct {
	service *service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// HandleList handles GET /api/favorites requests.
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	favs, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, favs)
}

// HandleAdd handles POST /api/favorites requests.
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.FavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fav, err := h.service.Add(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.FavoriteResponse{
		Message:  "City added to favorites",
		Favorite: fav,
	})
}

// HandleRemove handles DELETE /api/favorites/{cityId} requests.
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	// A malformed id cannot name any row, so it is reported like a missing one.
	favoriteID, err := strconv.ParseInt(chi.URLParam(r, "cityId"), 10, 64)
	if err != nil || favoriteID <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse(service.ErrFavoriteNotFound.Error()))
		return
	}

	if _, err := h.service.Remove(r.Context(), userID, favoriteID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "City removed from favorites"})
}
