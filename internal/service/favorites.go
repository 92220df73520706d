package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/repository"
)

// FavoriteStore is the persistence used by FavoriteService.
type FavoriteStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.FavoriteCity, error)
	ExistsForUser(ctx context.Context, userID int64, cityName string) (bool, error)
	Create(ctx context.Context, fav *model.FavoriteCity) error
	Delete(ctx context.Context, userID, favoriteID int64) (*model.FavoriteCity, error)
}

// FavoriteService manages a user's favorite cities. Every operation is scoped by userID.
type FavoriteService struct {
	store FavoriteStore
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(store FavoriteStore) *FavoriteService {
	return &FavoriteService{store: store}
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.FavoriteCity, error) {
	favs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	if favs == nil {
		favs = []model.FavoriteCity{}
	}
	return favs, nil
}

// Add saves a city for the user. The unique (user_id, city_name) index has the
// final say; the existence check only avoids a failed insert in the common case.
func (s *FavoriteService) Add(ctx context.Context, userID int64, req model.FavoriteRequest) (model.FavoriteCity, error) {
	req, err := normalizeFavorite(req)
	if err != nil {
		return model.FavoriteCity{}, err
	}

	exists, err := s.store.ExistsForUser(ctx, userID, req.CityName)
	if err != nil {
		return model.FavoriteCity{}, fmt.Errorf("checking favorite: %w", err)
	}
	if exists {
		return model.FavoriteCity{}, ErrFavoriteExists
	}

	fav := &model.FavoriteCity{
		UserID:   userID,
		CityName: req.CityName,
		Country:  req.Country,
		Lat:      req.Lat,
		Lon:      req.Lon,
	}
	if err := s.store.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return model.FavoriteCity{}, ErrFavoriteExists
		}
		return model.FavoriteCity{}, fmt.Errorf("creating favorite: %w", err)
	}

	return *fav, nil
}

// Remove deletes a favorite if, and only if, it belongs to userID.
func (s *FavoriteService) Remove(ctx context.Context, userID, favoriteID int64) (model.FavoriteCity, error) {
	fav, err := s.store.Delete(ctx, userID, favoriteID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return model.FavoriteCity{}, ErrFavoriteNotFound
		}
		return model.FavoriteCity{}, fmt.Errorf("deleting favorite: %w", err)
	}
	return *fav, nil
}
