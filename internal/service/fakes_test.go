package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/repository"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  []*model.User

	// skipPrecheck makes FindByEmailOrUsername miss, simulating a concurrent insert.
	skipPrecheck bool
	err          error
}

func (s *memUserStore) FindByEmailOrUsername(_ context.Context, email, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.skipPrecheck {
		return nil, repository.ErrUserNotFound
	}
	for _, u := range s.users {
		if u.Email == email || u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	c := *user
	s.users = append(s.users, &c)
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type memFavoriteStore struct {
	mu     sync.Mutex
	nextID int64
	favs   []model.FavoriteCity

	skipPrecheck bool
	calls        int
}

func (s *memFavoriteStore) ListByUser(_ context.Context, userID int64) ([]model.FavoriteCity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	var out []model.FavoriteCity
	for _, f := range s.favs {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memFavoriteStore) ExistsForUser(_ context.Context, userID int64, cityName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.skipPrecheck {
		return false, nil
	}
	for _, f := range s.favs {
		if f.UserID == userID && f.CityName == cityName {
			return true, nil
		}
	}
	return false, nil
}

func (s *memFavoriteStore) Create(_ context.Context, fav *model.FavoriteCity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for _, f := range s.favs {
		if f.UserID == fav.UserID && f.CityName == fav.CityName {
			return repository.ErrDuplicateFavorite
		}
	}
	s.nextID++
	fav.ID = s.nextID
	fav.CreatedAt = time.Now().UTC()
	s.favs = append(s.favs, *fav)
	return nil
}

func (s *memFavoriteStore) Delete(_ context.Context, userID, favoriteID int64) (*model.FavoriteCity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for i, f := range s.favs {
		if f.ID == favoriteID && f.UserID == userID {
			s.favs = append(s.favs[:i], s.favs[i+1:]...)
			return &f, nil
		}
	}
	return nil, repository.ErrFavoriteNotFound
}

type stubProvider struct {
	body   json.RawMessage
	cities []model.CitySearchResult
	err    error

	lastCity  string
	lastLimit int
}

func (p *stubProvider) Current(_ context.Context, city string) (json.RawMessage, error) {
	p.lastCity = city
	return p.body, p.err
}

func (p *stubProvider) Forecast(_ context.Context, city string) (json.RawMessage, error) {
	p.lastCity = city
	return p.body, p.err
}

func (p *stubProvider) ByCoords(_ context.Context, _, _ float64) (json.RawMessage, error) {
	return p.body, p.err
}

func (p *stubProvider) SearchCities(_ context.Context, query string, limit int) ([]model.CitySearchResult, error) {
	p.lastCity = query
	p.lastLimit = limit
	return p.cities, p.err
}
