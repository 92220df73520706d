package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/weatherapp/weather-go/internal/crypto"
	"github.com/weatherapp/weather-go/internal/metrics"
	"github.com/weatherapp/weather-go/internal/model"
	"github.com/weatherapp/weather-go/internal/repository"
	"github.com/weatherapp/weather-go/internal/session"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles registration, login and session token checks.
type AuthService struct {
	users    UserStore
	hasher   *crypto.Hasher
	tokens   *crypto.TokenService
	denylist session.Denylist

	// dummyHash is compared against when the email is unknown so that a
	// failed login costs one bcrypt comparison either way.
	dummyHash string
}

// NewAuthService creates a new AuthService. denylist may be nil, in which case
// logout is a no-op on the server side.
func NewAuthService(users UserStore, hasher *crypto.Hasher, tokens *crypto.TokenService, denylist session.Denylist) (*AuthService, error) {
	dummy, err := hasher.Hash("weather-go-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		denylist:  denylist,
		dummyHash: dummy,
	}, nil
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	req, err := normalizeRegister(req)
	if err != nil {
		return model.AuthResponse{}, err
	}

	_, err = s.users.FindByEmailOrUsername(ctx, req.Email, req.Username)
	switch {
	case err == nil:
		metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
		return model.AuthResponse{}, ErrUserExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResponse{}, fmt.Errorf("looking up user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return model.AuthResponse{}, ErrPasswordTooLong
		}
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
			return model.AuthResponse{}, ErrUserExists
		}
		return model.AuthResponse{}, fmt.Errorf("creating user: %w", err)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issuing token: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "ok").Inc()
	return model.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user.Public(),
	}, nil
}

// Login authenticates a user by email and password and returns a session token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(req.Password, s.dummyHash)
			metrics.AuthEventsTotal.WithLabelValues("login", "invalid").Inc()
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, fmt.Errorf("looking up user: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		metrics.AuthEventsTotal.WithLabelValues("login", "invalid").Inc()
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issuing token: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "ok").Inc()
	return model.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Public(),
	}, nil
}

// Authenticate verifies a session token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*crypto.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("checking denylist: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Logout revokes the token described by claims until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *crypto.Claims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	metrics.AuthEventsTotal.WithLabelValues("logout", "ok").Inc()
	return nil
}

// GetUser returns the public fields of a user.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return user.Public(), nil
}
