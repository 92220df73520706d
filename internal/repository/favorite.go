package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/weatherapp/weather-go/internal/model"
)

var (
	ErrFavoriteNotFound  = errors.New("favorite city not found")
	ErrDuplicateFavorite = errors.New("city already in favorites")
)

const favoriteColumns = `id, user_id, city_name, country, lat, lon, created_at`

// FavoriteRepository handles favorite city persistence. Every query is scoped by owner.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListByUser returns a user's favorites, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]model.FavoriteCity, error) {
	query := `SELECT ` + favoriteColumns + ` FROM favorite_cities
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []model.FavoriteCity{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, *f)
	}

	return favorites, rows.Err()
}

// ExistsForUser reports whether the user already saved a city with this name.
func (r *FavoriteRepository) ExistsForUser(ctx context.Context, userID int64, cityName string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorite_cities WHERE user_id = ? AND city_name = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, cityName).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a favorite and fills in its generated ID and creation time.
// The insert and the read-back commit together.
func (r *FavoriteRepository) Create(ctx context.Context, fav *model.FavoriteCity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO favorite_cities (user_id, city_name, country, lat, lon) VALUES (?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		fav.UserID,
		fav.CityName,
		nullString(fav.Country),
		nullFloat(fav.Lat),
		nullFloat(fav.Lon),
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateFavorite
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	stored, err := scanFavorite(tx.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorite_cities WHERE id = ?`, id))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	*fav = *stored
	return nil
}

// Delete removes the favorite only if it belongs to userID, returning the removed row.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, favoriteID int64) (*model.FavoriteCity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fav, err := scanFavorite(tx.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorite_cities WHERE id = ? AND user_id = ? FOR UPDATE`,
		favoriteID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM favorite_cities WHERE id = ? AND user_id = ?`, favoriteID, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return fav, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row rowScanner) (*model.FavoriteCity, error) {
	var (
		f       model.FavoriteCity
		country sql.NullString
		lat     sql.NullFloat64
		lon     sql.NullFloat64
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.CityName, &country, &lat, &lon, &f.CreatedAt); err != nil {
		return nil, err
	}
	if country.Valid {
		f.Country = &country.String
	}
	if lat.Valid {
		f.Lat = &lat.Float64
	}
	if lon.Valid {
		f.Lon = &lon.Float64
	}
	return &f, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
