package prefrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aerosense/internal/domain/preferences"
)

// PostgresRepository persists user settings and favorite locations.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userID int64) (preferences.Settings, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, user_id, selected_city, latitude, longitude, preferences, updated_at
		FROM user_settings
		WHERE user_id = $1
	`, userID)
	settings, err := scanSettings(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return preferences.Settings{}, false, nil
	}
	if err != nil {
		return preferences.Settings{}, false, err
	}
	return settings, true, nil
}

// UpsertSettings writes one row per user; the first insert fixes the id.
func (r *PostgresRepository) UpsertSettings(ctx context.Context, settings preferences.Settings) (preferences.Settings, error) {
	prefs := []byte(settings.Preferences)
	if len(prefs) == 0 {
		prefs = []byte(`{}`)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_settings (id, user_id, selected_city, latitude, longitude, preferences, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			selected_city = EXCLUDED.selected_city,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			preferences = EXCLUDED.preferences,
			updated_at = EXCLUDED.updated_at
		RETURNING id::text, user_id, selected_city, latitude, longitude, preferences, updated_at
	`, settings.ID, settings.UserID, settings.SelectedCity, settings.Latitude, settings.Longitude, prefs, settings.UpdatedAt)
	return scanSettings(row)
}

func (r *PostgresRepository) CreateFavorite(ctx context.Context, fav preferences.Favorite) (preferences.Favorite, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorite_locations (id, user_id, city_name, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, fav.ID, fav.UserID, fav.CityName, fav.Latitude, fav.Longitude, fav.CreatedAt)
	if err != nil {
		return preferences.Favorite{}, err
	}
	return fav, nil
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID int64) ([]preferences.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id, city_name, latitude, longitude, created_at
		FROM favorite_locations
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]preferences.Favorite, 0)
	for rows.Next() {
		var fav preferences.Favorite
		var created time.Time
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.CityName, &fav.Latitude, &fav.Longitude, &created); err != nil {
			return nil, err
		}
		fav.CreatedAt = created.UTC()
		out = append(out, fav)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) DeleteFavorite(ctx context.Context, id string, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorite_locations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettings(row rowScanner) (preferences.Settings, error) {
	var (
		settings preferences.Settings
		prefs    []byte
		updated  *time.Time
	)
	if err := row.Scan(&settings.ID, &settings.UserID, &settings.SelectedCity, &settings.Latitude, &settings.Longitude, &prefs, &updated); err != nil {
		return preferences.Settings{}, err
	}
	settings.Preferences = prefs
	if updated != nil {
		utc := updated.UTC()
		settings.UpdatedAt = &utc
	}
	return settings, nil
}

var (
	_ preferences.SettingsRepository = (*PostgresRepository)(nil)
	_ preferences.FavoriteRepository = (*PostgresRepository)(nil)
)
