package preferences

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
	"github.com/yanqian/aerosense/pkg/util"
)

// Service manages user settings and favorite locations.
type Service interface {
	GetSettings(ctx context.Context, userID int64) (Settings, error)
	UpdateSettings(ctx context.Context, userID int64, req SettingsRequest) (Settings, error)
	AddFavorite(ctx context.Context, userID int64, req FavoriteRequest) (Favorite, error)
	ListFavorites(ctx context.Context, userID int64) ([]Favorite, error)
	DeleteFavorite(ctx context.Context, userID int64, id string) error
}

type service struct {
	settings  SettingsRepository
	favorites FavoriteRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the preferences domain.
func NewService(settings SettingsRepository, favorites FavoriteRepository, logger *slog.Logger) Service {
	return &service{
		settings:  settings,
		favorites: favorites,
		logger:    logger.With("component", "preferences.service"),
		now:       util.NowUTC,
	}
}

func (s *service) GetSettings(ctx context.Context, userID int64) (Settings, error) {
	stored, found, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return Settings{}, apperrors.Wrap(apperrors.CodeInternal, "failed to load settings", err)
	}
	if !found {
		return DefaultSettings(userID), nil
	}
	return stored, nil
}

func (s *service) UpdateSettings(ctx context.Context, userID int64, req SettingsRequest) (Settings, error) {
	city := strings.TrimSpace(req.SelectedCity)
	if city == "" {
		return Settings{}, apperrors.Wrap(apperrors.CodeInvalidInput, "selectedCity cannot be empty", nil)
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return Settings{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	prefs, err := normalizePreferences(req.Preferences)
	if err != nil {
		return Settings{}, apperrors.Wrap(apperrors.CodeInvalidInput, "preferences must be a JSON object", err)
	}

	existing, found, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return Settings{}, apperrors.Wrap(apperrors.CodeInternal, "failed to load settings", err)
	}
	id := existing.ID
	if !found || id == "" {
		id = uuid.NewString()
	}
	now := s.now()
	saved, err := s.settings.UpsertSettings(ctx, Settings{
		ID:           id,
		UserID:       userID,
		SelectedCity: city,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Preferences:  prefs,
		UpdatedAt:    &now,
	})
	if err != nil {
		return Settings{}, apperrors.Wrap(apperrors.CodeInternal, "failed to save settings", err)
	}
	s.logger.Info("settings updated", "userId", userID, "city", city)
	return saved, nil
}

func (s *service) AddFavorite(ctx context.Context, userID int64, req FavoriteRequest) (Favorite, error) {
	name := strings.TrimSpace(req.CityName)
	if name == "" {
		return Favorite{}, apperrors.Wrap(apperrors.CodeInvalidInput, "cityName cannot be empty", nil)
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return Favorite{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	fav, err := s.favorites.CreateFavorite(ctx, Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		CityName:  name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: s.now(),
	})
	if err != nil {
		return Favorite{}, apperrors.Wrap(apperrors.CodeInternal, "failed to save favorite", err)
	}
	return fav, nil
}

func (s *service) ListFavorites(ctx context.Context, userID int64) ([]Favorite, error) {
	favs, err := s.favorites.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list favorites", err)
	}
	if favs == nil {
		favs = []Favorite{}
	}
	return favs, nil
}

func (s *service) DeleteFavorite(ctx context.Context, userID int64, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid favorite id", err)
	}
	deleted, err := s.favorites.DeleteFavorite(ctx, id, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to delete favorite", err)
	}
	if !deleted {
		return apperrors.Wrap(apperrors.CodeNotFound, "favorite not found", nil)
	}
	return nil
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

func normalizePreferences(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	return json.RawMessage(trimmed), nil
}
