package preferences

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func newPreferencesService() *service {
	return &service{
		settings:  &stubSettings{rows: map[int64]Settings{}},
		favorites: &stubFavorites{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestGetSettingsDefaults(t *testing.T) {
	svc := newPreferencesService()

	got, err := svc.GetSettings(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "default", got.ID)
	require.Equal(t, "Coimbatore", got.SelectedCity)
	require.Equal(t, 11.0168, got.Latitude)
	require.Equal(t, 76.9558, got.Longitude)
	require.Nil(t, got.UpdatedAt)
	require.JSONEq(t, `{}`, string(got.Preferences))
}

func TestUpdateSettingsKeepsID(t *testing.T) {
	svc := newPreferencesService()
	ctx := context.Background()

	first, err := svc.UpdateSettings(ctx, 42, SettingsRequest{SelectedCity: "London", Latitude: 51.5, Longitude: -0.12, Preferences: json.RawMessage(`{"units":"metric"}`)})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.NotNil(t, first.UpdatedAt)

	second, err := svc.UpdateSettings(ctx, 42, SettingsRequest{SelectedCity: "Paris", Latitude: 48.85, Longitude: 2.35})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.JSONEq(t, `{}`, string(second.Preferences))

	got, err := svc.GetSettings(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "Paris", got.SelectedCity)
}

func TestUpdateSettingsValidates(t *testing.T) {
	svc := newPreferencesService()
	ctx := context.Background()

	cases := []SettingsRequest{
		{SelectedCity: "", Latitude: 1, Longitude: 1},
		{SelectedCity: "X", Latitude: 91, Longitude: 1},
		{SelectedCity: "X", Latitude: 1, Longitude: -181},
		{SelectedCity: "X", Preferences: json.RawMessage(`[1,2]`)},
	}
	for _, req := range cases {
		_, err := svc.UpdateSettings(ctx, 1, req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "request %+v", req)
	}
}

func TestFavoritesLifecycle(t *testing.T) {
	svc := newPreferencesService()
	ctx := context.Background()

	empty, err := svc.ListFavorites(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	fav, err := svc.AddFavorite(ctx, 5, FavoriteRequest{CityName: "Tokyo", Latitude: 35.67, Longitude: 139.65})
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, 5, FavoriteRequest{CityName: "Sydney", Latitude: -33.86, Longitude: 151.2})
	require.NoError(t, err)

	list, err := svc.ListFavorites(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Tokyo", list[0].CityName)

	require.True(t, apperrors.IsCode(svc.DeleteFavorite(ctx, 6, fav.ID), apperrors.CodeNotFound))
	require.NoError(t, svc.DeleteFavorite(ctx, 5, fav.ID))
	require.True(t, apperrors.IsCode(svc.DeleteFavorite(ctx, 5, "nope"), apperrors.CodeInvalidInput))

	_, err = svc.AddFavorite(ctx, 5, FavoriteRequest{CityName: "Nowhere", Latitude: -100})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

type stubSettings struct {
	rows map[int64]Settings
}

func (s *stubSettings) GetSettings(_ context.Context, userID int64) (Settings, bool, error) {
	row, ok := s.rows[userID]
	return row, ok, nil
}

func (s *stubSettings) UpsertSettings(_ context.Context, settings Settings) (Settings, error) {
	s.rows[settings.UserID] = settings
	return settings, nil
}

type stubFavorites struct {
	rows []Favorite
}

func (s *stubFavorites) CreateFavorite(_ context.Context, fav Favorite) (Favorite, error) {
	s.rows = append(s.rows, fav)
	return fav, nil
}

func (s *stubFavorites) ListFavorites(_ context.Context, userID int64) ([]Favorite, error) {
	var out []Favorite
	for _, f := range s.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubFavorites) DeleteFavorite(_ context.Context, id string, userID int64) (bool, error) {
	for i, f := range s.rows {
		if f.ID == id && f.UserID == userID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
