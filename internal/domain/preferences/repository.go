package preferences

import "context"

// SettingsRepository persists one settings row per user.
type SettingsRepository interface {
	GetSettings(ctx context.Context, userID int64) (Settings, bool, error)
	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)
}

// FavoriteRepository persists favorite locations.
type FavoriteRepository interface {
	CreateFavorite(ctx context.Context, fav Favorite) (Favorite, error)
	ListFavorites(ctx context.Context, userID int64) ([]Favorite, error)
	DeleteFavorite(ctx context.Context, id string, userID int64) (bool, error)
}
