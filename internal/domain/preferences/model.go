package preferences

import (
	"encoding/json"
	"time"
)

// Default location served before a user saves settings.
const (
	DefaultCity      = "Coimbatore"
	DefaultLatitude  = 11.0168
	DefaultLongitude = 76.9558
)

// Settings is the per-user dashboard configuration.
type Settings struct {
	ID           string          `json:"id"`
	UserID       int64           `json:"userId"`
	SelectedCity string          `json:"selectedCity"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Preferences  json.RawMessage `json:"preferences"`
	UpdatedAt    *time.Time      `json:"updatedAt"`
}

// SettingsRequest updates the caller's settings.
type SettingsRequest struct {
	SelectedCity string          `json:"selectedCity"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Preferences  json.RawMessage `json:"preferences"`
}

// Favorite is a bookmarked location.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	CityName  string    `json:"cityName"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}

// FavoriteRequest adds a bookmarked location.
type FavoriteRequest struct {
	CityName  string  `json:"cityName"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultSettings returns the settings reported for users who never saved any.
func DefaultSettings(userID int64) Settings {
	return Settings{
		ID:           "default",
		UserID:       userID,
		SelectedCity: DefaultCity,
		Latitude:     DefaultLatitude,
		Longitude:    DefaultLongitude,
		Preferences:  json.RawMessage(`{}`),
	}
}
