package ecoaction

import "time"

// Action is a catalog entry a user can complete.
type Action struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CO2SavedKg  float64 `json:"co2SavedKg"`
	Category    string  `json:"category"`
	Difficulty  string  `json:"difficulty"`
}

// Completion records a user finishing an action.
type Completion struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"userId"`
	ActionID    string    `json:"actionId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
	Action      *Action   `json:"action,omitempty"`
}

// CompleteRequest is the payload for logging an action.
type CompleteRequest struct {
	ActionID string `json:"actionId"`
	Notes    string `json:"notes"`
}

// Completion statuses.
const (
	StatusSuccess     = "success"
	StatusAlreadyDone = "already_done"
)

// CompleteResult reports whether a completion was recorded.
type CompleteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// History is a user's completions with their total impact.
type History struct {
	Completions     []Completion `json:"completions"`
	TotalCO2SavedKg float64      `json:"totalCo2SavedKg"`
}

// LeaderboardEntry ranks a user by CO2 saved.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	UserID     int64   `json:"userId"`
	Username   string  `json:"username"`
	CO2SavedKg float64 `json:"co2SavedKg"`
}

// Stats summarizes platform wide impact.
type Stats struct {
	TotalUsers   int64   `json:"totalUsers"`
	TotalActions int64   `json:"totalActions"`
	TotalImpact  float64 `json:"totalImpact"`
}

// Score is a raw leaderboard member.
type Score struct {
	UserID int64
	Value  float64
}
