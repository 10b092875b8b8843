package ecoaction

import (
	"context"
	"errors"
)

// ErrAlreadyCompleted is returned when a user logs the same action twice.
var ErrAlreadyCompleted = errors.New("action already completed")

// Repository persists the catalog and completion log.
type Repository interface {
	ListActions(ctx context.Context) ([]Action, error)
	CreateActions(ctx context.Context, actions []Action) error
	GetAction(ctx context.Context, id string) (Action, bool, error)
	HasCompletion(ctx context.Context, userID int64, actionID string) (bool, error)
	CreateCompletion(ctx context.Context, completion Completion) (Completion, error)
	// ListCompletions returns the user's completions newest first, joined with their action.
	ListCompletions(ctx context.Context, userID int64) ([]Completion, error)
	CountCompletions(ctx context.Context) (int64, error)
	TotalImpact(ctx context.Context) (float64, error)
}

// Leaderboard ranks users by accumulated CO2 savings.
type Leaderboard interface {
	AddScore(ctx context.Context, userID int64, delta float64) error
	Top(ctx context.Context, limit int) ([]Score, error)
}

// UserDirectory resolves account data owned by the auth domain.
type UserDirectory interface {
	CountUsers(ctx context.Context) (int64, error)
	Usernames(ctx context.Context, ids []int64) (map[int64]string, error)
}
