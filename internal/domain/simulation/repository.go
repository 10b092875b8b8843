package simulation

import "context"

// Repository persists saved simulations.
type Repository interface {
	Create(ctx context.Context, sim Simulation) (Simulation, error)
	ListByUser(ctx context.Context, userID int64) ([]Simulation, error)
	Delete(ctx context.Context, id string, userID int64) (bool, error)
}
