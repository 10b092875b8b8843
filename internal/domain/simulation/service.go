package simulation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
	"github.com/yanqian/aerosense/pkg/util"
)

const maxNameLength = 80

// Service runs what-if predictions and manages saved scenarios.
type Service interface {
	Predict(ctx context.Context, scenario Scenario) (Prediction, error)
	Save(ctx context.Context, userID int64, req SaveRequest) (SavedView, error)
	List(ctx context.Context, userID int64) ([]SavedView, error)
	Delete(ctx context.Context, userID int64, id string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the simulation domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "simulation.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Predict(_ context.Context, scenario Scenario) (Prediction, error) {
	if err := scenario.Validate(); err != nil {
		return Prediction{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	return PredictAQI(scenario), nil
}

func (s *service) Save(ctx context.Context, userID int64, req SaveRequest) (SavedView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return SavedView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	if len([]rune(name)) > maxNameLength {
		return SavedView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name is too long", nil)
	}
	if err := req.Scenario.Validate(); err != nil {
		return SavedView{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	sim, err := s.repo.Create(ctx, Simulation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Scenario:  req.Scenario,
		CreatedAt: s.now(),
	})
	if err != nil {
		return SavedView{}, apperrors.Wrap(apperrors.CodeInternal, "failed to save simulation", err)
	}
	s.logger.Info("simulation saved", "userId", userID, "simulationId", sim.ID)
	return toView(sim), nil
}

func (s *service) List(ctx context.Context, userID int64) ([]SavedView, error) {
	sims, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list simulations", err)
	}
	out := make([]SavedView, 0, len(sims))
	for _, sim := range sims {
		out = append(out, toView(sim))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid simulation id", err)
	}
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to delete simulation", err)
	}
	if !deleted {
		return apperrors.Wrap(apperrors.CodeNotFound, "simulation not found", nil)
	}
	return nil
}

func toView(sim Simulation) SavedView {
	return SavedView{Simulation: sim, Prediction: PredictAQI(sim.Scenario)}
}
