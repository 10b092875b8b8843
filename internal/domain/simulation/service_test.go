package simulation

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func newSimulationService() (*service, *memoryRepo) {
	repo := &memoryRepo{rows: map[string]Simulation{}}
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &service{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			tick = tick.Add(time.Minute)
			return tick
		},
	}, repo
}

func TestServiceSaveListDelete(t *testing.T) {
	svc, _ := newSimulationService()
	ctx := context.Background()

	first, err := svc.Save(ctx, 7, SaveRequest{Name: " Rush hour ", Scenario: Scenario{TrafficDensity: 100}})
	require.NoError(t, err)
	require.Equal(t, "Rush hour", first.Name)
	require.Equal(t, 230, first.Prediction.AQI)
	require.NotEmpty(t, first.ID)

	_, err = svc.Save(ctx, 7, SaveRequest{Name: "Windy", Scenario: Scenario{WindSpeed: 30}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, 8, SaveRequest{Name: "Other user", Scenario: Scenario{}})
	require.NoError(t, err)

	list, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Rush hour", list[0].Name)
	require.Equal(t, "Windy", list[1].Name)

	err = svc.Delete(ctx, 8, first.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, 7, first.ID))
	list, err = svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestServiceSaveValidates(t *testing.T) {
	svc, repo := newSimulationService()

	_, err := svc.Save(context.Background(), 1, SaveRequest{Name: "  "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.Save(context.Background(), 1, SaveRequest{Name: "bad", Scenario: Scenario{RainChance: 200}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Empty(t, repo.rows)
}

func TestServicePredictValidates(t *testing.T) {
	svc, _ := newSimulationService()

	got, err := svc.Predict(context.Background(), Scenario{WindSpeed: 5})
	require.NoError(t, err)
	require.Equal(t, 140, got.AQI)

	_, err = svc.Predict(context.Background(), Scenario{WindSpeed: -5})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceDeleteRejectsMalformedID(t *testing.T) {
	svc, _ := newSimulationService()
	err := svc.Delete(context.Background(), 1, "not-a-uuid")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]Simulation
}

func (m *memoryRepo) Create(_ context.Context, sim Simulation) (Simulation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[sim.ID] = sim
	return sim, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID int64) ([]Simulation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Simulation
	for _, sim := range m.rows {
		if sim.UserID == userID {
			out = append(out, sim)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sim, ok := m.rows[id]
	if !ok || sim.UserID != userID {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}
