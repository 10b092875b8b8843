package ecoaction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func newEcoService(repo *stubRepo, board *stubBoard, users *stubUsers) *service {
	tick := time.Date(2025, 4, 22, 9, 0, 0, 0, time.UTC)
	return &service{
		repo:    repo,
		board:   board,
		users:   users,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		catalog: DefaultCatalog,
		now: func() time.Time {
			tick = tick.Add(time.Hour)
			return tick
		},
	}
}

func TestListSeedsCatalogOnce(t *testing.T) {
	repo := newStubRepo()
	svc := newEcoService(repo, newStubBoard(), &stubUsers{})

	actions, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, actions, 7)
	for _, a := range actions {
		require.NotEmpty(t, a.ID)
	}

	again, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, again, 7)
	require.Equal(t, 1, repo.seedCalls)
}

func TestCompleteIsIdempotentAndScores(t *testing.T) {
	repo := newStubRepo()
	board := newStubBoard()
	svc := newEcoService(repo, board, &stubUsers{})
	ctx := context.Background()

	actions, err := svc.List(ctx)
	require.NoError(t, err)
	solar := findAction(t, actions, "Install Solar Panels")

	res, err := svc.Complete(ctx, 3, CompleteRequest{ActionID: solar.ID})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	res, err = svc.Complete(ctx, 3, CompleteRequest{ActionID: solar.ID})
	require.NoError(t, err)
	require.Equal(t, StatusAlreadyDone, res.Status)

	require.Len(t, repo.completions, 1)
	require.Equal(t, 1500.0, board.scores[3])
}

func TestCompleteUnknownAction(t *testing.T) {
	svc := newEcoService(newStubRepo(), newStubBoard(), &stubUsers{})
	_, err := svc.Complete(context.Background(), 1, CompleteRequest{ActionID: "missing"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.Complete(context.Background(), 1, CompleteRequest{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestCompleteSurvivesLeaderboardFailure(t *testing.T) {
	repo := newStubRepo()
	board := newStubBoard()
	board.err = errors.New("valkey down")
	svc := newEcoService(repo, board, &stubUsers{})

	actions, err := svc.List(context.Background())
	require.NoError(t, err)
	res, err := svc.Complete(context.Background(), 1, CompleteRequest{ActionID: actions[0].ID})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)
}

func TestHistoryNewestFirstWithTotal(t *testing.T) {
	repo := newStubRepo()
	svc := newEcoService(repo, newStubBoard(), &stubUsers{})
	ctx := context.Background()

	actions, err := svc.List(ctx)
	require.NoError(t, err)
	bike := findAction(t, actions, "Ride a Bike to Work")
	bags := findAction(t, actions, "Use Reusable Bags")
	_, err = svc.Complete(ctx, 9, CompleteRequest{ActionID: bike.ID})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, 9, CompleteRequest{ActionID: bags.ID})
	require.NoError(t, err)

	history, err := svc.History(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history.Completions, 2)
	require.Equal(t, bags.ID, history.Completions[0].ActionID)
	require.Equal(t, 9.5, history.TotalCO2SavedKg)

	empty, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, empty.Completions)
	require.Zero(t, empty.TotalCO2SavedKg)
}

func TestLeaderboardRanksWithUsernames(t *testing.T) {
	board := newStubBoard()
	board.scores[1] = 20
	board.scores[2] = 1550.456
	board.scores[3] = 5
	users := &stubUsers{names: map[int64]string{1: "ana", 2: "bo"}}
	svc := newEcoService(newStubRepo(), board, users)

	entries, err := svc.Leaderboard(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, []LeaderboardEntry{
		{Rank: 1, UserID: 2, Username: "bo", CO2SavedKg: 1550.46},
		{Rank: 2, UserID: 1, Username: "ana", CO2SavedKg: 20},
	}, entries)
}

func TestStatsRoundsImpact(t *testing.T) {
	repo := newStubRepo()
	repo.impact = 154.5049
	repo.completions = []Completion{{ID: "a"}, {ID: "b"}}
	svc := newEcoService(repo, newStubBoard(), &stubUsers{count: 4})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, Stats{TotalUsers: 4, TotalActions: 2, TotalImpact: 154.5}, stats)
}

func findAction(t *testing.T, actions []Action, title string) Action {
	t.Helper()
	for _, a := range actions {
		if a.Title == title {
			return a
		}
	}
	t.Fatalf("action %q not in catalog", title)
	return Action{}
}

type stubRepo struct {
	actions     []Action
	completions []Completion
	impact      float64
	seedCalls   int
}

func newStubRepo() *stubRepo { return &stubRepo{} }

func (r *stubRepo) ListActions(context.Context) ([]Action, error) {
	return append([]Action(nil), r.actions...), nil
}

func (r *stubRepo) CreateActions(_ context.Context, actions []Action) error {
	r.seedCalls++
	r.actions = append(r.actions, actions...)
	return nil
}

func (r *stubRepo) GetAction(_ context.Context, id string) (Action, bool, error) {
	for _, a := range r.actions {
		if a.ID == id {
			return a, true, nil
		}
	}
	return Action{}, false, nil
}

func (r *stubRepo) HasCompletion(_ context.Context, userID int64, actionID string) (bool, error) {
	for _, c := range r.completions {
		if c.UserID == userID && c.ActionID == actionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) CreateCompletion(_ context.Context, c Completion) (Completion, error) {
	r.completions = append(r.completions, c)
	return c, nil
}

func (r *stubRepo) ListCompletions(ctx context.Context, userID int64) ([]Completion, error) {
	var out []Completion
	for _, c := range r.completions {
		if c.UserID != userID {
			continue
		}
		if a, ok, _ := r.GetAction(ctx, c.ActionID); ok {
			c.Action = &a
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (r *stubRepo) CountCompletions(context.Context) (int64, error) {
	return int64(len(r.completions)), nil
}

func (r *stubRepo) TotalImpact(context.Context) (float64, error) {
	return r.impact, nil
}

type stubBoard struct {
	scores map[int64]float64
	err    error
}

func newStubBoard() *stubBoard { return &stubBoard{scores: map[int64]float64{}} }

func (b *stubBoard) AddScore(_ context.Context, userID int64, delta float64) error {
	if b.err != nil {
		return b.err
	}
	b.scores[userID] += delta
	return nil
}

func (b *stubBoard) Top(_ context.Context, limit int) ([]Score, error) {
	out := make([]Score, 0, len(b.scores))
	for id, v := range b.scores {
		out = append(out, Score{UserID: id, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubUsers struct {
	count int64
	names map[int64]string
}

func (u *stubUsers) CountUsers(context.Context) (int64, error) { return u.count, nil }

func (u *stubUsers) Usernames(context.Context, []int64) (map[int64]string, error) {
	return u.names, nil
}

func TestCatalogIDsAreStableAcrossInstances(t *testing.T) {
	first, err := newEcoService(newStubRepo(), newStubBoard(), &stubUsers{}).List(context.Background())
	require.NoError(t, err)
	second, err := newEcoService(newStubRepo(), newStubBoard(), &stubUsers{}).List(context.Background())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	seen := make(map[string]bool, len(first))
	for i, action := range first {
		require.Equal(t, action.ID, second[i].ID)
		require.Equal(t, catalogActionID(action.Title), action.ID)
		require.NoError(t, uuid.Validate(action.ID))
		require.False(t, seen[action.ID], "duplicate id for %q", action.Title)
		seen[action.ID] = true
	}
}
