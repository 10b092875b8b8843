package ecoaction

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
	"github.com/yanqian/aerosense/pkg/util"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// Service exposes the eco-action catalog, completion log and leaderboard.
type Service interface {
	List(ctx context.Context) ([]Action, error)
	Complete(ctx context.Context, userID int64, req CompleteRequest) (CompleteResult, error)
	History(ctx context.Context, userID int64) (History, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Stats(ctx context.Context) (Stats, error)
}

type service struct {
	repo    Repository
	board   Leaderboard
	users   UserDirectory
	logger  *slog.Logger
	now     func() time.Time
	seedMu  sync.Mutex
	seeded  bool
	catalog func() []Action
}

// NewService wires up the eco-action domain.
func NewService(repo Repository, board Leaderboard, users UserDirectory, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		board:   board,
		users:   users,
		logger:  logger.With("component", "ecoaction.service"),
		now:     util.NowUTC,
		catalog: DefaultCatalog,
	}
}

func (s *service) List(ctx context.Context) ([]Action, error) {
	if err := s.ensureCatalog(ctx); err != nil {
		return nil, err
	}
	actions, err := s.repo.ListActions(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list eco actions", err)
	}
	return actions, nil
}

// catalogNamespace scopes the name-based ids of catalog entries.
var catalogNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://aerosense.app/eco-actions"))

// catalogActionID is stable across processes, so concurrent seeding by
// several instances converges on the same rows.
func catalogActionID(title string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(title)).String()
}

func (s *service) ensureCatalog(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if s.seeded {
		return nil
	}
	existing, err := s.repo.ListActions(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to load eco actions", err)
	}
	if len(existing) == 0 {
		seed := s.catalog()
		for i := range seed {
			seed[i].ID = catalogActionID(seed[i].Title)
		}
		if err := s.repo.CreateActions(ctx, seed); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to seed eco actions", err)
		}
		s.logger.Info("eco action catalog seeded", "count", len(seed))
	}
	s.seeded = true
	return nil
}

func (s *service) Complete(ctx context.Context, userID int64, req CompleteRequest) (CompleteResult, error) {
	actionID := strings.TrimSpace(req.ActionID)
	if actionID == "" {
		return CompleteResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "actionId cannot be empty", nil)
	}
	if err := s.ensureCatalog(ctx); err != nil {
		return CompleteResult{}, err
	}
	action, found, err := s.repo.GetAction(ctx, actionID)
	if err != nil {
		return CompleteResult{}, apperrors.Wrap(apperrors.CodeInternal, "failed to load eco action", err)
	}
	if !found {
		return CompleteResult{}, apperrors.Wrap(apperrors.CodeNotFound, "eco action not found", nil)
	}

	done, err := s.repo.HasCompletion(ctx, userID, actionID)
	if err != nil {
		return CompleteResult{}, apperrors.Wrap(apperrors.CodeInternal, "failed to check completion", err)
	}
	if done {
		return alreadyDone(), nil
	}
	_, err = s.repo.CreateCompletion(ctx, Completion{
		ID:          uuid.NewString(),
		UserID:      userID,
		ActionID:    actionID,
		CompletedAt: s.now(),
		Notes:       strings.TrimSpace(req.Notes),
	})
	if errors.Is(err, ErrAlreadyCompleted) {
		return alreadyDone(), nil
	}
	if err != nil {
		return CompleteResult{}, apperrors.Wrap(apperrors.CodeInternal, "failed to record completion", err)
	}

	if s.board != nil {
		if err := s.board.AddScore(ctx, userID, action.CO2SavedKg); err != nil {
			s.logger.Warn("leaderboard update failed", "userId", userID, "actionId", actionID, "error", err)
		}
	}
	s.logger.Info("eco action completed", "userId", userID, "actionId", actionID, "co2SavedKg", action.CO2SavedKg)
	return CompleteResult{Status: StatusSuccess, Message: "Great job! Your action has been recorded."}, nil
}

func alreadyDone() CompleteResult {
	return CompleteResult{Status: StatusAlreadyDone, Message: "You've already completed this action!"}
}

func (s *service) History(ctx context.Context, userID int64) (History, error) {
	completions, err := s.repo.ListCompletions(ctx, userID)
	if err != nil {
		return History{}, apperrors.Wrap(apperrors.CodeInternal, "failed to load history", err)
	}
	if completions == nil {
		completions = []Completion{}
	}
	return History{Completions: completions, TotalCO2SavedKg: TotalSaved(completions)}, nil
}

// TotalSaved sums the CO2 savings of completions with a joined action.
func TotalSaved(completions []Completion) float64 {
	total := 0.0
	for _, c := range completions {
		if c.Action != nil {
			total += c.Action.CO2SavedKg
		}
	}
	return util.Round(total, 2)
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	if s.board == nil {
		return []LeaderboardEntry{}, nil
	}
	scores, err := s.board.Top(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load leaderboard", err)
	}
	ids := make([]int64, 0, len(scores))
	for _, sc := range scores {
		ids = append(ids, sc.UserID)
	}
	names := map[int64]string{}
	if s.users != nil && len(ids) > 0 {
		if resolved, err := s.users.Usernames(ctx, ids); err != nil {
			s.logger.Warn("leaderboard username lookup failed", "error", err)
		} else {
			names = resolved
		}
	}
	out := make([]LeaderboardEntry, 0, len(scores))
	for i, sc := range scores {
		out = append(out, LeaderboardEntry{
			Rank:       i + 1,
			UserID:     sc.UserID,
			Username:   names[sc.UserID],
			CO2SavedKg: util.Round(sc.Value, 2),
		})
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	var users int64
	if s.users != nil {
		count, err := s.users.CountUsers(ctx)
		if err != nil {
			return Stats{}, apperrors.Wrap(apperrors.CodeInternal, "failed to count users", err)
		}
		users = count
	}
	actions, err := s.repo.CountCompletions(ctx)
	if err != nil {
		return Stats{}, apperrors.Wrap(apperrors.CodeInternal, "failed to count completions", err)
	}
	impact, err := s.repo.TotalImpact(ctx)
	if err != nil {
		return Stats{}, apperrors.Wrap(apperrors.CodeInternal, "failed to sum impact", err)
	}
	return Stats{TotalUsers: users, TotalActions: actions, TotalImpact: util.Round(impact, 2)}, nil
}
