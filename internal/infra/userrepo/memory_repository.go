package userrepo

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/yanqian/aerosense/internal/domain/auth"
)

type subjectKey struct {
	provider string
	subject  string
}

// MemoryRepository keeps accounts and linked identities in process. It backs
// local runs without Postgres and the HTTP tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	accounts   map[int64]auth.User
	identities map[subjectKey]auth.Identity
	lastUserID int64
	lastLinkID int64
	now        func() time.Time
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts:   make(map[int64]auth.User),
		identities: make(map[subjectKey]auth.Identity),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create enforces the same unique email and username rules as the users table.
func (r *MemoryRepository) Create(_ context.Context, input auth.NewUser) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		switch {
		case existing.Email == input.Email:
			return auth.User{}, auth.ErrEmailExists
		case existing.Username == input.Username:
			return auth.User{}, auth.ErrUsernameExists
		}
	}
	r.lastUserID++
	user := auth.User{
		ID:           r.lastUserID,
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    r.now(),
	}
	if user.Role == "" {
		user.Role = auth.RoleUser
	}
	r.accounts[user.ID] = user
	return user, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (auth.User, bool, error) {
	return r.findUser(func(u auth.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (auth.User, bool, error) {
	return r.findUser(func(u auth.User) bool { return u.Username == username })
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.accounts[id]
	return user, ok, nil
}

func (r *MemoryRepository) findUser(match func(auth.User) bool) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.accounts {
		if match(user) {
			return user, true, nil
		}
	}
	return auth.User{}, false, nil
}

// List returns accounts in creation order.
func (r *MemoryRepository) List(_ context.Context) ([]auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]auth.User, 0, len(r.accounts))
	for _, user := range r.accounts {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b auth.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

func (r *MemoryRepository) CountUsers(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.accounts)), nil
}

// Usernames maps ids to usernames, leaving unknown ids out.
func (r *MemoryRepository) Usernames(_ context.Context, ids []int64) (map[int64]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if user, ok := r.accounts[id]; ok {
			names[id] = user.Username
		}
	}
	return names, nil
}

func (r *MemoryRepository) GetIdentity(_ context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[subjectKey{provider, providerSubject}]
	return identity, ok, nil
}

func (r *MemoryRepository) GetIdentityByUser(_ context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for key, identity := range r.identities {
		if key.provider == provider && identity.UserID == userID {
			return identity, true, nil
		}
	}
	return auth.Identity{}, false, nil
}

// UpsertIdentity mirrors the Postgres upsert: blank email or token values
// never overwrite stored ones.
func (r *MemoryRepository) UpsertIdentity(_ context.Context, identity auth.Identity) (auth.Identity, error) {
	if identity.UserID == 0 {
		return auth.Identity{}, errors.New("identity requires a user id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subjectKey{identity.Provider, identity.ProviderSubject}
	now := r.now()
	stored, exists := r.identities[key]
	if !exists {
		r.lastLinkID++
		identity.ID = r.lastLinkID
		identity.CreatedAt = now
		identity.UpdatedAt = now
		r.identities[key] = identity
		return identity, nil
	}
	stored.ProviderEmail = firstNonEmpty(identity.ProviderEmail, stored.ProviderEmail)
	stored.RefreshToken = firstNonEmpty(identity.RefreshToken, stored.RefreshToken)
	stored.UpdatedAt = now
	r.identities[key] = stored
	return stored, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

var _ auth.Repository = (*MemoryRepository)(nil)
