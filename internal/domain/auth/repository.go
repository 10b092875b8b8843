package auth

import "context"

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user NewUser) (User, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
	Usernames(ctx context.Context, ids []int64) (map[int64]string, error)
	GetIdentity(ctx context.Context, provider, providerSubject string) (Identity, bool, error)
	GetIdentityByUser(ctx context.Context, userID int64, provider string) (Identity, bool, error)
	UpsertIdentity(ctx context.Context, identity Identity) (Identity, error)
}
