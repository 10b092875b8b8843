package userrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aerosense/internal/domain/auth"
)

const (
	selectUsers = `SELECT id, username, email, full_name, password_hash, role, is_active, created_at FROM users`

	identityColumns = `id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at`

	pgUniqueViolation = "23505"
)

// PostgresRepository stores accounts in the users and user_identities tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts the account and translates unique violations into
// auth.ErrEmailExists or auth.ErrUsernameExists.
func (r *PostgresRepository) Create(ctx context.Context, input auth.NewUser) (auth.User, error) {
	role := input.Role
	if role == "" {
		role = auth.RoleUser
	}
	rows, err := r.pool.Query(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, username, email, full_name, password_hash, role, is_active, created_at`,
		input.Username, input.Email, input.FullName, input.PasswordHash, role)
	if err != nil {
		return auth.User{}, classifyInsertError(err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, userFromRow)
	if err != nil {
		return auth.User{}, classifyInsertError(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.oneUser(ctx, selectUsers+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (auth.User, bool, error) {
	return r.oneUser(ctx, selectUsers+` WHERE username = $1`, username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	return r.oneUser(ctx, selectUsers+` WHERE id = $1`, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, selectUsers+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return pgx.CollectRows(rows, userFromRow)
}

func (r *PostgresRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Usernames resolves the given ids in one round trip.
func (r *PostgresRepository) Usernames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, username FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}
	var (
		id   int64
		name string
	)
	_, err = pgx.ForEachRow(rows, []any{&id, &name}, func() error {
		names[id] = name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}
	return names, nil
}

func (r *PostgresRepository) GetIdentity(ctx context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	return r.oneIdentity(ctx,
		`SELECT `+identityColumns+` FROM user_identities WHERE provider = $1 AND provider_subject = $2`,
		provider, providerSubject)
}

func (r *PostgresRepository) GetIdentityByUser(ctx context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	return r.oneIdentity(ctx,
		`SELECT `+identityColumns+` FROM user_identities WHERE user_id = $1 AND provider = $2 ORDER BY updated_at DESC LIMIT 1`,
		userID, provider)
}

// UpsertIdentity keys on (provider, provider_subject). Blank email or token
// values keep what is already stored.
func (r *PostgresRepository) UpsertIdentity(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	if identity.UserID == 0 {
		return auth.Identity{}, errors.New("identity requires a user id")
	}
	rows, err := r.pool.Query(ctx, `
		INSERT INTO user_identities (user_id, provider, provider_subject, provider_email, refresh_token)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_subject) DO UPDATE SET
			provider_email = COALESCE(NULLIF(EXCLUDED.provider_email, ''), user_identities.provider_email),
			refresh_token  = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), user_identities.refresh_token),
			updated_at     = NOW()
		RETURNING `+identityColumns,
		identity.UserID, identity.Provider, identity.ProviderSubject, identity.ProviderEmail, identity.RefreshToken)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("upsert identity: %w", err)
	}
	return pgx.CollectExactlyOneRow(rows, identityFromRow)
}

func (r *PostgresRepository) oneUser(ctx context.Context, query string, args ...any) (auth.User, bool, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return auth.User{}, false, err
	}
	return optional(pgx.CollectExactlyOneRow(rows, userFromRow))
}

func (r *PostgresRepository) oneIdentity(ctx context.Context, query string, args ...any) (auth.Identity, bool, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return auth.Identity{}, false, err
	}
	return optional(pgx.CollectExactlyOneRow(rows, identityFromRow))
}

func optional[T any](v T, err error) (T, bool, error) {
	var zero T
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return zero, false, nil
	case err != nil:
		return zero, false, err
	default:
		return v, true, nil
	}
}

func userFromRow(row pgx.CollectableRow) (auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, err
}

func identityFromRow(row pgx.CollectableRow) (auth.Identity, error) {
	var i auth.Identity
	err := row.Scan(&i.ID, &i.UserID, &i.Provider, &i.ProviderSubject, &i.ProviderEmail, &i.RefreshToken, &i.CreatedAt, &i.UpdatedAt)
	i.CreatedAt, i.UpdatedAt = i.CreatedAt.UTC(), i.UpdatedAt.UTC()
	return i, err
}

func classifyInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return fmt.Errorf("insert user: %w", err)
	}
	if strings.Contains(pgErr.ConstraintName, "username") {
		return auth.ErrUsernameExists
	}
	return auth.ErrEmailExists
}

var _ auth.Repository = (*PostgresRepository)(nil)
