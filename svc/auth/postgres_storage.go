package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boardly/boardly/pkg/pg"
)

// PostgresStorage keeps accounts in the users and user_identities tables.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *User, passwordHash []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, string(passwordHash), user.CreatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return ErrEmailAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.getUser(ctx, `SELECT id, email, name, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, `SELECT id, email, name, created_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresStorage) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var hash string
	err := s.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if pg.IsNotFoundError(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get password hash: %w", err)
	}
	if hash == "" {
		return nil, nil
	}
	return []byte(hash), nil
}

func (s *PostgresStorage) LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_identities (provider, provider_user_id, user_id) VALUES ($1, $2, $3)
		 ON CONFLICT (provider, provider_user_id) DO UPDATE SET user_id = EXCLUDED.user_id`,
		provider, providerUserID, userID,
	)
	if pg.IsForeignKeyViolationError(err) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("link identity: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetUserByIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	return s.getUser(ctx,
		`SELECT u.id, u.email, u.name, u.created_at
		   FROM user_identities i JOIN users u ON u.id = i.user_id
		  WHERE i.provider = $1 AND i.provider_user_id = $2`,
		provider, providerUserID,
	)
}

func (s *PostgresStorage) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if pg.IsNotFoundError(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(errors.New("get user"), err)
	}
	return &u, nil
}

var _ Storage = (*PostgresStorage)(nil)
