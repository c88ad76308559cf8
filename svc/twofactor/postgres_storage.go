package twofactor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boardly/boardly/pkg/pg"
)

// PostgresStorage keeps records in the two_factor_secrets table.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	rec := Record{UserID: userID}
	err := s.pool.QueryRow(ctx,
		`SELECT secret, recovery_codes, enabled_at, updated_at
		   FROM two_factor_secrets WHERE user_id = $1`, userID,
	).Scan(&rec.Secret, &rec.RecoveryCodes, &rec.EnabledAt, &rec.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotEnabled
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &rec, nil
}

func (s *PostgresStorage) Save(ctx context.Context, rec *Record) error {
	codes := rec.RecoveryCodes
	if codes == nil {
		codes = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO two_factor_secrets (user_id, secret, recovery_codes, enabled_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE
		    SET secret = EXCLUDED.secret,
		        recovery_codes = EXCLUDED.recovery_codes,
		        enabled_at = EXCLUDED.enabled_at,
		        updated_at = EXCLUDED.updated_at`,
		rec.UserID, rec.Secret, codes, rec.EnabledAt, rec.UpdatedAt,
	)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM two_factor_secrets WHERE user_id = $1`, userID); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// ConsumeRecoveryCode removes the hash in a single statement, so two
// concurrent requests cannot both spend the same code.
func (s *PostgresStorage) ConsumeRecoveryCode(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE two_factor_secrets
		    SET recovery_codes = array_remove(recovery_codes, $2), updated_at = now()
		  WHERE user_id = $1 AND $2 = ANY(recovery_codes)`,
		userID, hash,
	)
	if err != nil {
		return false, errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// ReplaceSecret only touches the secret column, guarded by its old value.
func (s *PostgresStorage) ReplaceSecret(ctx context.Context, userID uuid.UUID, current, sealed string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE two_factor_secrets
		    SET secret = $3, updated_at = now()
		  WHERE user_id = $1 AND secret = $2`,
		userID, current, sealed,
	)
	if err != nil {
		return false, errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

var _ Storage = (*PostgresStorage)(nil)
