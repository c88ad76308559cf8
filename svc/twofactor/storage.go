package twofactor

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Record is the persisted second-factor state of one user.
type Record struct {
	UserID uuid.UUID
	// Secret is an "enc:v1:..." envelope, or plaintext stored before an
	// encryption key was configured.
	Secret string
	// RecoveryCodes holds SHA-256 hashes of the unused recovery codes.
	RecoveryCodes []string
	EnabledAt     time.Time
	UpdatedAt     time.Time
}

func (r *Record) clone() *Record {
	c := *r
	c.RecoveryCodes = slices.Clone(r.RecoveryCodes)
	return &c
}

// Storage persists one Record per user.
type Storage interface {
	// Get returns ErrNotEnabled when the user has no record.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)
	// Save inserts or replaces the record.
	Save(ctx context.Context, rec *Record) error
	// Delete removes the record; deleting a missing record is not an error.
	Delete(ctx context.Context, userID uuid.UUID) error
	// ConsumeRecoveryCode atomically removes hash from the user's codes.
	// It reports false when the hash was not present.
	ConsumeRecoveryCode(ctx context.Context, userID uuid.UUID, hash string) (bool, error)
	// ReplaceSecret swaps the stored secret for sealed only while it still
	// equals current, leaving recovery codes untouched. It reports false when
	// the secret changed in between.
	ReplaceSecret(ctx context.Context, userID uuid.UUID, current, sealed string) (bool, error)
}
