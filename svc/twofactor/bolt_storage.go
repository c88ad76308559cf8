package twofactor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("two_factor")

// BoltStorage keeps records in a bbolt file, one JSON document per user.
// It serves single-node deployments that run without Postgres.
type BoltStorage struct {
	db *bbolt.DB
}

// NewBoltStorage wraps an open database and makes sure the bucket exists.
func NewBoltStorage(db *bbolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &BoltStorage{db: db}, nil
}

// OpenBoltStorage opens (or creates) the database file at path.
func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Join(ErrStorage, fmt.Errorf("opening bbolt db: %w", err))
	}
	s, err := NewBoltStorage(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the handle so other stores can share the file.
func (s *BoltStorage) DB() *bbolt.DB {
	return s.db
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

type boltRecord struct {
	Secret        string    `json:"secret"`
	RecoveryCodes []string  `json:"recovery_codes"`
	EnabledAt     time.Time `json:"enabled_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *BoltStorage) Get(_ context.Context, userID uuid.UUID) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		rec, err = getBolt(tx.Bucket(bucketName), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *BoltStorage) Save(_ context.Context, rec *Record) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return putBolt(tx.Bucket(bucketName), rec)
	})
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *BoltStorage) Delete(_ context.Context, userID uuid.UUID) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete(userID[:])
	})
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *BoltStorage) ConsumeRecoveryCode(_ context.Context, userID uuid.UUID, hash string) (bool, error) {
	var consumed bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		rec, err := getBolt(b, userID)
		if err != nil {
			return err
		}
		i := slices.Index(rec.RecoveryCodes, hash)
		if i < 0 {
			return nil
		}
		rec.RecoveryCodes = slices.Delete(rec.RecoveryCodes, i, i+1)
		rec.UpdatedAt = time.Now()
		consumed = true
		return putBolt(b, rec)
	})
	if err != nil {
		return false, err
	}
	return consumed, nil
}

func (s *BoltStorage) ReplaceSecret(_ context.Context, userID uuid.UUID, current, sealed string) (bool, error) {
	var replaced bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		rec, err := getBolt(b, userID)
		if err != nil {
			return err
		}
		if rec.Secret != current {
			return nil
		}
		rec.Secret = sealed
		rec.UpdatedAt = time.Now()
		replaced = true
		return putBolt(b, rec)
	})
	if err != nil {
		return false, err
	}
	return replaced, nil
}

func getBolt(b *bbolt.Bucket, userID uuid.UUID) (*Record, error) {
	data := b.Get(userID[:])
	if data == nil {
		return nil, ErrNotEnabled
	}
	var br boltRecord
	if err := json.Unmarshal(data, &br); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &Record{
		UserID:        userID,
		Secret:        br.Secret,
		RecoveryCodes: br.RecoveryCodes,
		EnabledAt:     br.EnabledAt,
		UpdatedAt:     br.UpdatedAt,
	}, nil
}

func putBolt(b *bbolt.Bucket, rec *Record) error {
	data, err := json.Marshal(boltRecord{
		Secret:        rec.Secret,
		RecoveryCodes: rec.RecoveryCodes,
		EnabledAt:     rec.EnabledAt,
		UpdatedAt:     rec.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return b.Put(rec.UserID[:], data)
}

var _ Storage = (*BoltStorage)(nil)
