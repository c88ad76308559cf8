package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var (
	usersBucket      = []byte("users")
	emailsBucket     = []byte("user_emails")
	identitiesBucket = []byte("user_identities")
)

// BoltStorage keeps accounts in a bbolt file. It shares the file with the
// two-factor store on single-node deployments.
type BoltStorage struct {
	db *bbolt.DB
}

func NewBoltStorage(db *bbolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{usersBucket, emailsBucket, identitiesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create auth buckets: %w", err)
	}
	return &BoltStorage{db: db}, nil
}

type boltUser struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *BoltStorage) CreateUser(_ context.Context, user *User, passwordHash []byte) error {
	data, err := json.Marshal(boltUser{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return err
	}
	emailKey := []byte(strings.ToLower(user.Email))

	return s.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket(emailsBucket)
		if emails.Get(emailKey) != nil {
			return ErrEmailAlreadyExists
		}
		if err := tx.Bucket(usersBucket).Put(user.ID[:], data); err != nil {
			return err
		}
		return emails.Put(emailKey, user.ID[:])
	})
}

func (s *BoltStorage) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	var user *User
	err := s.db.View(func(tx *bbolt.Tx) error {
		u, _, err := getBoltUser(tx, id[:])
		user = u
		return err
	})
	return user, err
}

func (s *BoltStorage) GetUserByEmail(_ context.Context, email string) (*User, error) {
	return s.lookup(emailsBucket, []byte(strings.ToLower(email)))
}

func (s *BoltStorage) GetPasswordHash(_ context.Context, userID uuid.UUID) ([]byte, error) {
	var hash []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		_, h, err := getBoltUser(tx, userID[:])
		hash = h
		return err
	})
	return hash, err
}

func (s *BoltStorage) LinkIdentity(_ context.Context, userID uuid.UUID, provider, providerUserID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(usersBucket).Get(userID[:]) == nil {
			return ErrUserNotFound
		}
		return tx.Bucket(identitiesBucket).Put(identityKey(provider, providerUserID), userID[:])
	})
}

func (s *BoltStorage) GetUserByIdentity(_ context.Context, provider, providerUserID string) (*User, error) {
	return s.lookup(identitiesBucket, identityKey(provider, providerUserID))
}

// lookup resolves an index bucket entry to the user it points at.
func (s *BoltStorage) lookup(index, key []byte) (*User, error) {
	var user *User
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(index).Get(key)
		if id == nil {
			return ErrUserNotFound
		}
		u, _, err := getBoltUser(tx, id)
		user = u
		return err
	})
	return user, err
}

func getBoltUser(tx *bbolt.Tx, id []byte) (*User, []byte, error) {
	data := tx.Bucket(usersBucket).Get(id)
	if data == nil {
		return nil, nil, ErrUserNotFound
	}
	var bu boltUser
	if err := json.Unmarshal(data, &bu); err != nil {
		return nil, nil, errors.Join(errors.New("decode user"), err)
	}
	uid, err := uuid.FromBytes(id)
	if err != nil {
		return nil, nil, err
	}
	return &User{ID: uid, Email: bu.Email, Name: bu.Name, CreatedAt: bu.CreatedAt}, bu.PasswordHash, nil
}

func identityKey(provider, providerUserID string) []byte {
	return []byte(provider + "\x00" + providerUserID)
}

var _ Storage = (*BoltStorage)(nil)
