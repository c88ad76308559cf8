package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "boardly:session:"

// touchScript updates last_activity_at and expires_at of the JSON record in
// place and resets the key TTL. KEYS[1] session key; ARGV: activity, expiry
// (RFC 3339), ttl ms. Returns 0 when the key is gone.
var touchScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return 0
end
local s = cjson.decode(raw)
s["last_activity_at"] = ARGV[1]
s["expires_at"] = ARGV[2]
redis.call("SET", KEYS[1], cjson.encode(s), "PX", ARGV[3])
return 1
`)

// RedisStore keeps sessions as JSON values with a native Redis TTL matching
// ExpiresAt, so DeleteExpired has nothing to do.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store on top of an already connected client.
// An empty prefix selects the default key namespace.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	return s.write(ctx, session, false)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if session.IsExpired() {
		_ = s.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	return s.write(ctx, session, true)
}

// UpdateActivity rewrites the two activity fields inside Redis, so a Save that
// lands between the worker's read and write is never rolled back.
func (s *RedisStore) UpdateActivity(ctx context.Context, token string, lastActivity, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	n, err := touchScript.Run(ctx, s.client, []string{s.key(token)},
		lastActivity.Format(time.RFC3339Nano),
		expiresAt.Format(time.RFC3339Nano),
		max(ttl.Milliseconds(), 1),
	).Int()
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts keys when their TTL runs out.
func (s *RedisStore) DeleteExpired(context.Context) error {
	return nil
}

// write stores session with a TTL derived from ExpiresAt. With mustExist set the
// write only succeeds when the key is still present (SET XX).
func (s *RedisStore) write(ctx context.Context, session *Session, mustExist bool) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	if !mustExist {
		if err := s.client.Set(ctx, s.key(session.Token), data, ttl).Err(); err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
		return nil
	}

	ok, err := s.client.SetXX(ctx, s.key(session.Token), data, ttl).Result()
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}
