package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record of one browser login. Token is the opaque
// value carried by the session cookie and is rotated on every login.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	Token          string            `json:"token"`
	UserID         *uuid.UUID        `json:"user_id,omitempty"`
	AuthProvider   string            `json:"auth_provider,omitempty"`
	Data           map[string]string `json:"data,omitempty"`
	ExpiresAt      time.Time         `json:"expires_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewSession creates a new session with the given parameters
func NewSession(token string, userID *uuid.UUID, provider string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		AuthProvider:   provider,
		Data:           make(map[string]string),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated returns true if the session has a user ID
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != nil
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

func (s *Session) Get(key string) (string, bool) {
	if s == nil || s.Data == nil {
		return "", false
	}
	val, ok := s.Data[key]
	return val, ok
}

func (s *Session) Set(key, value string) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}

func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// Touch updates the last activity time
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}

// clone returns a deep copy so stores never share the Data map with callers.
func (s *Session) clone() *Session {
	c := *s
	if s.UserID != nil {
		uid := *s.UserID
		c.UserID = &uid
	}
	c.Data = maps.Clone(s.Data)
	return &c
}
