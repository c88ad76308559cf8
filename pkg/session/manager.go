package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/boardly/boardly/pkg/cookie"
)

// Manager handles session operations
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	activityChan  chan activityUpdate
	done          chan struct{}
	stopped       chan struct{}
	closeOnce     sync.Once
}

type activityUpdate struct {
	token     string
	at        time.Time
	expiresAt time.Time
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config:       DefaultConfig(),
		activityChan: make(chan activityUpdate, 1000),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.cookieOptions...)
	}

	go m.activityWorker()

	return m
}

// Token returns the opaque token of the live session presented with r.
// A token that no longer maps to a stored session is reported as missing.
func (m *Manager) Token(r *http.Request) (string, error) {
	session, err := m.Get(r.Context(), r)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// Get retrieves an existing session
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Ensure returns the current session or starts an anonymous one.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err == nil {
		m.touch(w, session)
		return session, nil
	}

	session, err = m.createSession(ctx, nil, "")
	if err != nil {
		return nil, err
	}

	idle, _ := m.config.GetTimeouts(false)
	if err := m.transport.SetToken(w, session.Token, idle); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}

	return session, nil
}

// Authenticate binds userID and the login provider to the session and always
// issues a fresh token, so anything keyed to the previous token stops matching.
// The returned session carries the new token; it is not yet visible in r.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID, provider string) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err != nil {
		session, err = m.createSession(ctx, &userID, provider)
		if err != nil {
			return nil, err
		}
	} else {
		newToken, err := generateToken()
		if err != nil {
			return nil, err
		}

		// the pre-login token must not outlive the rotation
		if err := m.store.Delete(ctx, session.Token); err != nil {
			return nil, err
		}

		session.Token = newToken
		session.UserID = &userID
		session.AuthProvider = provider
		idle, max := m.config.GetTimeouts(true)
		session.ExpiresAt = calculateExpiry(session.CreatedAt, time.Now(), idle, max)
		session.Touch()

		if err := m.store.Create(ctx, session); err != nil {
			return nil, err
		}
	}

	idle, _ := m.config.GetTimeouts(true)
	if err := m.transport.SetToken(w, session.Token, idle); err != nil {
		return nil, err
	}
	return session, nil
}

// Save persists changes made to session data.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	return m.store.Update(ctx, session)
}

// Destroy deletes the session
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		if err := m.store.Delete(ctx, token); err != nil {
			return err
		}
	}

	m.transport.ClearToken(w)
	return nil
}

func (m *Manager) createSession(ctx context.Context, userID *uuid.UUID, provider string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	idle, max := m.config.GetTimeouts(userID != nil)
	now := time.Now()

	session := NewSession(token, userID, provider, calculateExpiry(now, now, idle, max).Sub(now))

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// touch slides the idle deadline of a live session. The store write happens
// off the request path and only covers the activity fields; the in-request copy
// and the cookie are refreshed now, so a later Save keeps the new deadline.
func (m *Manager) touch(w http.ResponseWriter, session *Session) {
	idle, max := m.config.GetTimeouts(session.IsAuthenticated())
	now := time.Now()
	// a threshold longer than the idle timeout would never slide anything
	if now.Sub(session.LastActivityAt) < min(m.config.ActivityUpdateThreshold, idle/2) {
		return
	}

	session.LastActivityAt = now
	session.ExpiresAt = calculateExpiry(session.CreatedAt, now, idle, max)

	select {
	case m.activityChan <- activityUpdate{token: session.Token, at: now, expiresAt: session.ExpiresAt}:
	default:
		// full: drop rather than block the request
		return
	}
	if w != nil {
		_ = m.transport.SetToken(w, session.Token, session.ExpiresAt.Sub(now))
	}
}

func (m *Manager) activityWorker() {
	defer close(m.stopped)
	apply := func(u activityUpdate) {
		_ = m.store.UpdateActivity(context.Background(), u.token, u.at, u.expiresAt)
	}

	for {
		select {
		case update := <-m.activityChan:
			apply(update)
		case <-m.done:
			for {
				select {
				case update := <-m.activityChan:
					apply(update)
				default:
					return
				}
			}
		}
	}
}

// Close stops the activity worker and waits until queued updates are written.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	<-m.stopped
	return nil
}

// calculateExpiry returns the earlier of the idle deadline and the absolute max lifetime.
func calculateExpiry(createdAt, now time.Time, idle, max time.Duration) time.Time {
	idleExpiry := now.Add(idle)
	maxExpiry := createdAt.Add(max)

	if maxExpiry.Before(idleExpiry) {
		return maxExpiry
	}
	return idleExpiry
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
