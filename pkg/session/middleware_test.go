package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/session"
)

func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := session.FromContext(r.Context()); ok {
			w.Header().Set("X-Session-ID", sess.ID.String())
		}
		if uid, ok := session.UserIDFromContext(r.Context()); ok {
			w.Header().Set("X-User-ID", uid)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	manager := setupManager(t)
	handler := manager.Middleware(sessionEcho())

	t.Run("adds session to context", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		sess, err := manager.Ensure(context.Background(), w1, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), w1))

		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, sess.ID.String(), w2.Header().Get("X-Session-ID"))
		assert.Empty(t, w2.Header().Get("X-User-ID"))
	})

	t.Run("continues without session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Session-ID"))
	})
}

func TestRequireAuth(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	t.Run("default rejection", func(t *testing.T) {
		handler := manager.RequireAuth(nil)(sessionEcho())
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("anonymous session rejected with custom handler", func(t *testing.T) {
		handler := manager.RequireAuth(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})(sessionEcho())

		w1 := httptest.NewRecorder()
		_, err := manager.Ensure(ctx, w1, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), w1))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("authenticated session passes", func(t *testing.T) {
		handler := manager.RequireAuth(nil)(sessionEcho())
		userID := uuid.New()

		w1 := httptest.NewRecorder()
		_, err := manager.Authenticate(ctx, w1, httptest.NewRequest(http.MethodPost, "/", nil), userID, "credentials")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), w1))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Header().Get("X-User-ID"))
	})
}

func TestEnsureSession(t *testing.T) {
	manager := setupManager(t)
	handler := manager.EnsureSession(sessionEcho())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Session-ID"))
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestContext(t *testing.T) {
	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	ctx := session.WithSession(context.Background(), nil)
	_, ok = session.FromContext(ctx)
	assert.False(t, ok)

	_, ok = session.UserIDFromContext(context.Background())
	assert.False(t, ok)
}
