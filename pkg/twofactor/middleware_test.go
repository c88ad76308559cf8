package twofactor_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/twofactor"
)

func TestRequireUnlocked(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	claimRec := httptest.NewRecorder()
	require.NoError(t, m.SetVerifiedForSession(claimRec, "session-one", userID))

	sso := func(*http.Request) (twofactor.Subject, error) {
		return twofactor.Subject{UserID: userID, TwoFactorEnabled: true, AuthProvider: "google"}, nil
	}
	password := func(*http.Request) (twofactor.Subject, error) {
		return twofactor.Subject{UserID: userID, TwoFactorEnabled: true, AuthProvider: twofactor.ProviderCredentials}, nil
	}
	anonymous := func(*http.Request) (twofactor.Subject, error) {
		return twofactor.Subject{}, errors.New("not signed in")
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		resolve  twofactor.SubjectFunc
		req      *http.Request
		wantCode int
		wantBody string
	}{
		{
			name:     "anonymous",
			resolve:  anonymous,
			req:      request("", nil),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Authentication required"}`,
		},
		{
			name:     "sso without claim",
			resolve:  sso,
			req:      request("session-one", nil),
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Two-factor verification required"}`,
		},
		{
			name:     "sso with claim for another session",
			resolve:  sso,
			req:      request("session-two", claimRec),
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Two-factor verification required"}`,
		},
		{
			name:     "sso with claim",
			resolve:  sso,
			req:      request("session-one", claimRec),
			wantCode: http.StatusNoContent,
		},
		{
			name:     "password login",
			resolve:  password,
			req:      request("session-one", nil),
			wantCode: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			m.RequireUnlocked(tt.resolve)(ok).ServeHTTP(rec, tt.req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
				assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			}
		})
	}
}
