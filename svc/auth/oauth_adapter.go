package auth

import (
	"context"
	"net/http"
	"time"
)

// ProviderAdapter hides the protocol details of one identity provider behind
// the primitives the sign-in flow needs.
type ProviderAdapter interface {
	// ProviderID is the stable name stored on sessions and identities.
	ProviderID() string
	// AuthURL builds the authorization URL for the given state token.
	AuthURL(state string) string
	// ResolveProfile exchanges the code and fetches the user profile. Exchange
	// failures are ErrInvalidCode; a profile without email is ErrNoPrimaryEmail.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}

// ProviderProfile is the normalized user profile returned by a provider.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
}

// AdapterOption customises an adapter, mostly for tests against a fake provider.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	httpClient *http.Client
	apiBase    string
	authURL    string
	tokenURL   string
}

func defaultAdapterOptions(apiBase string) adapterOptions {
	return adapterOptions{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    apiBase,
	}
}

func WithHTTPClient(c *http.Client) AdapterOption {
	return func(o *adapterOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithEndpoints points the adapter at a different authorization server and API.
func WithEndpoints(authURL, tokenURL, apiBase string) AdapterOption {
	return func(o *adapterOptions) {
		o.authURL = authURL
		o.tokenURL = tokenURL
		o.apiBase = apiBase
	}
}
