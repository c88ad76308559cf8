package auth

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubOAuthConfig enables "Sign in with GitHub" when ClientID is set.
type GitHubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
}

func (c GitHubOAuthConfig) Enabled() bool { return c.ClientID != "" }

type githubAdapter struct {
	conf *oauth2.Config
	opts adapterOptions
}

func NewGitHubAdapter(cfg GitHubOAuthConfig, opts ...AdapterOption) ProviderAdapter {
	o := defaultAdapterOptions("https://api.github.com")
	for _, opt := range opts {
		opt(&o)
	}
	endpoint := github.Endpoint
	if o.authURL != "" {
		endpoint = oauth2.Endpoint{AuthURL: o.authURL, TokenURL: o.tokenURL}
	}
	return &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		opts: o,
	}
}

func (a *githubAdapter) ProviderID() string { return ProviderGithub }

func (a *githubAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

// ResolveProfile reads /user/emails as well, since /user only carries the
// public email and no verification flag.
func (a *githubAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.opts.httpClient)
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ErrInvalidCode
	}

	var u struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := getJSON(ctx, a.opts.httpClient, a.opts.apiBase+"/user", tok.AccessToken, &u); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github user: %w", err)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, a.opts.httpClient, a.opts.apiBase+"/user/emails", tok.AccessToken, &emails); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github emails: %w", err)
	}

	profile := ProviderProfile{ProviderUserID: strconv.FormatInt(u.ID, 10), Name: u.Name}
	for _, e := range emails {
		if e.Verified && (e.Primary || profile.Email == "") {
			profile.Email = e.Email
			profile.EmailVerified = true
		}
	}
	if profile.Email == "" {
		return ProviderProfile{}, ErrNoPrimaryEmail
	}
	return profile, nil
}

var _ ProviderAdapter = (*githubAdapter)(nil)
