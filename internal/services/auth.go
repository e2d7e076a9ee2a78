package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/reef111qq/playlist-buddy/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes required by the aggregation pipeline and the commit path.
var spotifyScopes = []string{
	"user-library-read",
	"playlist-read-private",
	"user-top-read",
	"playlist-modify-public",
	"playlist-modify-private",
}

// NewOAuthConfig builds the [oauth2.Config] for the Spotify authorization
// code flow from stored credentials.
func NewOAuthConfig(cfg shared.SpotifyConfig) (*oauth2.Config, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:8080/callback"
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}, nil
}

// OAuthTokenProvider implements [TokenProvider] on top of an oauth2 token
// source, refreshing expired tokens transparently. A refresh callback lets
// the caller persist rotated tokens.
type OAuthTokenProvider struct {
	mu        sync.Mutex
	config    *oauth2.Config
	current   *oauth2.Token
	onRefresh func(*oauth2.Token)
}

// NewOAuthTokenProvider wraps a stored token. token may be nil, in which case
// every AccessToken call fails with [shared.ErrNotAuthenticated] until
// [OAuthTokenProvider.SetToken] installs one.
func NewOAuthTokenProvider(config *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token)) *OAuthTokenProvider {
	return &OAuthTokenProvider{config: config, current: token, onRefresh: onRefresh}
}

// SetToken installs a freshly obtained token (e.g. after a login flow).
func (p *OAuthTokenProvider) SetToken(token *oauth2.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = token
}

// AccessToken returns a valid access token, refreshing through the token
// endpoint when the stored one has expired.
func (p *OAuthTokenProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return "", shared.ErrNotAuthenticated
	}

	token, err := p.config.TokenSource(ctx, p.current).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	if token.AccessToken != p.current.AccessToken {
		p.current = token
		if p.onRefresh != nil {
			p.onRefresh(token)
		}
	}

	return token.AccessToken, nil
}

// StaticTokenProvider returns a fixed access token. Useful for tests and
// short-lived scripts.
type StaticTokenProvider string

func (p StaticTokenProvider) AccessToken(ctx context.Context) (string, error) {
	if p == "" {
		return "", shared.ErrNotAuthenticated
	}
	return string(p), nil
}
