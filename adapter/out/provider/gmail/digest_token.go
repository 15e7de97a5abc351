package gmail

import (
	"context"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"digest_server/pkg/apperr"
	"digest_server/pkg/logger"
)

// OAuthConfig holds the Google OAuth client settings.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewOAuthConfig builds the oauth2 config with the read, modify and send
// scopes the digest worker needs.
func NewOAuthConfig(cfg *OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			gmail.GmailReadonlyScope,
			gmail.GmailModifyScope,
			gmail.GmailSendScope,
		},
		Endpoint: google.Endpoint,
	}
}

// TokenStore persists the OAuth token to a local JSON file so later runs
// skip the interactive consent flow.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

// NewTokenStore creates a token store backed by the given file.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the stored token. A missing file is an auth failure the caller
// resolves by running the consent flow.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperr.AuthFailed(err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, apperr.AuthFailed(err)
	}
	return &token, nil
}

// Save writes the token back to disk with owner-only permissions.
func (s *TokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(token)
	if err != nil {
		return apperr.AuthFailed(err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// persistingTokenSource wraps a refreshing token source and writes every
// refreshed token back to the store.
type persistingTokenSource struct {
	src   oauth2.TokenSource
	store *TokenStore
	last  string
}

// TokenSource returns a token source that refreshes through the oauth2
// config and persists refreshed tokens to the store.
func (s *TokenStore) TokenSource(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) oauth2.TokenSource {
	return &persistingTokenSource{
		src:   cfg.TokenSource(ctx, token),
		store: s,
		last:  token.AccessToken,
	}
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != p.last {
		p.last = token.AccessToken
		if err := p.store.Save(token); err != nil {
			logger.WithError(err).Warn("failed to persist refreshed token")
		}
	}
	return token, nil
}
