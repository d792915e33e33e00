package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kingasieminiak/backstage/internal/auth/constants"
	"github.com/kingasieminiak/backstage/internal/auth/models"
	"github.com/kingasieminiak/backstage/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// UpstreamProvider talks to a single configured OAuth provider: its token
// endpoint for both grants and its userinfo endpoint for profiles. Client
// credentials are supplied per call because the proxy forwards whatever the
// caller presents. Requests carry no timeout of their own; cancellation is
// driven by the caller's context.
type UpstreamProvider struct {
	tokenURL    string
	userInfoURL string
	client      *http.Client
	logger      *zap.Logger
}

func NewUpstreamProvider(cfg *config.AuthConfig, logger *zap.Logger) *UpstreamProvider {
	return &UpstreamProvider{
		tokenURL:    cfg.TokenURL,
		userInfoURL: cfg.UserInfoURL,
		client:      &http.Client{},
		logger:      logger,
	}
}

// oauth2Config builds a per-request oauth2 config. AuthStyleInParams sends
// client_id and client_secret in the form body, which is what the upstream
// endpoint expects.
func (p *UpstreamProvider) oauth2Config(creds ClientCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  p.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// withHTTPClient makes the oauth2 package use the provider's HTTP client.
func (p *UpstreamProvider) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.client)
}

func (p *UpstreamProvider) ExchangeCode(ctx context.Context, creds ClientCredentials, code, redirectURI string) (*oauth2.Token, error) {
	cfg := p.oauth2Config(creds)
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}

	token, err := cfg.Exchange(p.withHTTPClient(ctx), code)
	if err != nil {
		p.logger.Warn("upstream code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

func (p *UpstreamProvider) RefreshToken(ctx context.Context, creds ClientCredentials, refreshToken string) (*oauth2.Token, error) {
	token, err := p.oauth2Config(creds).TokenSource(p.withHTTPClient(ctx), &oauth2.Token{
		RefreshToken: refreshToken,
	}).Token()
	if err != nil {
		p.logger.Warn("upstream token refresh failed", zap.Error(err))
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	return token, nil
}

func (p *UpstreamProvider) FetchUserInfo(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set(constants.AuthHeaderName, constants.AuthHeaderPrefix+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("userinfo request failed", zap.Error(err))
		return nil, fmt.Errorf("calling userinfo endpoint: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.logger.Warn("failed to close userinfo response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding userinfo response: %w", err)
	}
	return &profile, nil
}
