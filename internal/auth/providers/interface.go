package providers

import (
	"context"

	"github.com/kingasieminiak/backstage/internal/auth/models"
	"golang.org/x/oauth2"
)

// ClientCredentials identifies the OAuth client on whose behalf an upstream
// call is made. Both fields come from the incoming request, not from
// configuration: the proxy relays whatever credentials the caller presents.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// Provider defines the upstream OAuth capability the exchange flow requires
type Provider interface {
	// ExchangeCode exchanges an authorization code for tokens
	ExchangeCode(ctx context.Context, creds ClientCredentials, code, redirectURI string) (*oauth2.Token, error)

	// RefreshToken exchanges a refresh token for fresh tokens
	RefreshToken(ctx context.Context, creds ClientCredentials, refreshToken string) (*oauth2.Token, error)

	// FetchUserInfo fetches the profile of the user the access token belongs to
	FetchUserInfo(ctx context.Context, accessToken string) (*models.UserProfile, error)
}
