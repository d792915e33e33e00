package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kingasieminiak/backstage/internal/auth/providers"
	"github.com/kingasieminiak/backstage/internal/config"
	"go.uber.org/zap"
)

// Minter turns an upstream access token into a locally signed identity
// token. The token is an HS256 JWT whose only claim is the user's email.
type Minter struct {
	provider   providers.Provider
	signingKey []byte
	logger     *zap.Logger
}

func NewMinter(cfg *config.AuthConfig, provider providers.Provider, logger *zap.Logger) *Minter {
	return &Minter{
		provider:   provider,
		signingKey: []byte(cfg.SigningKey),
		logger:     logger,
	}
}

// Mint fetches the user profile for the access token and signs an identity
// token carrying the profile's email. The email claim is written even when
// the upstream profile has no email.
func (m *Minter) Mint(ctx context.Context, accessToken string) (string, *ExchangeError) {
	profile, err := m.provider.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return "", ErrUserInfo(err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": profile.Email,
	})
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		m.logger.Error("signing identity token failed", zap.Error(err))
		return "", ErrSigning(err)
	}
	return signed, nil
}
