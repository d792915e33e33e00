// Package auth implements the token exchange flow: it relays authorization
// code and refresh token grants to the upstream OAuth provider, mints a
// locally signed identity token for the authenticated user, and returns the
// normalized token triple.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kingasieminiak/backstage/internal/auth/constants"
	"github.com/kingasieminiak/backstage/internal/auth/models"
	"github.com/kingasieminiak/backstage/internal/auth/providers"
	"github.com/kingasieminiak/backstage/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Exchanger validates token exchange requests, dispatches them to the
// upstream provider by grant type and composes the final response. All
// validation happens before any upstream call.
type Exchanger struct {
	provider providers.Provider
	minter   *Minter
	devToken string
	logger   *zap.Logger
}

func NewExchanger(cfg *config.AuthConfig, provider providers.Provider, minter *Minter, logger *zap.Logger) *Exchanger {
	return &Exchanger{
		provider: provider,
		minter:   minter,
		devToken: cfg.DevToken,
		logger:   logger,
	}
}

// Exchange performs a full token exchange for the given request. It returns
// either a complete response or a typed error; it never does both and never
// proceeds past a failed step.
func (e *Exchanger) Exchange(ctx context.Context, req *models.TokenExchangeRequest) (*models.TokenExchangeResponse, *ExchangeError) {
	if exErr := validateRequest(req); exErr != nil {
		return nil, exErr
	}

	creds := providers.ClientCredentials{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	}

	var token *oauth2.Token
	var err error
	switch req.GrantType {
	case constants.GrantTypeAuthorizationCode:
		token, err = e.provider.ExchangeCode(ctx, creds, req.Code, req.RedirectURI)
	case constants.GrantTypeRefreshToken:
		token, err = e.provider.RefreshToken(ctx, creds, req.RefreshToken)
	default:
		// validateRequest rejects unknown grant types, this is unreachable
		return nil, ErrUnsupportedGrantType(req.GrantType)
	}
	if err != nil {
		e.logUpstreamFailure(req.GrantType, err)
		return nil, upstreamError(err)
	}

	idToken, exErr := e.minter.Mint(ctx, token.AccessToken)
	if exErr != nil {
		e.logger.Error("identity minting failed",
			zap.String("grant_type", req.GrantType),
			zap.Error(exErr))
		return nil, exErr
	}

	e.logger.Info("token exchange succeeded", zap.String("grant_type", req.GrantType))
	return &models.TokenExchangeResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IDToken:      idToken,
	}, nil
}

// ExchangeLocal mints the response for local development. The configured dev
// token stands in for both upstream tokens and is used as the access token
// when fetching the user profile.
func (e *Exchanger) ExchangeLocal(ctx context.Context) (*models.TokenExchangeResponse, *ExchangeError) {
	idToken, exErr := e.minter.Mint(ctx, e.devToken)
	if exErr != nil {
		e.logger.Error("local identity minting failed", zap.Error(exErr))
		return nil, exErr
	}

	e.logger.Info("local token exchange succeeded")
	return &models.TokenExchangeResponse{
		AccessToken:  e.devToken,
		RefreshToken: e.devToken,
		IDToken:      idToken,
	}, nil
}

// validateRequest checks the mandatory fields and the per-grant parameters.
// Grant types outside the supported set are rejected here so that no
// upstream call is ever made on their behalf.
func validateRequest(req *models.TokenExchangeRequest) *ExchangeError {
	var missing []string
	if req.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if req.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if req.GrantType == "" {
		missing = append(missing, "grant_type")
	}
	if len(missing) > 0 {
		return ErrInvalidRequest("missing required parameters: " + strings.Join(missing, ", "))
	}

	switch req.GrantType {
	case constants.GrantTypeAuthorizationCode:
		if req.Code == "" {
			missing = append(missing, "code")
		}
		if req.RedirectURI == "" {
			missing = append(missing, "redirect_uri")
		}
	case constants.GrantTypeRefreshToken:
		if req.RefreshToken == "" {
			missing = append(missing, "refresh_token")
		}
	default:
		return ErrUnsupportedGrantType(req.GrantType)
	}
	if len(missing) > 0 {
		return ErrInvalidRequest("missing required parameters: " + strings.Join(missing, ", "))
	}
	return nil
}

// upstreamError wraps a provider failure, surfacing the upstream HTTP status
// when the oauth2 library captured one.
func upstreamError(err error) *ExchangeError {
	exErr := ErrUpstream(err)
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		exErr.Description = fmt.Sprintf("upstream token endpoint returned status %d", retrieveErr.Response.StatusCode)
	}
	return exErr
}

func (e *Exchanger) logUpstreamFailure(grantType string, err error) {
	fields := []zap.Field{
		zap.String("grant_type", grantType),
		zap.Error(err),
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil {
			fields = append(fields, zap.Int("upstream_status", retrieveErr.Response.StatusCode))
		}
		fields = append(fields, zap.ByteString("upstream_body", retrieveErr.Body))
	}
	e.logger.Error("upstream token exchange failed", fields...)
}
