package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kingasieminiak/backstage/internal/auth/constants"
)

// Error codes returned in the "error" field of failed token responses.
const (
	ErrCodeInvalidRequest       = "invalid_request"
	ErrCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrCodeUpstreamError        = "upstream_error"
	ErrCodeUserInfoError        = "userinfo_error"
	ErrCodeSigningError         = "signing_error"
)

// ExchangeError describes a failed token exchange. Code and Description map
// onto the RFC 6749 error body, Status is the HTTP status to respond with.
type ExchangeError struct {
	Code        string
	Description string
	Status      int
	Err         error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// ErrInvalidRequest reports a missing or malformed request parameter.
func ErrInvalidRequest(description string) *ExchangeError {
	return &ExchangeError{
		Code:        ErrCodeInvalidRequest,
		Description: description,
		Status:      http.StatusBadRequest,
	}
}

// ErrUnsupportedGrantType reports a grant type outside the supported set.
func ErrUnsupportedGrantType(grantType string) *ExchangeError {
	return &ExchangeError{
		Code:        ErrCodeUnsupportedGrantType,
		Description: fmt.Sprintf("grant type %q is not supported, expected one of: %s", grantType, strings.Join(constants.SupportedGrantTypes, ", ")),
		Status:      http.StatusBadRequest,
	}
}

// ErrUpstream reports a failed token request against the upstream provider.
func ErrUpstream(err error) *ExchangeError {
	return &ExchangeError{
		Code:        ErrCodeUpstreamError,
		Description: "upstream token request failed",
		Status:      http.StatusInternalServerError,
		Err:         err,
	}
}

// ErrUserInfo reports a failed profile fetch from the upstream provider.
func ErrUserInfo(err error) *ExchangeError {
	return &ExchangeError{
		Code:        ErrCodeUserInfoError,
		Description: "fetching user info failed",
		Status:      http.StatusInternalServerError,
		Err:         err,
	}
}

// ErrSigning reports a failure to sign the identity token.
func ErrSigning(err error) *ExchangeError {
	return &ExchangeError{
		Code:        ErrCodeSigningError,
		Description: "signing identity token failed",
		Status:      http.StatusInternalServerError,
		Err:         err,
	}
}
