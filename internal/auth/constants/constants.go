package constants

const (
	// GrantTypeAuthorizationCode exchanges an authorization code for tokens
	GrantTypeAuthorizationCode = "authorization_code"

	// GrantTypeRefreshToken exchanges a refresh token for fresh tokens
	GrantTypeRefreshToken = "refresh_token"

	// AuthHeaderName is the name of the Authorization header
	AuthHeaderName = "Authorization"

	// AuthHeaderPrefix is the prefix for the Authorization header value
	AuthHeaderPrefix = "Bearer "
)

// SupportedGrantTypes lists the grant types the token endpoint accepts.
// Anything else is rejected before touching the upstream provider.
var SupportedGrantTypes = []string{GrantTypeAuthorizationCode, GrantTypeRefreshToken}
