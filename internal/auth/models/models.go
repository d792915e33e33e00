package models

// TokenExchangeRequest carries the parameters of a token endpoint call.
// Exactly one of Code or RefreshToken is used depending on GrantType.
type TokenExchangeRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// UserProfile is the subset of the upstream user-info payload the identity
// token carries.
type UserProfile struct {
	Email string `json:"email"`
}

// TokenExchangeResponse is the normalized result of a token exchange: the
// upstream token pair plus a locally signed identity token. The shape is the
// same for every grant type and for the local development path.
type TokenExchangeResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
}
