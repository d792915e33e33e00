// Package handlers exposes the token exchange flow over HTTP.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingasieminiak/backstage/internal/auth"
	"github.com/kingasieminiak/backstage/internal/auth/models"
	"github.com/kingasieminiak/backstage/internal/httputil"
	"go.uber.org/zap"
)

// Handler handles token exchange HTTP requests
type Handler struct {
	exchanger *auth.Exchanger
	logger    *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(exchanger *auth.Exchanger, logger *zap.Logger) *Handler {
	return &Handler{
		exchanger: exchanger,
		logger:    logger,
	}
}

// RegisterRoutes registers the token exchange routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/token", h.HandleToken)
	mux.HandleFunc("/auth-local", h.HandleLocal)
}

// HandleToken handles the token endpoint. It accepts the exchange parameters
// as JSON or as a URL-encoded form and always answers with a JSON body.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteMethodNotAllowed(w, http.MethodPost)
		return
	}

	req, err := parseRequest(r)
	if err != nil {
		h.logger.Warn("malformed token exchange request", zap.Error(err))
		httputil.WriteError(w, http.StatusBadRequest, auth.ErrCodeInvalidRequest, err.Error())
		return
	}

	resp, exErr := h.exchanger.Exchange(r.Context(), req)
	if exErr != nil {
		httputil.WriteError(w, exErr.Status, exErr.Code, exErr.Description)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleLocal handles the local development endpoint. No request body is
// expected; the configured dev token drives the whole exchange.
func (h *Handler) HandleLocal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteMethodNotAllowed(w, http.MethodPost)
		return
	}

	resp, exErr := h.exchanger.ExchangeLocal(r.Context())
	if exErr != nil {
		httputil.WriteError(w, exErr.Status, exErr.Code, exErr.Description)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// parseRequest decodes the exchange parameters from a JSON body or, for any
// other content type, from a URL-encoded form.
func parseRequest(r *http.Request) (*models.TokenExchangeRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req models.TokenExchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %v", err)
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %v", err)
	}
	return &models.TokenExchangeRequest{
		GrantType:    r.PostFormValue("grant_type"),
		Code:         r.PostFormValue("code"),
		RedirectURI:  r.PostFormValue("redirect_uri"),
		RefreshToken: r.PostFormValue("refresh_token"),
		ClientID:     r.PostFormValue("client_id"),
		ClientSecret: r.PostFormValue("client_secret"),
	}, nil
}
