package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BACKSTAGE_AUTH_TOKEN_URL", "https://idp.example.com/token")
	t.Setenv("BACKSTAGE_AUTH_USERINFO_URL", "https://idp.example.com/userinfo")
	t.Setenv("BACKSTAGE_AUTH_SIGNING_KEY", "test-signing-key")
	t.Setenv("BACKSTAGE_AUTH_DEV_TOKEN", "test-dev-token")
	t.Setenv("BACKSTAGE_LOGGING_LEVEL", "debug")
	t.Setenv("BACKSTAGE_SERVER_TITLE", "Backstage")
	t.Setenv("BACKSTAGE_SERVER_BASE_URL", "http://localhost:7007")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://idp.example.com/token", cfg.Auth.TokenURL)
	assert.Equal(t, "https://idp.example.com/userinfo", cfg.Auth.UserInfoURL)
	assert.Equal(t, "test-signing-key", cfg.Auth.SigningKey)
	assert.Equal(t, "test-dev-token", cfg.Auth.DevToken)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "Backstage", cfg.Server.Title)
	assert.Equal(t, "http://localhost:7007", cfg.Server.BaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultCatalogFile, cfg.Catalog.File)
	assert.Empty(t, cfg.Logging.Format)
	assert.False(t, cfg.Logging.DisableStacktrace)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BACKSTAGE_SERVER_PORT", "9000")
	t.Setenv("BACKSTAGE_CATALOG_FILE", "testdata/entities.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "testdata/entities.yaml", cfg.Catalog.File)
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BACKSTAGE_AUTH_SIGNING_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.signing_key")
}

func TestLoad_ReportsAllMissingKeys(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BACKSTAGE_AUTH_SIGNING_KEY", "")
	t.Setenv("BACKSTAGE_SERVER_TITLE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.signing_key")
	assert.Contains(t, err.Error(), "server.title")
}

func TestValidate_AllPresent(t *testing.T) {
	cfg := &Config{
		Auth: AuthConfig{
			TokenURL:    "https://idp.example.com/token",
			UserInfoURL: "https://idp.example.com/userinfo",
			SigningKey:  "k",
			DevToken:    "d",
		},
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Title: "Backstage", BaseURL: "http://localhost:7007"},
	}
	assert.NoError(t, cfg.validate())
}
