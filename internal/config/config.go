package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Version returns the build version string.
func Version() string {
	return version
}

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("backstage version %s, commit %s, built at %s", version, commit, date)
}

// Config is the process-wide configuration. It is loaded once at startup and
// passed by reference into component constructors; components never consult
// viper (or any other ambient source) after Load returns.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Title is the human-facing service name shown on entity pages and
	// reported by the health endpoint.
	Title string `mapstructure:"title"`
	// BaseURL is the externally reachable root of this host.
	BaseURL string `mapstructure:"base_url"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// AuthConfig configures the token-exchange proxy. SigningKey and DevToken are
// secrets and must never be logged.
type AuthConfig struct {
	// TokenURL is the upstream OAuth token endpoint.
	TokenURL string `mapstructure:"token_url"`
	// UserInfoURL is the upstream user-info endpoint.
	UserInfoURL string `mapstructure:"userinfo_url"`
	// SigningKey signs locally minted identity tokens.
	SigningKey string `mapstructure:"signing_key"`
	// DevToken is the static credential served by the local exchange path.
	DevToken string `mapstructure:"dev_token"`
}

type CatalogConfig struct {
	// File is the path to the catalog descriptor (multi-document YAML).
	File string `mapstructure:"file"`
}

const (
	defaultHost        = "0.0.0.0"
	defaultPort        = 7007
	defaultCatalogFile = "catalog-info.yaml"
)

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("config", "", "Path to the config file")
	// Note: no pflag.Parse() here as it's called in main.go
}

// Load reads configuration from config.yaml and the BACKSTAGE_* environment,
// applies defaults, and validates that every required key is present. A
// missing required key is a startup error, never a request-time one.
func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("BACKSTAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	setDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/backstage")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config may come entirely from the environment; only a broken file
		// is fatal here, absence is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", defaultHost)
	viper.SetDefault("server.port", defaultPort)
	viper.SetDefault("catalog.file", defaultCatalogFile)

	// Empty defaults register the remaining keys with viper so that values
	// supplied only through the environment still reach Unmarshal.
	for _, key := range []string{
		"server.title",
		"server.base_url",
		"logging.level",
		"logging.format",
		"auth.token_url",
		"auth.userinfo_url",
		"auth.signing_key",
		"auth.dev_token",
	} {
		viper.SetDefault(key, "")
	}
	viper.SetDefault("logging.disable_stacktrace", false)
}

// validate reports every missing required key at once so an operator can fix
// the whole config in one pass.
func (c *Config) validate() error {
	var missing []string

	required := []struct {
		key   string
		value string
	}{
		{"auth.token_url", c.Auth.TokenURL},
		{"auth.userinfo_url", c.Auth.UserInfoURL},
		{"auth.signing_key", c.Auth.SigningKey},
		{"auth.dev_token", c.Auth.DevToken},
		{"logging.level", c.Logging.Level},
		{"server.title", c.Server.Title},
		{"server.base_url", c.Server.BaseURL},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s (set them in config.yaml or as BACKSTAGE_* environment variables)", strings.Join(missing, ", "))
	}
	return nil
}
