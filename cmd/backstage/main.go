package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/kingasieminiak/backstage/internal/auth"
	authhandlers "github.com/kingasieminiak/backstage/internal/auth/handlers"
	"github.com/kingasieminiak/backstage/internal/catalog"
	"github.com/kingasieminiak/backstage/internal/config"
	"github.com/kingasieminiak/backstage/internal/logger"
	"github.com/kingasieminiak/backstage/internal/mcpserver"
	"github.com/kingasieminiak/backstage/internal/server"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "backstage",
	Short: "Plugin host with a token exchange proxy and a software catalog",
	Long: `Backstage is a plugin-host backend. It relays OAuth2 token exchanges to an
upstream provider, mints signed identity tokens for authenticated users, and
serves the software catalog to browsers and MCP agents.`,
	Run: runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

func runServer(cmd *cobra.Command, args []string) {
	// A .env file is optional, deployed environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printfln("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func(c *config.Config) *config.ServerConfig { return &c.Server },
			func(c *config.Config) *config.LoggingConfig { return &c.Logging },
			func(c *config.Config) *config.AuthConfig { return &c.Auth },
			func(c *config.Config) *config.CatalogConfig { return &c.Catalog },
			logger.New,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		auth.Module,
		authhandlers.Module,
		catalog.Module,
		mcpserver.Module,
		server.Module,
		fx.Invoke(func(*server.Server) {}),
	)

	app.Run()
}
