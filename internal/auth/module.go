package auth

import (
	"github.com/kingasieminiak/backstage/internal/auth/providers"
	"go.uber.org/fx"
)

// Module provides the token exchange dependencies
var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			providers.NewUpstreamProvider,
			fx.As(new(providers.Provider)),
		),
		NewMinter,
		NewExchanger,
	),
)
