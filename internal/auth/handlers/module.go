package handlers

import "go.uber.org/fx"

// Module provides the token exchange HTTP handlers
var Module = fx.Module("auth_handlers",
	fx.Provide(
		NewHandler,
	),
)
