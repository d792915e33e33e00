package catalog

import "go.uber.org/fx"

// Module provides the catalog dependencies
var Module = fx.Module("catalog",
	fx.Provide(
		NewService,
		NewHandler,
	),
)
