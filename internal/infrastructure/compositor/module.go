package compositor

import "go.uber.org/fx"

var Module = fx.Module("compositor",
	fx.Provide(NewPDFCompositor),
)
