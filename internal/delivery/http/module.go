package http

import (
	"go.uber.org/fx"

	"signflow/internal/delivery/http/handler"
	"signflow/internal/delivery/http/middleware"
	"signflow/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		middleware.NewAuth,
		handler.NewHealthHandler,
		handler.NewDocumentHandler,
		handler.NewPlacementHandler,
		handler.NewSigningHandler,
		router.NewRouter,
	),
)
