package redis

import (
	"go.uber.org/fx"

	"signflow/internal/usecase"
)

var Module = fx.Module("redis",
	fx.Provide(NewRedisClient),
	fx.Provide(
		fx.Annotate(
			NewDocumentLock,
			fx.As(new(usecase.DocumentLocker)),
		),
	),
)
