package main

import (
	"go.uber.org/fx"

	"signflow/internal/config"
	deliveryhttp "signflow/internal/delivery/http"
	"signflow/internal/infrastructure/compositor"
	"signflow/internal/infrastructure/database"
	"signflow/internal/infrastructure/logger"
	"signflow/internal/infrastructure/mailer"
	"signflow/internal/infrastructure/notifier"
	"signflow/internal/infrastructure/redis"
	"signflow/internal/infrastructure/repository"
	"signflow/internal/infrastructure/storage"
	"signflow/internal/server"
	"signflow/internal/token"
	"signflow/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		storage.Module,
		mailer.Module,
		notifier.Module,
		compositor.Module,
		repository.Module,
		token.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
