package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

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

// Application wraps the fx.App for service management
type Application struct {
	app      *fx.App
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:      ctx,
		cancel:   cancel,
		doneChan: make(chan struct{}),
	}
}

// Run starts the application
func (a *Application) Run() {
	a.app = fx.New(
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
	)

	// Start the application
	if err := a.app.Start(a.ctx); err != nil {
		return
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		a.Shutdown()
	case <-a.ctx.Done():
		// Context was cancelled
	}

	close(a.doneChan)
}

// Shutdown gracefully shuts down the application
func (a *Application) Shutdown() {
	a.cancel()
	if a.app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		a.app.Stop(ctx)
	}
}

// Wait blocks until the application exits
func (a *Application) Wait() {
	<-a.doneChan
}
