package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"signflow/internal/config"
	"signflow/internal/delivery/http/handler"
	"signflow/internal/delivery/http/middleware"
)

type Router struct {
	app              *fiber.App
	config           *config.Config
	auth             *middleware.Auth
	healthHandler    *handler.HealthHandler
	documentHandler  *handler.DocumentHandler
	placementHandler *handler.PlacementHandler
	signingHandler   *handler.SigningHandler
}

func NewRouter(
	cfg *config.Config,
	auth *middleware.Auth,
	healthHandler *handler.HealthHandler,
	documentHandler *handler.DocumentHandler,
	placementHandler *handler.PlacementHandler,
	signingHandler *handler.SigningHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Storage.MaxUploadBytes) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:              app,
		config:           cfg,
		auth:             auth,
		healthHandler:    healthHandler,
		documentHandler:  documentHandler,
		placementHandler: placementHandler,
		signingHandler:   signingHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		// Public signing surface, gated by the token in the path
		public := api.Group("/public")
		{
			public.Get("/:token", r.signingHandler.GetSession)
			public.Get("/:token/file", r.signingHandler.GetFile)
			public.Post("/:token/sign", r.signingHandler.Sign)
			public.Post("/:token/reject", r.signingHandler.Reject)
			public.Post("/:token/finalize", r.signingHandler.Finalize)
			public.Post("/:token/placements", r.signingHandler.CreatePlacement)
			public.Put("/:token/placements/:placementId/position", r.signingHandler.UpdatePlacementPosition)
			public.Delete("/:token/placements/:placementId", r.signingHandler.DeletePlacement)
			public.Get("/:token/download-signed", r.signingHandler.DownloadSigned)
		}

		// Authenticated owner surface
		documents := api.Group("/documents", r.auth.Handler())
		{
			documents.Post("", r.documentHandler.Upload)
			documents.Get("", r.documentHandler.List)
			documents.Get("/received", r.documentHandler.ListReceived)
			documents.Get("/:id", r.documentHandler.Get)
			documents.Delete("/:id", r.documentHandler.Delete)
			documents.Get("/:id/file", r.documentHandler.GetFile)
			documents.Get("/:id/audit", r.documentHandler.AuditTrail)

			documents.Post("/:id/signers", r.documentHandler.CreateSigningBatch)
			documents.Get("/:id/signers", r.documentHandler.GetSigners)
			documents.Post("/:id/finalize", r.documentHandler.Finalize)
			documents.Get("/:id/download-signed", r.documentHandler.DownloadSigned)

			documents.Post("/:id/placements", r.placementHandler.Create)
			documents.Get("/:id/placements", r.placementHandler.List)
		}

		placements := api.Group("/placements", r.auth.Handler())
		{
			placements.Put("/:placementId/position", r.placementHandler.UpdatePosition)
			placements.Delete("/:placementId", r.placementHandler.Delete)
		}
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
