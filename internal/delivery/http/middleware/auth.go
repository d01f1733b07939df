package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"signflow/internal/domain/entity"
	"signflow/internal/token"
	"signflow/internal/usecase"
)

const actorKey = "actor"

// Auth validates the bearer access token and stores the resolved actor
// in the request locals. Signing-link tokens do not pass here; the
// public routes carry their token in the path instead.
type Auth struct {
	issuer *token.Issuer
	logger *zap.Logger
}

func NewAuth(issuer *token.Issuer, logger *zap.Logger) *Auth {
	return &Auth{
		issuer: issuer,
		logger: logger,
	}
}

func (m *Auth) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				entity.NewErrorResponse("UNAUTHORIZED", "Missing bearer token"),
			)
		}

		claims, err := m.issuer.VerifyAccess(raw)
		if err != nil {
			code := "INVALID_TOKEN"
			if err == token.ErrExpiredToken {
				code = "TOKEN_EXPIRED"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(
				entity.NewErrorResponse(code, "Invalid or expired access token"),
			)
		}

		c.Locals(actorKey, usecase.Actor{
			UserID:    claims.UserID,
			Email:     claims.Email,
			Name:      claims.Name,
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		})

		return c.Next()
	}
}

// ActorFrom returns the authenticated actor stored by Auth. Only valid
// on routes behind the middleware.
func ActorFrom(c *fiber.Ctx) usecase.Actor {
	actor, _ := c.Locals(actorKey).(usecase.Actor)
	return actor
}

// MetaFrom builds an unauthenticated actor carrying only request
// metadata, for the public signing routes.
func MetaFrom(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
