package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"signflow/internal/domain/entity"
	"signflow/internal/token"
)

// respondError maps domain errors onto HTTP statuses and the standard
// response envelope. Unknown errors are logged and masked.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("VALIDATION_ERROR", err.Error()),
		)

	case errors.Is(err, entity.ErrDocumentNotFound),
		errors.Is(err, entity.ErrSignerNotFound),
		errors.Is(err, entity.ErrPlacementNotFound),
		errors.Is(err, entity.ErrSignedFileNotReady):
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse("NOT_FOUND", err.Error()),
		)

	case errors.Is(err, entity.ErrNotAuthorized):
		return c.Status(fiber.StatusForbidden).JSON(
			entity.NewErrorResponse("FORBIDDEN", err.Error()),
		)

	case errors.Is(err, token.ErrExpiredToken):
		return c.Status(fiber.StatusUnauthorized).JSON(
			entity.NewErrorResponse("TOKEN_EXPIRED", "This signing link has expired"),
		)

	case errors.Is(err, token.ErrInvalidToken), errors.Is(err, token.ErrWrongPurpose):
		return c.Status(fiber.StatusUnauthorized).JSON(
			entity.NewErrorResponse("INVALID_TOKEN", "This signing link is not valid"),
		)

	case errors.Is(err, entity.ErrAlreadyFinalized):
		return c.Status(fiber.StatusConflict).JSON(
			entity.NewErrorResponse("ALREADY_FINALIZED", err.Error()),
		)

	case errors.Is(err, entity.ErrSignersPending):
		return c.Status(fiber.StatusConflict).JSON(
			entity.NewErrorResponse("SIGNERS_PENDING", err.Error()),
		)

	case errors.Is(err, entity.ErrNoSignedPlacements):
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("NO_SIGNATURES", err.Error()),
		)

	case errors.Is(err, entity.ErrCompositorFailure):
		logger.Error("Composite generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("COMPOSITE_FAILED", entity.ErrCompositorFailure.Error()),
		)

	default:
		logger.Error("Request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Something went wrong"),
		)
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(
		entity.NewErrorResponse("BAD_REQUEST", message),
	)
}
