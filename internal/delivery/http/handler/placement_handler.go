package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"signflow/internal/delivery/http/middleware"
	"signflow/internal/domain/entity"
	"signflow/internal/usecase"
)

type PlacementHandler struct {
	placements usecase.PlacementUsecase
	logger     *zap.Logger
}

func NewPlacementHandler(placements usecase.PlacementUsecase, logger *zap.Logger) *PlacementHandler {
	return &PlacementHandler{
		placements: placements,
		logger:     logger,
	}
}

func placementID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("placementId"), 10, 64)
}

// Create godoc
// @Summary Place a signature field on a document
// @Tags placements
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body usecase.PlacementInput true "Placement"
// @Success 201 {object} entity.APIResponse
// @Router /api/v1/documents/{id}/placements [post]
func (h *PlacementHandler) Create(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	var input usecase.PlacementInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	placement, err := h.placements.RecordPlacement(c.UserContext(), middleware.ActorFrom(c), id, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(placement, "Placement created successfully"),
	)
}

// List godoc
// @Summary List placements of a document
// @Tags placements
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/documents/{id}/placements [get]
func (h *PlacementHandler) List(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	placements, err := h.placements.GetPlacements(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(placements, "Placements retrieved successfully"))
}

// UpdatePosition godoc
// @Summary Move or resize a placement
// @Tags placements
// @Accept json
// @Produce json
// @Param placementId path int true "Placement ID"
// @Param request body entity.Geometry true "New geometry"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/placements/{placementId}/position [put]
func (h *PlacementHandler) UpdatePosition(c *fiber.Ctx) error {
	id, err := placementID(c)
	if err != nil {
		return badRequest(c, "Invalid placement ID")
	}

	var geom entity.Geometry
	if err := c.BodyParser(&geom); err != nil {
		return badRequest(c, "Invalid request body")
	}

	placement, err := h.placements.UpdateGeometry(c.UserContext(), middleware.ActorFrom(c), id, geom)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(placement, "Placement updated successfully"))
}

// Delete godoc
// @Summary Delete a placement
// @Tags placements
// @Produce json
// @Param placementId path int true "Placement ID"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/placements/{placementId} [delete]
func (h *PlacementHandler) Delete(c *fiber.Ctx) error {
	id, err := placementID(c)
	if err != nil {
		return badRequest(c, "Invalid placement ID")
	}

	if err := h.placements.DeletePlacement(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Placement deleted successfully"))
}
