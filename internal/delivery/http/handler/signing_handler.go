package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"signflow/internal/delivery/http/middleware"
	"signflow/internal/domain/entity"
	"signflow/internal/usecase"
)

// SigningHandler serves the public, token-gated signing surface. The
// signing token rides in the path; there is no session.
type SigningHandler struct {
	workflow   usecase.WorkflowUsecase
	placements usecase.PlacementUsecase
	logger     *zap.Logger
}

func NewSigningHandler(workflow usecase.WorkflowUsecase, placements usecase.PlacementUsecase, logger *zap.Logger) *SigningHandler {
	return &SigningHandler{
		workflow:   workflow,
		placements: placements,
		logger:     logger,
	}
}

// GetSession godoc
// @Summary Resolve a signing link
// @Description Validate the signing token and return the document, signer and placements for the signing page
// @Tags public
// @Produce json
// @Param token path string true "Signing token"
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/public/{token} [get]
func (h *SigningHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.workflow.ResolveSigningLink(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(session, "Signing session retrieved successfully"))
}

type signRequest struct {
	entity.SignatureContent
}

// Sign godoc
// @Summary Sign a document
// @Description Apply the signature content to the signer's placements and complete the signer
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Signing token"
// @Param request body entity.SignatureContent true "Signature content"
// @Success 200 {object} entity.APIResponse
// @Failure 409 {object} entity.APIResponse
// @Router /api/v1/public/{token}/sign [post]
func (h *SigningHandler) Sign(c *fiber.Ctx) error {
	var req signRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.workflow.Sign(c.UserContext(), c.Params("token"), &req.SignatureContent, middleware.MetaFrom(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(result, "Document signed successfully"))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject godoc
// @Summary Reject a document
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Signing token"
// @Param request body rejectRequest true "Rejection reason"
// @Success 200 {object} entity.APIResponse
// @Failure 409 {object} entity.APIResponse
// @Router /api/v1/public/{token}/reject [post]
func (h *SigningHandler) Reject(c *fiber.Ctx) error {
	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return badRequest(c, "Rejection reason is required")
	}

	if err := h.workflow.Reject(c.UserContext(), c.Params("token"), req.Reason, middleware.MetaFrom(c)); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Document rejected"))
}

// CreatePlacement godoc
// @Summary Place own signature field while signing
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Signing token"
// @Param request body usecase.PlacementInput true "Placement"
// @Success 201 {object} entity.APIResponse
// @Router /api/v1/public/{token}/placements [post]
func (h *SigningHandler) CreatePlacement(c *fiber.Ctx) error {
	var input usecase.PlacementInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	placement, err := h.placements.RecordPlacementByToken(c.UserContext(), c.Params("token"), &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(placement, "Placement created successfully"),
	)
}

// UpdatePlacementPosition godoc
// @Summary Move own placement while signing
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Signing token"
// @Param placementId path int true "Placement ID"
// @Param request body entity.Geometry true "New geometry"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/public/{token}/placements/{placementId}/position [put]
func (h *SigningHandler) UpdatePlacementPosition(c *fiber.Ctx) error {
	id, err := placementID(c)
	if err != nil {
		return badRequest(c, "Invalid placement ID")
	}

	var geom entity.Geometry
	if err := c.BodyParser(&geom); err != nil {
		return badRequest(c, "Invalid request body")
	}

	placement, err := h.placements.UpdateGeometryByToken(c.UserContext(), c.Params("token"), id, geom)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(placement, "Placement updated successfully"))
}

// DeletePlacement godoc
// @Summary Delete an own placement via signing link
// @Tags public
// @Produce json
// @Param token path string true "Signing token"
// @Param placementId path int true "Placement ID"
// @Success 200 {object} entity.APIResponse
// @Failure 403 {object} entity.APIResponse
// @Router /api/v1/public/{token}/placements/{placementId} [delete]
func (h *SigningHandler) DeletePlacement(c *fiber.Ctx) error {
	id, err := placementID(c)
	if err != nil {
		return badRequest(c, "Invalid placement ID")
	}

	if err := h.placements.DeletePlacementByToken(c.UserContext(), c.Params("token"), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Placement deleted successfully"))
}

// GetFile godoc
// @Summary Download the original document via signing link
// @Tags public
// @Produce application/pdf
// @Param token path string true "Signing token"
// @Success 200 {file} binary
// @Router /api/v1/public/{token}/file [get]
func (h *SigningHandler) GetFile(c *fiber.Ctx) error {
	doc, content, err := h.workflow.GetFileByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+doc.OriginalFilename+`"`)
	return c.Send(content)
}

// Finalize godoc
// @Summary Finalize a document via signing link
// @Description Retry composition when the automatic finalization after the last signature failed
// @Tags public
// @Produce json
// @Param token path string true "Signing token"
// @Success 200 {object} entity.APIResponse
// @Failure 409 {object} entity.APIResponse
// @Router /api/v1/public/{token}/finalize [post]
func (h *SigningHandler) Finalize(c *fiber.Ctx) error {
	doc, err := h.workflow.FinalizeByToken(c.UserContext(), c.Params("token"), middleware.MetaFrom(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(doc, "Document finalized successfully"))
}

// DownloadSigned godoc
// @Summary Download the signed composite via signing link
// @Tags public
// @Produce application/pdf
// @Param token path string true "Signing token"
// @Success 200 {file} binary
// @Router /api/v1/public/{token}/download-signed [get]
func (h *SigningHandler) DownloadSigned(c *fiber.Ctx) error {
	doc, content, err := h.workflow.DownloadCompositeByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="signed_`+doc.OriginalFilename+`"`)
	return c.Send(content)
}
