package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"signflow/internal/delivery/http/middleware"
	"signflow/internal/domain/entity"
	"signflow/internal/usecase"
)

type DocumentHandler struct {
	documents usecase.DocumentUsecase
	workflow  usecase.WorkflowUsecase
	logger    *zap.Logger
}

func NewDocumentHandler(documents usecase.DocumentUsecase, workflow usecase.WorkflowUsecase, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		workflow:  workflow,
		logger:    logger,
	}
}

func documentID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// Upload godoc
// @Summary Upload a document
// @Description Upload a PDF and create it in pending state
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param title formData string false "Document title"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Router /api/v1/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := middleware.ActorFrom(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Failed to read uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "Failed to read uploaded file")
	}

	doc, err := h.documents.Upload(ctx, actor, c.FormValue("title"), fileHeader.Filename, content)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(doc, "Document uploaded successfully"),
	)
}

// List godoc
// @Summary List own documents
// @Tags documents
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.documents.List(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(docs, "Documents retrieved successfully"))
}

// ListReceived godoc
// @Summary List documents received for signing
// @Tags documents
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/documents/received [get]
func (h *DocumentHandler) ListReceived(c *fiber.Ctx) error {
	docs, err := h.documents.ListReceived(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(docs, "Documents retrieved successfully"))
}

// Get godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	doc, err := h.documents.Get(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(doc, "Document retrieved successfully"))
}

// GetFile godoc
// @Summary Download the original PDF
// @Tags documents
// @Produce application/pdf
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Router /api/v1/documents/{id}/file [get]
func (h *DocumentHandler) GetFile(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	doc, content, err := h.documents.GetFile(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+doc.OriginalFilename+`"`)
	return c.Send(content)
}

// Delete godoc
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	if err := h.documents.Delete(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Document deleted successfully"))
}

// AuditTrail godoc
// @Summary Get a document's audit trail
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/documents/{id}/audit [get]
func (h *DocumentHandler) AuditTrail(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	logs, err := h.documents.GetAuditTrail(c.UserContext(), middleware.ActorFrom(c), id, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Audit trail retrieved successfully"))
}

// CreateSigningBatch godoc
// @Summary Send a document for signing
// @Description Replace the signer set and send out signing links
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body usecase.BatchRequest true "Signers"
// @Success 201 {object} entity.APIResponse
// @Failure 409 {object} entity.APIResponse
// @Router /api/v1/documents/{id}/signers [post]
func (h *DocumentHandler) CreateSigningBatch(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	var req usecase.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	signers, err := h.workflow.CreateSigningBatch(c.UserContext(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(signers, "Signing request sent successfully"),
	)
}

// GetSigners godoc
// @Summary Get signing progress
// @Tags workflow
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/documents/{id}/signers [get]
func (h *DocumentHandler) GetSigners(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	list, err := h.workflow.GetSigners(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(list, "Signers retrieved successfully"))
}

// Finalize godoc
// @Summary Finalize a fully signed document
// @Tags workflow
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} entity.APIResponse
// @Failure 409 {object} entity.APIResponse
// @Router /api/v1/documents/{id}/finalize [post]
func (h *DocumentHandler) Finalize(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	doc, err := h.workflow.Finalize(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(entity.NewSuccessResponse(doc, "Document finalized successfully"))
}

// DownloadSigned godoc
// @Summary Download the signed composite
// @Tags workflow
// @Produce application/pdf
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Router /api/v1/documents/{id}/download-signed [get]
func (h *DocumentHandler) DownloadSigned(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	doc, content, err := h.workflow.DownloadComposite(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="signed_`+doc.OriginalFilename+`"`)
	return c.Send(content)
}
