package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"signflow/internal/domain/entity"
	"signflow/internal/domain/repository"
	"signflow/internal/token"
)

// PlacementInput describes a new placement. Geometry is clamped, not
// validated: out of range values are pulled to the nearest bound on
// every write path, owner and signer alike.
type PlacementInput struct {
	SignerEmail string               `json:"signer_email"`
	Kind        entity.PlacementKind `json:"signature_type"`
	Geometry    entity.Geometry      `json:"geometry"`
	Text        string               `json:"signature_text,omitempty"`
	Font        string               `json:"signature_font,omitempty"`
}

type PlacementUsecase interface {
	RecordPlacement(ctx context.Context, actor Actor, documentID int64, input *PlacementInput) (*entity.Placement, error)
	// RecordPlacementByToken lets a signer drop their own placement
	// while on the signing page. The signer email always comes from
	// the token, never from the request body.
	RecordPlacementByToken(ctx context.Context, rawToken string, input *PlacementInput) (*entity.Placement, error)
	GetPlacements(ctx context.Context, actor Actor, documentID int64) ([]entity.Placement, error)
	UpdateGeometry(ctx context.Context, actor Actor, placementID int64, geom entity.Geometry) (*entity.Placement, error)
	UpdateGeometryByToken(ctx context.Context, rawToken string, placementID int64, geom entity.Geometry) (*entity.Placement, error)
	DeletePlacement(ctx context.Context, actor Actor, placementID int64) error
	// DeletePlacementByToken removes one of the signer's own pending
	// placements from the signing page.
	DeletePlacementByToken(ctx context.Context, rawToken string, placementID int64) error
}

type placementUsecase struct {
	documentRepo  repository.DocumentRepository
	signerRepo    repository.SignerRepository
	placementRepo repository.PlacementRepository
	auditRepo     repository.AuditRepository
	issuer        *token.Issuer
	logger        *zap.Logger
}

func NewPlacementUsecase(
	documentRepo repository.DocumentRepository,
	signerRepo repository.SignerRepository,
	placementRepo repository.PlacementRepository,
	auditRepo repository.AuditRepository,
	issuer *token.Issuer,
	logger *zap.Logger,
) PlacementUsecase {
	return &placementUsecase{
		documentRepo:  documentRepo,
		signerRepo:    signerRepo,
		placementRepo: placementRepo,
		auditRepo:     auditRepo,
		issuer:        issuer,
		logger:        logger,
	}
}

func validKind(kind entity.PlacementKind) bool {
	switch kind {
	case entity.KindSignature, entity.KindInitials, entity.KindName,
		entity.KindDate, entity.KindText, entity.KindStamp:
		return true
	}
	return false
}

func (u *placementUsecase) create(ctx context.Context, doc *entity.Document, signerEmail string, input *PlacementInput, actorEmail string) (*entity.Placement, error) {
	if doc.IsTerminal() {
		return nil, entity.ErrAlreadyFinalized
	}
	if input.Geometry.PageNumber < 1 {
		return nil, fmt.Errorf("%w: page number must be at least 1", entity.ErrValidation)
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.KindSignature
	}
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: unknown placement type %q", entity.ErrValidation, kind)
	}

	geom := input.Geometry
	geom.Clamp()

	placement := &entity.Placement{
		DocumentID:  doc.ID,
		SignerEmail: strings.ToLower(strings.TrimSpace(signerEmail)),
		Geometry:    geom,
		Kind:        kind,
		Text:        input.Text,
		Font:        input.Font,
		Status:      entity.PlacementPending,
	}
	if placement.SignerEmail == "" {
		return nil, fmt.Errorf("%w: signer email is required", entity.ErrValidation)
	}

	if err := u.placementRepo.Create(ctx, placement); err != nil {
		u.logger.Error("Failed to create placement", zap.Error(err))
		return nil, err
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionPlacementCreated,
		Description: fmt.Sprintf("Placement %d (%s) created on page %d for %s", placement.ID, kind, geom.PageNumber, placement.SignerEmail),
		ActorEmail:  actorEmail,
		DocumentID:  doc.ID,
	})

	return placement, nil
}

func (u *placementUsecase) RecordPlacement(ctx context.Context, actor Actor, documentID int64, input *PlacementInput) (*entity.Placement, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	return u.create(ctx, doc, input.SignerEmail, input, actor.Email)
}

func (u *placementUsecase) RecordPlacementByToken(ctx context.Context, rawToken string, input *PlacementInput) (*entity.Placement, error) {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if signer.Status != entity.SignerPending {
		return nil, entity.ErrAlreadyFinalized
	}

	return u.create(ctx, doc, signer.Email, input, signer.Email)
}

func (u *placementUsecase) GetPlacements(ctx context.Context, actor Actor, documentID int64) ([]entity.Placement, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	placements, err := u.placementRepo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// Attach signer names for display.
	signers, err := u.signerRepo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(signers))
	for _, s := range signers {
		names[s.Email] = s.Name
	}
	for i := range placements {
		placements[i].SignerName = names[placements[i].SignerEmail]
	}

	return placements, nil
}

func (u *placementUsecase) updateGeometry(ctx context.Context, doc *entity.Document, placement *entity.Placement, geom entity.Geometry, actorEmail string) (*entity.Placement, error) {
	if doc.IsTerminal() {
		return nil, entity.ErrAlreadyFinalized
	}
	if geom.PageNumber < 1 {
		return nil, fmt.Errorf("%w: page number must be at least 1", entity.ErrValidation)
	}

	geom.Clamp()

	if err := u.placementRepo.UpdateGeometry(ctx, placement.ID, geom); err != nil {
		return nil, err
	}
	placement.Geometry = geom

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionPlacementMoved,
		Description: fmt.Sprintf("Placement %d moved to page %d (%.3f, %.3f)", placement.ID, geom.PageNumber, geom.X, geom.Y),
		ActorEmail:  actorEmail,
		DocumentID:  doc.ID,
	})

	return placement, nil
}

func (u *placementUsecase) UpdateGeometry(ctx context.Context, actor Actor, placementID int64, geom entity.Geometry) (*entity.Placement, error) {
	placement, err := u.placementRepo.FindByID(ctx, placementID)
	if err != nil {
		return nil, err
	}
	doc, err := u.documentRepo.FindByID(ctx, placement.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	return u.updateGeometry(ctx, doc, placement, geom, actor.Email)
}

func (u *placementUsecase) UpdateGeometryByToken(ctx context.Context, rawToken string, placementID int64, geom entity.Geometry) (*entity.Placement, error) {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	placement, err := u.placementRepo.FindByID(ctx, placementID)
	if err != nil {
		return nil, err
	}
	if placement.DocumentID != doc.ID || placement.SignerEmail != signer.Email {
		return nil, entity.ErrNotAuthorized
	}

	return u.updateGeometry(ctx, doc, placement, geom, signer.Email)
}

func (u *placementUsecase) DeletePlacement(ctx context.Context, actor Actor, placementID int64) error {
	placement, err := u.placementRepo.FindByID(ctx, placementID)
	if err != nil {
		return err
	}
	doc, err := u.documentRepo.FindByID(ctx, placement.DocumentID)
	if err != nil {
		return err
	}
	if doc.OwnerID != actor.UserID {
		return entity.ErrNotAuthorized
	}
	if doc.IsTerminal() {
		return entity.ErrAlreadyFinalized
	}

	if err := u.placementRepo.Delete(ctx, placementID); err != nil {
		return err
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionPlacementDeleted,
		Description: fmt.Sprintf("Placement %d deleted", placementID),
		ActorEmail:  actor.Email,
		DocumentID:  doc.ID,
	})

	return nil
}

func (u *placementUsecase) DeletePlacementByToken(ctx context.Context, rawToken string, placementID int64) error {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return err
	}
	if doc.IsTerminal() {
		return entity.ErrAlreadyFinalized
	}

	placement, err := u.placementRepo.FindByID(ctx, placementID)
	if err != nil {
		return err
	}
	if placement.DocumentID != doc.ID || placement.SignerEmail != signer.Email {
		return entity.ErrNotAuthorized
	}
	if placement.Status != entity.PlacementPending {
		return entity.ErrAlreadyFinalized
	}

	if err := u.placementRepo.Delete(ctx, placementID); err != nil {
		return err
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionPlacementDeleted,
		Description: fmt.Sprintf("Placement %d deleted", placementID),
		ActorEmail:  signer.Email,
		DocumentID:  doc.ID,
	})

	return nil
}

func (u *placementUsecase) resolveToken(ctx context.Context, rawToken string) (*entity.Document, *entity.Signer, error) {
	claims, err := u.issuer.VerifySigningLink(rawToken)
	if err != nil {
		return nil, nil, err
	}
	doc, err := u.documentRepo.FindByID(ctx, claims.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	signer, err := u.signerRepo.FindByDocumentAndEmail(ctx, claims.DocumentID, claims.SignerEmail)
	if err != nil {
		return nil, nil, err
	}
	return doc, signer, nil
}

func (u *placementUsecase) audit(ctx context.Context, log *entity.AuditLog) {
	if err := u.auditRepo.Save(ctx, log); err != nil {
		u.logger.Error("Failed to save audit log",
			zap.String("action", log.Action),
			zap.Error(err),
		)
	}
}
