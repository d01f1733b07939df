package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"signflow/internal/config"
	"signflow/internal/domain/entity"
	"signflow/internal/domain/repository"
	"signflow/internal/infrastructure/storage"
	"signflow/internal/token"
)

// Actor identifies who is performing an operation, for authorization
// and audit purposes.
type Actor struct {
	UserID    int64
	Email     string
	Name      string
	IPAddress string
	UserAgent string
}

// BatchSigner is one requested signer in a signing batch.
type BatchSigner struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	SigningOrder int    `json:"signing_order"`
}

// BatchRequest replaces the full signer set of a document.
type BatchRequest struct {
	Signers []BatchSigner `json:"signers"`
	Message string        `json:"message,omitempty"`
}

// SignerList is the signing progress view of a document.
type SignerList struct {
	DocumentID     int64                 `json:"document_id"`
	DocumentStatus entity.DocumentStatus `json:"document_status"`
	Signers        []entity.Signer       `json:"signers"`
	PendingCount   int                   `json:"pending_count"`
}

// SigningSession is everything a signer needs to act on a signing
// link: the document, their own signer row and their placements.
type SigningSession struct {
	Document   *entity.Document   `json:"document"`
	Signer     *entity.Signer     `json:"signer"`
	Signers    []entity.Signer    `json:"signers"`
	Placements []entity.Placement `json:"placements"`
}

// SignResult reports what a successful sign did.
type SignResult struct {
	Signer           *entity.Signer        `json:"signer"`
	PlacementsSigned int                   `json:"placements_signed"`
	PendingCount     int                   `json:"pending_count"`
	DocumentStatus   entity.DocumentStatus `json:"document_status"`
	Finalized        bool                  `json:"finalized"`
}

// PendingSignersError reports a premature finalization along with how
// many signers still have to act. Unwraps to ErrSignersPending.
type PendingSignersError struct {
	Remaining int
}

func (e *PendingSignersError) Error() string {
	return fmt.Sprintf("%d signer(s) still pending", e.Remaining)
}

func (e *PendingSignersError) Unwrap() error { return entity.ErrSignersPending }

type WorkflowUsecase interface {
	// CreateSigningBatch replaces the signer set of a pending document
	// owned by the actor, mints fresh signing tokens and fans out the
	// initial notifications.
	CreateSigningBatch(ctx context.Context, actor Actor, documentID int64, req *BatchRequest) ([]entity.Signer, error)
	GetSigners(ctx context.Context, actor Actor, documentID int64) (*SignerList, error)
	// ResolveSigningLink validates a signing token against the current
	// signer set and returns the session for the signing page.
	ResolveSigningLink(ctx context.Context, rawToken string) (*SigningSession, error)
	// Sign applies the supplied content to every pending placement of
	// the token's signer, marks the signer signed, advances an ordered
	// flow and finalizes the document if it became complete.
	Sign(ctx context.Context, rawToken string, content *entity.SignatureContent, meta Actor) (*SignResult, error)
	// Reject vetoes the document on behalf of the token's signer.
	Reject(ctx context.Context, rawToken string, reason string, meta Actor) error
	// Finalize composites the signed placements into the document and
	// transitions it to signed. Idempotent: finalizing an already
	// signed document succeeds without recompositing.
	Finalize(ctx context.Context, actor Actor, documentID int64) (*entity.Document, error)
	// FinalizeByToken is the signer-facing finalize, useful when an
	// earlier automatic finalization failed after the last signature.
	FinalizeByToken(ctx context.Context, rawToken string, meta Actor) (*entity.Document, error)
	// GetFileByToken returns the original document file so the signing
	// page can render it.
	GetFileByToken(ctx context.Context, rawToken string) (*entity.Document, []byte, error)
	// DownloadComposite returns the signed file for a terminal signed
	// document.
	DownloadComposite(ctx context.Context, actor Actor, documentID int64) (*entity.Document, []byte, error)
	// DownloadCompositeByToken is the signer-facing variant, gated on
	// a signing token instead of ownership.
	DownloadCompositeByToken(ctx context.Context, rawToken string) (*entity.Document, []byte, error)
}

type workflowUsecase struct {
	config        *config.Config
	documentRepo  repository.DocumentRepository
	signerRepo    repository.SignerRepository
	placementRepo repository.PlacementRepository
	auditRepo     repository.AuditRepository
	issuer        *token.Issuer
	store         storage.FileStore
	notifier      Notifier
	locker        DocumentLocker
	compositor    Compositor
	logger        *zap.Logger
}

func NewWorkflowUsecase(
	cfg *config.Config,
	documentRepo repository.DocumentRepository,
	signerRepo repository.SignerRepository,
	placementRepo repository.PlacementRepository,
	auditRepo repository.AuditRepository,
	issuer *token.Issuer,
	store storage.FileStore,
	notifier Notifier,
	locker DocumentLocker,
	compositor Compositor,
	logger *zap.Logger,
) WorkflowUsecase {
	return &workflowUsecase{
		config:        cfg,
		documentRepo:  documentRepo,
		signerRepo:    signerRepo,
		placementRepo: placementRepo,
		auditRepo:     auditRepo,
		issuer:        issuer,
		store:         store,
		notifier:      notifier,
		locker:        locker,
		compositor:    compositor,
		logger:        logger,
	}
}

func (u *workflowUsecase) CreateSigningBatch(ctx context.Context, actor Actor, documentID int64, req *BatchRequest) ([]entity.Signer, error) {
	u.logger.Info("Creating signing batch",
		zap.Int64("document_id", documentID),
		zap.Int("signers_count", len(req.Signers)),
	)

	if len(req.Signers) == 0 {
		return nil, fmt.Errorf("%w: at least one signer is required", entity.ErrValidation)
	}
	seen := make(map[string]bool, len(req.Signers))
	for i, s := range req.Signers {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: signer %d: name is required", entity.ErrValidation, i+1)
		}
		email := strings.ToLower(strings.TrimSpace(s.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: signer %d: email is required", entity.ErrValidation, i+1)
		}
		if seen[email] {
			return nil, fmt.Errorf("%w: signer %d: duplicate email %s", entity.ErrValidation, i+1, email)
		}
		seen[email] = true
		if s.SigningOrder < 0 {
			return nil, fmt.Errorf("%w: signer %d: signing order must not be negative", entity.ErrValidation, i+1)
		}
	}

	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}
	if doc.IsTerminal() {
		return nil, entity.ErrAlreadyFinalized
	}

	ttl := u.config.SigningTokenTTL()
	expiresAt := time.Now().Add(ttl)

	signers := make([]entity.Signer, len(req.Signers))
	for i, s := range req.Signers {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		signingToken, err := u.issuer.MintSigningLink(documentID, email, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to mint signing token: %w", err)
		}
		exp := expiresAt
		signers[i] = entity.Signer{
			DocumentID:     documentID,
			Name:           s.Name,
			Email:          email,
			SigningOrder:   s.SigningOrder,
			Status:         entity.SignerPending,
			SigningToken:   signingToken,
			TokenExpiresAt: &exp,
		}
	}

	created, err := u.signerRepo.ReplaceForDocument(ctx, documentID, signers)
	if err != nil {
		u.logger.Error("Failed to replace signer set", zap.Error(err))
		return nil, err
	}

	for _, s := range u.firstNotificationGroup(created) {
		u.deliver(ctx, &Notification{
			Kind:           NotifySigningRequest,
			RecipientEmail: s.Email,
			RecipientName:  s.Name,
			DocumentID:     doc.ID,
			DocumentTitle:  doc.Title,
			SenderName:     doc.OwnerName,
			SigningToken:   s.SigningToken,
			CustomMessage:  req.Message,
		})
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionSigningRequestSent,
		Description: fmt.Sprintf("Signing request sent to %d signer(s)", len(created)),
		ActorEmail:  actor.Email,
		DocumentID:  doc.ID,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})

	u.logger.Info("Signing batch created",
		zap.Int64("document_id", doc.ID),
		zap.Int("signers_count", len(created)),
	)

	return created, nil
}

// firstNotificationGroup selects who gets the initial signing request.
// Unordered signers (order 0) are all notified immediately; when every
// signer is ordered, only the lowest order group is notified and the
// rest wait for their predecessors.
func (u *workflowUsecase) firstNotificationGroup(signers []entity.Signer) []entity.Signer {
	ordered := true
	for _, s := range signers {
		if !s.Ordered() {
			ordered = false
			break
		}
	}
	if !ordered {
		return signers
	}

	minOrder := signers[0].SigningOrder
	for _, s := range signers[1:] {
		if s.SigningOrder < minOrder {
			minOrder = s.SigningOrder
		}
	}
	var group []entity.Signer
	for _, s := range signers {
		if s.SigningOrder == minOrder {
			group = append(group, s)
		}
	}
	return group
}

func (u *workflowUsecase) GetSigners(ctx context.Context, actor Actor, documentID int64) (*SignerList, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	signers, err := u.signerRepo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	pending := 0
	for i := range signers {
		// Tokens are links into other people's mailboxes; the owner
		// view never exposes them.
		signers[i].SigningToken = ""
		if signers[i].Status == entity.SignerPending {
			pending++
		}
	}

	return &SignerList{
		DocumentID:     doc.ID,
		DocumentStatus: doc.Status,
		Signers:        signers,
		PendingCount:   pending,
	}, nil
}

// resolveToken verifies a signing token and re-checks it against the
// live signer set. A token minted for a superseded signer generation
// still has a valid signature, so the row lookup is what actually
// revokes it.
func (u *workflowUsecase) resolveToken(ctx context.Context, rawToken string) (*entity.Document, *entity.Signer, error) {
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

func (u *workflowUsecase) ResolveSigningLink(ctx context.Context, rawToken string) (*SigningSession, error) {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	placements, err := u.placementRepo.FindByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	// The signing page shows only the signer's own marks.
	var own []entity.Placement
	for _, p := range placements {
		if p.SignerEmail == signer.Email {
			p.SignerName = signer.Name
			own = append(own, p)
		}
	}

	// The full roster lets the page show overall progress. Tokens are
	// each signer's secret, so they never leave through another
	// signer's session.
	signers, err := u.signerRepo.FindByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	for i := range signers {
		signers[i].SigningToken = ""
	}

	signer.SigningToken = ""

	return &SigningSession{
		Document:   doc,
		Signer:     signer,
		Signers:    signers,
		Placements: own,
	}, nil
}

func (u *workflowUsecase) GetFileByToken(ctx context.Context, rawToken string) (*entity.Document, []byte, error) {
	doc, _, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}

	content, err := u.store.Read(doc.FilePath)
	if err != nil {
		return nil, nil, err
	}

	return doc, content, nil
}

func (u *workflowUsecase) Sign(ctx context.Context, rawToken string, content *entity.SignatureContent, meta Actor) (*SignResult, error) {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Signer signing document",
		zap.Int64("document_id", doc.ID),
		zap.String("signer_email", signer.Email),
	)

	if doc.IsTerminal() {
		return nil, entity.ErrAlreadyFinalized
	}
	if signer.Status != entity.SignerPending {
		return nil, entity.ErrAlreadyFinalized
	}
	if content == nil || (content.Text == "" && content.ImageBase64 == "") {
		return nil, fmt.Errorf("%w: signature content is required", entity.ErrValidation)
	}

	placements, err := u.placementRepo.FindByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	signedCount := 0
	for _, p := range placements {
		if p.SignerEmail != signer.Email || p.Status != entity.PlacementPending {
			continue
		}

		imagePath := ""
		if content.ImageBase64 != "" && placementWantsImage(p.Kind) {
			raw, err := base64.StdEncoding.DecodeString(content.ImageBase64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid signature image: %v", entity.ErrValidation, err)
			}
			imagePath, err = u.store.SaveSignatureImage(p.ID, raw)
			if err != nil {
				return nil, fmt.Errorf("failed to store signature image: %w", err)
			}
		}

		text := content.Text
		if p.Kind == entity.KindDate {
			text = now.Format("2006-01-02")
		}

		ok, err := u.placementRepo.MarkSigned(ctx, p.ID, text, content.Font, imagePath, now)
		if err != nil {
			return nil, err
		}
		if ok {
			signedCount++
		}
	}

	ok, err := u.signerRepo.MarkSigned(ctx, signer.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race against a concurrent sign or reject for the same
		// signer row.
		return nil, entity.ErrAlreadyFinalized
	}
	signer.Status = entity.SignerSigned
	signer.SignedAt = &now

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionPlacementSigned,
		Description: fmt.Sprintf("%s signed %d placement(s)", signer.Email, signedCount),
		ActorEmail:  signer.Email,
		DocumentID:  doc.ID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	u.deliver(ctx, &Notification{
		Kind:           NotifyOwnerSigned,
		RecipientEmail: doc.OwnerEmail,
		RecipientName:  doc.OwnerName,
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
		SenderName:     signer.Name,
	})

	if signer.Ordered() {
		u.notifyNextPending(ctx, doc)
	}

	result := &SignResult{
		Signer:           signer,
		PlacementsSigned: signedCount,
		DocumentStatus:   doc.Status,
	}

	pending, err := u.signerRepo.CountPending(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	result.PendingCount = pending
	if pending == 0 {
		final, err := u.finalize(ctx, Actor{Email: signer.Email, IPAddress: meta.IPAddress, UserAgent: meta.UserAgent}, doc.ID)
		if err != nil {
			// The signature itself stuck; finalize can be retried.
			u.logger.Error("Finalize after last signature failed",
				zap.Int64("document_id", doc.ID),
				zap.Error(err),
			)
			return result, nil
		}
		result.DocumentStatus = final.Status
		result.Finalized = final.Status == entity.DocumentSigned
	}

	return result, nil
}

func placementWantsImage(kind entity.PlacementKind) bool {
	switch kind {
	case entity.KindSignature, entity.KindInitials, entity.KindStamp:
		return true
	}
	return false
}

// notifyNextPending reminds the lowest-order pending signer that it is
// their turn. Safe to call repeatedly.
func (u *workflowUsecase) notifyNextPending(ctx context.Context, doc *entity.Document) {
	next, err := u.signerRepo.FindNextPending(ctx, doc.ID)
	if err != nil {
		u.logger.Error("Failed to look up next pending signer", zap.Error(err))
		return
	}
	if next == nil {
		return
	}

	u.deliver(ctx, &Notification{
		Kind:           NotifyNextSignerReminder,
		RecipientEmail: next.Email,
		RecipientName:  next.Name,
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
		SenderName:     doc.OwnerName,
		SigningToken:   next.SigningToken,
	})
}

func (u *workflowUsecase) Reject(ctx context.Context, rawToken string, reason string, meta Actor) error {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return err
	}

	u.logger.Info("Signer rejecting document",
		zap.Int64("document_id", doc.ID),
		zap.String("signer_email", signer.Email),
	)

	if doc.IsTerminal() {
		return entity.ErrAlreadyFinalized
	}

	// The veto spans two conditional updates. Holding the document
	// lock keeps a concurrent finalize from slipping between them.
	release, err := u.locker.Acquire(ctx, doc.ID)
	if err != nil {
		return err
	}
	defer release()

	now := time.Now()
	ok, err := u.signerRepo.MarkRejected(ctx, signer.ID, reason, now)
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrAlreadyFinalized
	}

	// One veto ends the document. Remaining signers keep their rows
	// but any further action on them fails the terminal-state check.
	ok, err = u.documentRepo.TransitionStatus(ctx, doc.ID, entity.DocumentRejected, "")
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrAlreadyFinalized
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionDocumentRejected,
		Description: fmt.Sprintf("%s rejected the document: %s", signer.Email, reason),
		ActorEmail:  signer.Email,
		DocumentID:  doc.ID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	u.deliver(ctx, &Notification{
		Kind:           NotifyOwnerRejected,
		RecipientEmail: doc.OwnerEmail,
		RecipientName:  doc.OwnerName,
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
		SenderName:     signer.Name,
		Reason:         reason,
	})

	return nil
}

func (u *workflowUsecase) Finalize(ctx context.Context, actor Actor, documentID int64) (*entity.Document, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != 0 && doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	return u.finalize(ctx, actor, documentID)
}

func (u *workflowUsecase) FinalizeByToken(ctx context.Context, rawToken string, meta Actor) (*entity.Document, error) {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	return u.finalize(ctx, Actor{
		Email:     signer.Email,
		Name:      signer.Name,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}, doc.ID)
}

// finalize runs the aggregate check and terminal transition under the
// per-document lock. Callers have already authorized the actor.
func (u *workflowUsecase) finalize(ctx context.Context, actor Actor, documentID int64) (*entity.Document, error) {
	release, err := u.locker.Acquire(ctx, documentID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock; another finalize may have just won.
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == entity.DocumentSigned {
		return doc, nil
	}
	if doc.Status == entity.DocumentRejected {
		return nil, entity.ErrAlreadyFinalized
	}

	// The document signs only when every signer row is SIGNED. A
	// rejected row can be observed before the veto's document
	// transition lands, so the full roster is checked, not just the
	// pending count.
	signers, err := u.signerRepo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	pending := 0
	for _, s := range signers {
		switch s.Status {
		case entity.SignerSigned:
		case entity.SignerRejected:
			if _, err := u.documentRepo.TransitionStatus(ctx, documentID, entity.DocumentRejected, ""); err != nil {
				u.logger.Error("Failed to converge rejected document",
					zap.Int64("document_id", documentID),
					zap.Error(err),
				)
			}
			return nil, entity.ErrAlreadyFinalized
		default:
			pending++
		}
	}
	if pending > 0 {
		// Keep the flow moving: remind whoever is up next, then
		// report that finalization is premature.
		u.notifyNextPending(ctx, doc)
		return nil, &PendingSignersError{Remaining: pending}
	}

	placements, err := u.placementRepo.FindSignedByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(placements) == 0 {
		return nil, entity.ErrNoSignedPlacements
	}

	source, err := u.store.Read(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCompositorFailure, err)
	}

	signed := make([]SignedPlacement, 0, len(placements))
	for _, p := range placements {
		sp := SignedPlacement{
			PageNumber: p.Geometry.PageNumber,
			X:          p.Geometry.X,
			Y:          p.Geometry.Y,
			W:          p.Geometry.Width,
			H:          p.Geometry.Height,
			Text:       p.Text,
			Font:       p.Font,
			Kind:       string(p.Kind),
		}
		if p.ImagePath != "" {
			img, err := u.store.Read(p.ImagePath)
			if err != nil {
				u.logger.Warn("Signature image missing, falling back to text",
					zap.Int64("placement_id", p.ID),
					zap.Error(err),
				)
			} else {
				sp.Image = img
			}
		}
		signed = append(signed, sp)
	}

	composite, err := u.compositor.Compose(ctx, source, signed)
	if err != nil {
		u.logger.Error("Composite generation failed",
			zap.Int64("document_id", documentID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", entity.ErrCompositorFailure, err)
	}

	signedPath, err := u.store.SaveComposite(doc.OriginalFilename, composite)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCompositorFailure, err)
	}

	ok, err := u.documentRepo.TransitionStatus(ctx, documentID, entity.DocumentSigned, signedPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the terminal transition despite the lock. Discard our
		// composite and surface whatever state won.
		if removeErr := u.store.Remove(signedPath); removeErr != nil {
			u.logger.Warn("Failed to remove orphaned composite", zap.Error(removeErr))
		}
		doc, err = u.documentRepo.FindByID(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if doc.Status == entity.DocumentSigned {
			return doc, nil
		}
		return nil, entity.ErrAlreadyFinalized
	}

	doc.Status = entity.DocumentSigned
	doc.SignedFilePath = signedPath

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionDocumentFinalized,
		Description: fmt.Sprintf("Document finalized with %d placement(s)", len(signed)),
		ActorEmail:  actor.Email,
		DocumentID:  doc.ID,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})

	u.notifyCompletion(ctx, doc)

	u.logger.Info("Document finalized",
		zap.Int64("document_id", doc.ID),
		zap.String("signed_file_path", signedPath),
	)

	return doc, nil
}

// notifyCompletion tells the owner and every signer that the signed
// document is ready for download.
func (u *workflowUsecase) notifyCompletion(ctx context.Context, doc *entity.Document) {
	u.deliver(ctx, &Notification{
		Kind:           NotifyDownloadReady,
		RecipientEmail: doc.OwnerEmail,
		RecipientName:  doc.OwnerName,
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
	})

	signers, err := u.signerRepo.FindByDocument(ctx, doc.ID)
	if err != nil {
		u.logger.Error("Failed to list signers for completion notice", zap.Error(err))
		return
	}
	for _, s := range signers {
		u.deliver(ctx, &Notification{
			Kind:           NotifyDownloadReady,
			RecipientEmail: s.Email,
			RecipientName:  s.Name,
			DocumentID:     doc.ID,
			DocumentTitle:  doc.Title,
			SigningToken:   s.SigningToken,
		})
	}
}

func (u *workflowUsecase) DownloadComposite(ctx context.Context, actor Actor, documentID int64) (*entity.Document, []byte, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, nil, entity.ErrNotAuthorized
	}

	return u.readComposite(ctx, doc, actor.Email, actor)
}

func (u *workflowUsecase) DownloadCompositeByToken(ctx context.Context, rawToken string) (*entity.Document, []byte, error) {
	doc, signer, err := u.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}

	return u.readComposite(ctx, doc, signer.Email, Actor{})
}

func (u *workflowUsecase) readComposite(ctx context.Context, doc *entity.Document, actorEmail string, meta Actor) (*entity.Document, []byte, error) {
	if doc.Status != entity.DocumentSigned || doc.SignedFilePath == "" {
		return nil, nil, entity.ErrSignedFileNotReady
	}

	content, err := u.store.Read(doc.SignedFilePath)
	if err != nil {
		return nil, nil, err
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionDocumentDownloaded,
		Description: "Signed document downloaded",
		ActorEmail:  actorEmail,
		DocumentID:  doc.ID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	return doc, content, nil
}

// deliver sends one notification without letting a delivery failure
// affect the workflow.
func (u *workflowUsecase) deliver(ctx context.Context, n *Notification) {
	if n.RecipientEmail == "" {
		return
	}
	if err := u.notifier.Notify(ctx, n); err != nil {
		u.logger.Error("Notification delivery failed",
			zap.String("kind", string(n.Kind)),
			zap.String("recipient", n.RecipientEmail),
			zap.Int64("document_id", n.DocumentID),
			zap.Error(err),
		)
	}
}

func (u *workflowUsecase) audit(ctx context.Context, log *entity.AuditLog) {
	if err := u.auditRepo.Save(ctx, log); err != nil {
		u.logger.Error("Failed to save audit log",
			zap.String("action", log.Action),
			zap.Error(err),
		)
	}
}
