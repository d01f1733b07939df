package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"signflow/internal/config"
	"signflow/internal/domain/entity"
	"signflow/internal/domain/repository"
	"signflow/internal/infrastructure/storage"
)

type DocumentUsecase interface {
	// Upload stores the PDF and creates the document in pending state.
	Upload(ctx context.Context, actor Actor, title, filename string, content []byte) (*entity.Document, error)
	Get(ctx context.Context, actor Actor, documentID int64) (*entity.Document, error)
	// List returns the actor's own documents, newest first.
	List(ctx context.Context, actor Actor) ([]entity.Document, error)
	// ListReceived returns documents where the actor appears as a
	// signer, regardless of who owns them.
	ListReceived(ctx context.Context, actor Actor) ([]entity.Document, error)
	// GetFile returns the original uploaded PDF.
	GetFile(ctx context.Context, actor Actor, documentID int64) (*entity.Document, []byte, error)
	// Delete removes the document row and its stored files. Signer and
	// placement rows go with it.
	Delete(ctx context.Context, actor Actor, documentID int64) error
	GetAuditTrail(ctx context.Context, actor Actor, documentID int64, limit int) ([]entity.AuditLog, error)
}

type documentUsecase struct {
	config       *config.Config
	documentRepo repository.DocumentRepository
	auditRepo    repository.AuditRepository
	store        storage.FileStore
	logger       *zap.Logger
}

func NewDocumentUsecase(
	cfg *config.Config,
	documentRepo repository.DocumentRepository,
	auditRepo repository.AuditRepository,
	store storage.FileStore,
	logger *zap.Logger,
) DocumentUsecase {
	return &documentUsecase{
		config:       cfg,
		documentRepo: documentRepo,
		auditRepo:    auditRepo,
		store:        store,
		logger:       logger,
	}
}

func (u *documentUsecase) Upload(ctx context.Context, actor Actor, title, filename string, content []byte) (*entity.Document, error) {
	u.logger.Info("Uploading document",
		zap.String("filename", filename),
		zap.Int64("owner_id", actor.UserID),
		zap.Int("size", len(content)),
	)

	if len(content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", entity.ErrValidation)
	}
	if int64(len(content)) > u.config.Storage.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", entity.ErrValidation, u.config.Storage.MaxUploadBytes)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: only PDF files are accepted", entity.ErrValidation)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	path, err := u.store.SaveUpload(filename, content)
	if err != nil {
		u.logger.Error("Failed to store upload", zap.Error(err))
		return nil, err
	}

	doc := &entity.Document{
		Title:            title,
		OriginalFilename: filepath.Base(filename),
		FilePath:         path,
		Status:           entity.DocumentPending,
		OwnerID:          actor.UserID,
		OwnerName:        actor.Name,
		OwnerEmail:       actor.Email,
	}

	if err := u.documentRepo.Create(ctx, doc); err != nil {
		u.logger.Error("Failed to create document", zap.Error(err))
		if removeErr := u.store.Remove(path); removeErr != nil {
			u.logger.Warn("Failed to remove orphaned upload", zap.Error(removeErr))
		}
		return nil, err
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionDocumentUploaded,
		Description: fmt.Sprintf("Document %q uploaded", doc.Title),
		ActorEmail:  actor.Email,
		DocumentID:  doc.ID,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})

	u.logger.Info("Document uploaded",
		zap.Int64("document_id", doc.ID),
		zap.String("file_path", doc.FilePath),
	)

	return doc, nil
}

func (u *documentUsecase) Get(ctx context.Context, actor Actor, documentID int64) (*entity.Document, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	u.audit(ctx, &entity.AuditLog{
		Action:      entity.ActionDocumentViewed,
		Description: fmt.Sprintf("Document %q viewed", doc.Title),
		ActorEmail:  actor.Email,
		DocumentID:  doc.ID,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})

	return doc, nil
}

func (u *documentUsecase) List(ctx context.Context, actor Actor) ([]entity.Document, error) {
	return u.documentRepo.FindByOwner(ctx, actor.UserID)
}

func (u *documentUsecase) ListReceived(ctx context.Context, actor Actor) ([]entity.Document, error) {
	return u.documentRepo.FindBySignerEmail(ctx, strings.ToLower(actor.Email))
}

func (u *documentUsecase) GetFile(ctx context.Context, actor Actor, documentID int64) (*entity.Document, []byte, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, nil, entity.ErrNotAuthorized
	}

	content, err := u.store.Read(doc.FilePath)
	if err != nil {
		return nil, nil, err
	}

	return doc, content, nil
}

func (u *documentUsecase) Delete(ctx context.Context, actor Actor, documentID int64) error {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.OwnerID != actor.UserID {
		return entity.ErrNotAuthorized
	}

	if err := u.documentRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	// Best effort file cleanup after the row is gone.
	if err := u.store.Remove(doc.FilePath); err != nil {
		u.logger.Warn("Failed to remove document file",
			zap.String("path", doc.FilePath),
			zap.Error(err),
		)
	}
	if doc.SignedFilePath != "" {
		if err := u.store.Remove(doc.SignedFilePath); err != nil {
			u.logger.Warn("Failed to remove signed file",
				zap.String("path", doc.SignedFilePath),
				zap.Error(err),
			)
		}
	}

	u.logger.Info("Document deleted",
		zap.Int64("document_id", documentID),
		zap.Int64("owner_id", actor.UserID),
	)

	return nil
}

func (u *documentUsecase) GetAuditTrail(ctx context.Context, actor Actor, documentID int64, limit int) ([]entity.AuditLog, error) {
	doc, err := u.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID {
		return nil, entity.ErrNotAuthorized
	}

	return u.auditRepo.FindByDocument(ctx, documentID, limit)
}

func (u *documentUsecase) audit(ctx context.Context, log *entity.AuditLog) {
	if err := u.auditRepo.Save(ctx, log); err != nil {
		u.logger.Error("Failed to save audit log",
			zap.String("action", log.Action),
			zap.Error(err),
		)
	}
}
