package repository

import (
	"context"

	"signflow/internal/domain/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindByID(ctx context.Context, id int64) (*entity.Document, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]entity.Document, error)
	// FindBySignerEmail returns documents that have a signer row for
	// the given email, newest first.
	FindBySignerEmail(ctx context.Context, email string) ([]entity.Document, error)
	// TransitionStatus performs the conditional terminal transition:
	// the row is updated only while status is still pending. Returns
	// false when another worker already moved the document out of
	// pending, which makes the terminal transitions race safe.
	TransitionStatus(ctx context.Context, id int64, to entity.DocumentStatus, signedFilePath string) (bool, error)
	Delete(ctx context.Context, id int64) error
}
