package repository

import (
	"context"
	"time"

	"signflow/internal/domain/entity"
)

type SignerRepository interface {
	// ReplaceForDocument deletes every signer row for the document and
	// inserts the new set in a single transaction. Superseding the old
	// rows is the only revocation mechanism for their signing tokens.
	ReplaceForDocument(ctx context.Context, documentID int64, signers []entity.Signer) ([]entity.Signer, error)
	FindByDocument(ctx context.Context, documentID int64) ([]entity.Signer, error)
	FindByDocumentAndEmail(ctx context.Context, documentID int64, email string) (*entity.Signer, error)
	// FindNextPending returns the single pending signer with the
	// lowest signing order, or nil when none remain.
	FindNextPending(ctx context.Context, documentID int64) (*entity.Signer, error)
	CountPending(ctx context.Context, documentID int64) (int, error)
	// MarkSigned flips a pending signer to signed. Returns false if
	// the signer was no longer pending.
	MarkSigned(ctx context.Context, id int64, at time.Time) (bool, error)
	// MarkRejected flips a pending signer to rejected with the reason.
	MarkRejected(ctx context.Context, id int64, reason string, at time.Time) (bool, error)
}
