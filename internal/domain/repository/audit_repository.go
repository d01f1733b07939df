package repository

import (
	"context"

	"signflow/internal/domain/entity"
)

type AuditRepository interface {
	Save(ctx context.Context, log *entity.AuditLog) error
	FindByDocument(ctx context.Context, documentID int64, limit int) ([]entity.AuditLog, error)
}
