package repository

import (
	"context"
	"fmt"

	"signflow/internal/domain/entity"
	"signflow/internal/domain/repository"
	"signflow/internal/infrastructure/database"
)

type auditRepository struct {
	db *database.Database
}

func NewAuditRepository(db *database.Database) repository.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Save(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (action, description, actor_email, document_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		log.Action,
		log.Description,
		log.ActorEmail,
		log.DocumentID,
		log.IPAddress,
		log.UserAgent,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}

	return nil
}

func (r *auditRepository) FindByDocument(ctx context.Context, documentID int64, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, action, description, actor_email, document_id, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.DB.QueryContext(ctx, query, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		err := rows.Scan(
			&l.ID,
			&l.Action,
			&l.Description,
			&l.ActorEmail,
			&l.DocumentID,
			&l.IPAddress,
			&l.UserAgent,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
