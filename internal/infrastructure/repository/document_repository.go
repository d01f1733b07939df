package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"signflow/internal/domain/entity"
	"signflow/internal/domain/repository"
	"signflow/internal/infrastructure/database"
)

type documentRepository struct {
	db *database.Database
}

func NewDocumentRepository(db *database.Database) repository.DocumentRepository {
	return &documentRepository{
		db: db,
	}
}

const documentColumns = `id, title, original_filename, file_path, signed_file_path, status, owner_id, owner_name, owner_email, created_at, updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*entity.Document, error) {
	var doc entity.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.OriginalFilename,
		&doc.FilePath,
		&doc.SignedFilePath,
		&doc.Status,
		&doc.OwnerID,
		&doc.OwnerName,
		&doc.OwnerEmail,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (title, original_filename, file_path, status, owner_id, owner_name, owner_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		doc.Title,
		doc.OriginalFilename,
		doc.FilePath,
		doc.Status,
		doc.OwnerID,
		doc.OwnerName,
		doc.OwnerEmail,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id int64) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return doc, nil
}

func (r *documentRepository) FindByOwner(ctx context.Context, ownerID int64) ([]entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *documentRepository) FindBySignerEmail(ctx context.Context, email string) ([]entity.Document, error) {
	query := `
		SELECT ` + documentColumns + ` FROM documents
		WHERE id IN (SELECT document_id FROM document_signers WHERE signer_email = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list received documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func collectDocuments(rows *sql.Rows) ([]entity.Document, error) {
	var docs []entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) TransitionStatus(ctx context.Context, id int64, to entity.DocumentStatus, signedFilePath string) (bool, error) {
	// Conditional transition: only a pending document moves. Acts as
	// the compare-and-set guard for the terminal states.
	query := `
		UPDATE documents
		SET status = $1, signed_file_path = $2, updated_at = $3
		WHERE id = $4 AND status = 'pending'
	`

	result, err := r.db.DB.ExecContext(ctx, query, to, signedFilePath, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to transition document status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	// Signers, placements and audit rows cascade via FK constraints.
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
