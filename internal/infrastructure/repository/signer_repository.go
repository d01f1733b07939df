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

type signerRepository struct {
	db *database.Database
}

func NewSignerRepository(db *database.Database) repository.SignerRepository {
	return &signerRepository{
		db: db,
	}
}

const signerColumns = `id, document_id, signer_name, signer_email, signing_order, status, signed_at, signing_token, token_expires_at, rejection_reason, rejected_at, created_at, updated_at`

func scanSigner(row interface{ Scan(...interface{}) error }) (*entity.Signer, error) {
	var s entity.Signer
	var signedAt, tokenExpiresAt, rejectedAt sql.NullTime
	var token sql.NullString

	err := row.Scan(
		&s.ID,
		&s.DocumentID,
		&s.Name,
		&s.Email,
		&s.SigningOrder,
		&s.Status,
		&signedAt,
		&token,
		&tokenExpiresAt,
		&s.RejectionReason,
		&rejectedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if signedAt.Valid {
		s.SignedAt = &signedAt.Time
	}
	if token.Valid {
		s.SigningToken = token.String
	}
	if tokenExpiresAt.Valid {
		s.TokenExpiresAt = &tokenExpiresAt.Time
	}
	if rejectedAt.Valid {
		s.RejectedAt = &rejectedAt.Time
	}

	return &s, nil
}

func (r *signerRepository) ReplaceForDocument(ctx context.Context, documentID int64, signers []entity.Signer) ([]entity.Signer, error) {
	// One transaction: delete the whole previous signer generation,
	// insert the new one. The delete is what revokes the old tokens's
	// backing rows, so a partial replacement must never be visible.
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin signer replacement: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_signers WHERE document_id = $1`, documentID); err != nil {
		return nil, fmt.Errorf("failed to delete previous signers: %w", err)
	}

	query := `
		INSERT INTO document_signers (document_id, signer_name, signer_email, signing_order, status, signing_token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	created := make([]entity.Signer, len(signers))
	for i, s := range signers {
		s.DocumentID = documentID
		err := tx.QueryRowContext(ctx, query,
			documentID,
			s.Name,
			s.Email,
			s.SigningOrder,
			s.Status,
			s.SigningToken,
			s.TokenExpiresAt,
		).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert signer %s: %w", s.Email, err)
		}
		created[i] = s
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit signer replacement: %w", err)
	}

	return created, nil
}

func (r *signerRepository) FindByDocument(ctx context.Context, documentID int64) ([]entity.Signer, error) {
	query := `SELECT ` + signerColumns + ` FROM document_signers WHERE document_id = $1 ORDER BY signing_order, id`

	rows, err := r.db.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signers: %w", err)
	}
	defer rows.Close()

	var signers []entity.Signer
	for rows.Next() {
		s, err := scanSigner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signer: %w", err)
		}
		signers = append(signers, *s)
	}

	return signers, rows.Err()
}

func (r *signerRepository) FindByDocumentAndEmail(ctx context.Context, documentID int64, email string) (*entity.Signer, error) {
	query := `SELECT ` + signerColumns + ` FROM document_signers WHERE document_id = $1 AND signer_email = $2`

	s, err := scanSigner(r.db.DB.QueryRowContext(ctx, query, documentID, email))
	if err == sql.ErrNoRows {
		return nil, entity.ErrSignerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find signer: %w", err)
	}

	return s, nil
}

func (r *signerRepository) FindNextPending(ctx context.Context, documentID int64) (*entity.Signer, error) {
	query := `
		SELECT ` + signerColumns + ` FROM document_signers
		WHERE document_id = $1 AND status = 'pending'
		ORDER BY signing_order, id
		LIMIT 1
	`

	s, err := scanSigner(r.db.DB.QueryRowContext(ctx, query, documentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find next pending signer: %w", err)
	}

	return s, nil
}

func (r *signerRepository) CountPending(ctx context.Context, documentID int64) (int, error) {
	var count int
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM document_signers WHERE document_id = $1 AND status = 'pending'`,
		documentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending signers: %w", err)
	}
	return count, nil
}

func (r *signerRepository) MarkSigned(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `
		UPDATE document_signers
		SET status = 'signed', signed_at = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.db.DB.ExecContext(ctx, query, at, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark signer signed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *signerRepository) MarkRejected(ctx context.Context, id int64, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE document_signers
		SET status = 'rejected', rejection_reason = $1, rejected_at = $2, updated_at = $3
		WHERE id = $4 AND status = 'pending'
	`

	result, err := r.db.DB.ExecContext(ctx, query, reason, at, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark signer rejected: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}
