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

type placementRepository struct {
	db *database.Database
}

func NewPlacementRepository(db *database.Database) repository.PlacementRepository {
	return &placementRepository{
		db: db,
	}
}

const placementColumns = `id, document_id, signer_email, page_number, x_position, y_position, width, height, signature_type, signature_text, signature_font, signature_image_path, status, created_at, signed_at`

func scanPlacement(row interface{ Scan(...interface{}) error }) (*entity.Placement, error) {
	var p entity.Placement
	var signedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.DocumentID,
		&p.SignerEmail,
		&p.Geometry.PageNumber,
		&p.Geometry.X,
		&p.Geometry.Y,
		&p.Geometry.Width,
		&p.Geometry.Height,
		&p.Kind,
		&p.Text,
		&p.Font,
		&p.ImagePath,
		&p.Status,
		&p.CreatedAt,
		&signedAt,
	)
	if err != nil {
		return nil, err
	}

	if signedAt.Valid {
		p.SignedAt = &signedAt.Time
	}

	return &p, nil
}

func (r *placementRepository) Create(ctx context.Context, placement *entity.Placement) error {
	query := `
		INSERT INTO signatures (document_id, signer_email, page_number, x_position, y_position, width, height, signature_type, signature_text, signature_font, signature_image_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		placement.DocumentID,
		placement.SignerEmail,
		placement.Geometry.PageNumber,
		placement.Geometry.X,
		placement.Geometry.Y,
		placement.Geometry.Width,
		placement.Geometry.Height,
		placement.Kind,
		placement.Text,
		placement.Font,
		placement.ImagePath,
		placement.Status,
	).Scan(&placement.ID, &placement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create placement: %w", err)
	}

	return nil
}

func (r *placementRepository) FindByID(ctx context.Context, id int64) (*entity.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM signatures WHERE id = $1`

	p, err := scanPlacement(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrPlacementNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find placement: %w", err)
	}

	return p, nil
}

func (r *placementRepository) FindByDocument(ctx context.Context, documentID int64) ([]entity.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM signatures WHERE document_id = $1 ORDER BY page_number, id`
	return r.queryPlacements(ctx, query, documentID)
}

func (r *placementRepository) FindSignedByDocument(ctx context.Context, documentID int64) ([]entity.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM signatures WHERE document_id = $1 AND status = 'signed' ORDER BY page_number, id`
	return r.queryPlacements(ctx, query, documentID)
}

func (r *placementRepository) queryPlacements(ctx context.Context, query string, args ...interface{}) ([]entity.Placement, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()

	var placements []entity.Placement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements = append(placements, *p)
	}

	return placements, rows.Err()
}

func (r *placementRepository) UpdateGeometry(ctx context.Context, id int64, geom entity.Geometry) error {
	query := `
		UPDATE signatures
		SET page_number = $1, x_position = $2, y_position = $3, width = $4, height = $5
		WHERE id = $6
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		geom.PageNumber,
		geom.X,
		geom.Y,
		geom.Width,
		geom.Height,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update placement geometry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entity.ErrPlacementNotFound
	}

	return nil
}

func (r *placementRepository) MarkSigned(ctx context.Context, id int64, text, font, imagePath string, at time.Time) (bool, error) {
	query := `
		UPDATE signatures
		SET status = 'signed', signature_text = $1, signature_font = $2, signature_image_path = $3, signed_at = $4
		WHERE id = $5 AND status = 'pending'
	`

	result, err := r.db.DB.ExecContext(ctx, query, text, font, imagePath, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark placement signed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *placementRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM signatures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete placement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entity.ErrPlacementNotFound
	}

	return nil
}
