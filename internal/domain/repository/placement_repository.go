package repository

import (
	"context"
	"time"

	"signflow/internal/domain/entity"
)

type PlacementRepository interface {
	Create(ctx context.Context, placement *entity.Placement) error
	FindByID(ctx context.Context, id int64) (*entity.Placement, error)
	FindByDocument(ctx context.Context, documentID int64) ([]entity.Placement, error)
	FindSignedByDocument(ctx context.Context, documentID int64) ([]entity.Placement, error)
	// UpdateGeometry rewrites the clamped geometry. Signed placements
	// stay signed; moving or resizing never resets status.
	UpdateGeometry(ctx context.Context, id int64, geom entity.Geometry) error
	// MarkSigned stores the content and flips the placement to signed.
	// Only a pending placement transitions; returns false otherwise.
	MarkSigned(ctx context.Context, id int64, text, font, imagePath string, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
}
