package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"signflow/internal/config"
	"signflow/internal/domain/entity"
	"signflow/internal/token"
	"signflow/internal/usecase"
)

type placementEnv struct {
	placements usecase.PlacementUsecase
	documents  *fakeDocumentRepo
	signers    *fakeSignerRepo
	repo       *fakePlacementRepo
	issuer     *token.Issuer
}

func newPlacementEnv(t *testing.T) *placementEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Token.Secret = "placement-test-secret"

	env := &placementEnv{
		documents: newFakeDocumentRepo(),
		signers:   newFakeSignerRepo(),
		repo:      newFakePlacementRepo(),
		issuer:    token.NewIssuer(cfg),
	}

	env.placements = usecase.NewPlacementUsecase(
		env.documents,
		env.signers,
		env.repo,
		&fakeAuditRepo{},
		env.issuer,
		zap.NewNop(),
	)

	return env
}

func (env *placementEnv) seedDocument(t *testing.T, status entity.DocumentStatus) *entity.Document {
	t.Helper()

	doc := &entity.Document{
		Title:            "Contract",
		OriginalFilename: "contract.pdf",
		FilePath:         "uploads/contract.pdf",
		Status:           status,
		OwnerID:          ownerID,
		OwnerEmail:       owner.Email,
	}
	require.NoError(t, env.documents.Create(context.Background(), doc))
	return doc
}

func TestRecordPlacementClampsGeometry(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentPending)

	placement, err := env.placements.RecordPlacement(context.Background(), owner, doc.ID, &usecase.PlacementInput{
		SignerEmail: "Alice@Example.com",
		Kind:        entity.KindSignature,
		Geometry:    entity.Geometry{PageNumber: 1, X: 2.0, Y: -5.0, Width: 1.5, Height: -0.1},
	})
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", placement.SignerEmail)
	require.Equal(t, 0.96, placement.Geometry.X)
	require.Equal(t, 0.0, placement.Geometry.Y)
	require.Equal(t, 0.98, placement.Geometry.Width)
	require.Equal(t, 0.02, placement.Geometry.Height)
	require.Equal(t, entity.PlacementPending, placement.Status)
}

func TestRecordPlacementValidation(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentPending)
	ctx := context.Background()

	_, err := env.placements.RecordPlacement(ctx, owner, doc.ID, &usecase.PlacementInput{
		SignerEmail: "alice@example.com",
		Geometry:    entity.Geometry{PageNumber: 0, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.ErrorIs(t, err, entity.ErrValidation)

	_, err = env.placements.RecordPlacement(ctx, owner, doc.ID, &usecase.PlacementInput{
		SignerEmail: "alice@example.com",
		Kind:        "doodle",
		Geometry:    entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.ErrorIs(t, err, entity.ErrValidation)

	stranger := usecase.Actor{UserID: 99}
	_, err = env.placements.RecordPlacement(ctx, stranger, doc.ID, &usecase.PlacementInput{
		SignerEmail: "alice@example.com",
		Geometry:    entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.ErrorIs(t, err, entity.ErrNotAuthorized)
}

func TestRecordPlacementOnTerminalDocument(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentSigned)

	_, err := env.placements.RecordPlacement(context.Background(), owner, doc.ID, &usecase.PlacementInput{
		SignerEmail: "alice@example.com",
		Geometry:    entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.ErrorIs(t, err, entity.ErrAlreadyFinalized)
}

func TestUpdateGeometryClampsAndKeepsStatus(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentPending)
	ctx := context.Background()

	placement, err := env.placements.RecordPlacement(ctx, owner, doc.ID, &usecase.PlacementInput{
		SignerEmail: "alice@example.com",
		Geometry:    entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.NoError(t, err)

	// Sign it, then move it. Moving never resets the signed status.
	ok, err := env.repo.MarkSigned(ctx, placement.ID, "Alice", "cursive", "", placement.CreatedAt)
	require.NoError(t, err)
	require.True(t, ok)

	moved, err := env.placements.UpdateGeometry(ctx, owner, placement.ID, entity.Geometry{
		PageNumber: 2, X: 1.2, Y: 0.5, Width: 0.3, Height: 0.1,
	})
	require.NoError(t, err)
	require.Equal(t, 0.96, moved.Geometry.X)
	require.Equal(t, 2, moved.Geometry.PageNumber)

	stored, err := env.repo.FindByID(ctx, placement.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PlacementSigned, stored.Status)
}

func TestTokenPathScopedToOwnPlacements(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentPending)
	ctx := context.Background()

	_, err := env.signers.ReplaceForDocument(ctx, doc.ID, []entity.Signer{
		{Name: "Alice", Email: "alice@example.com", Status: entity.SignerPending},
		{Name: "Bob", Email: "bob@example.com", Status: entity.SignerPending},
	})
	require.NoError(t, err)

	aliceToken, err := env.issuer.MintSigningLink(doc.ID, "alice@example.com", time.Hour)
	require.NoError(t, err)

	// Alice places her own mark; the signer email comes from the
	// token even if the body claims otherwise.
	placement, err := env.placements.RecordPlacementByToken(ctx, aliceToken, &usecase.PlacementInput{
		SignerEmail: "bob@example.com",
		Geometry:    entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", placement.SignerEmail)

	// Bob cannot move Alice's placement.
	bobToken, err := env.issuer.MintSigningLink(doc.ID, "bob@example.com", time.Hour)
	require.NoError(t, err)

	_, err = env.placements.UpdateGeometryByToken(ctx, bobToken, placement.ID, entity.Geometry{
		PageNumber: 1, X: 0.5, Y: 0.5, Width: 0.2, Height: 0.1,
	})
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	// Alice can.
	moved, err := env.placements.UpdateGeometryByToken(ctx, aliceToken, placement.ID, entity.Geometry{
		PageNumber: 1, X: 0.5, Y: 0.5, Width: 0.2, Height: 0.1,
	})
	require.NoError(t, err)
	require.Equal(t, 0.5, moved.Geometry.X)
}

func TestDeletePlacement(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentPending)
	ctx := context.Background()

	placement, err := env.placements.RecordPlacement(ctx, owner, doc.ID, &usecase.PlacementInput{
		SignerEmail: "alice@example.com",
		Geometry:    entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.NoError(t, err)

	require.NoError(t, env.placements.DeletePlacement(ctx, owner, placement.ID))

	_, err = env.repo.FindByID(ctx, placement.ID)
	require.ErrorIs(t, err, entity.ErrPlacementNotFound)

	err = env.placements.DeletePlacement(ctx, owner, placement.ID)
	require.ErrorIs(t, err, entity.ErrPlacementNotFound)
}

func TestDeletePlacementByTokenScopedToOwnPending(t *testing.T) {
	env := newPlacementEnv(t)
	doc := env.seedDocument(t, entity.DocumentPending)
	ctx := context.Background()

	_, err := env.signers.ReplaceForDocument(ctx, doc.ID, []entity.Signer{
		{Name: "Alice", Email: "alice@example.com", Status: entity.SignerPending},
		{Name: "Bob", Email: "bob@example.com", Status: entity.SignerPending},
	})
	require.NoError(t, err)

	aliceToken, err := env.issuer.MintSigningLink(doc.ID, "alice@example.com", time.Hour)
	require.NoError(t, err)
	bobToken, err := env.issuer.MintSigningLink(doc.ID, "bob@example.com", time.Hour)
	require.NoError(t, err)

	placement, err := env.placements.RecordPlacementByToken(ctx, aliceToken, &usecase.PlacementInput{
		Geometry: entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1},
	})
	require.NoError(t, err)

	// Bob cannot delete Alice's placement.
	err = env.placements.DeletePlacementByToken(ctx, bobToken, placement.ID)
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	require.NoError(t, env.placements.DeletePlacementByToken(ctx, aliceToken, placement.ID))

	_, err = env.repo.FindByID(ctx, placement.ID)
	require.ErrorIs(t, err, entity.ErrPlacementNotFound)
}
