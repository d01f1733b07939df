package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"signflow/internal/domain/entity"
)

func TestGeometryClamp(t *testing.T) {
	tests := []struct {
		name string
		in   entity.Geometry
		want entity.Geometry
	}{
		{
			name: "in range untouched",
			in:   entity.Geometry{PageNumber: 1, X: 0.5, Y: 0.5, Width: 0.2, Height: 0.1},
			want: entity.Geometry{PageNumber: 1, X: 0.5, Y: 0.5, Width: 0.2, Height: 0.1},
		},
		{
			name: "oversized width pulled to max",
			in:   entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 1.5, Height: 0.1},
			want: entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.98, Height: 0.1},
		},
		{
			name: "negative height pulled to min",
			in:   entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: -0.1},
			want: entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.02},
		},
		{
			name: "position past right edge",
			in:   entity.Geometry{PageNumber: 3, X: 2.0, Y: 0.1, Width: 0.2, Height: 0.1},
			want: entity.Geometry{PageNumber: 3, X: 0.96, Y: 0.1, Width: 0.2, Height: 0.1},
		},
		{
			name: "negative position",
			in:   entity.Geometry{PageNumber: 1, X: -0.5, Y: -5.0, Width: 0.2, Height: 0.1},
			want: entity.Geometry{PageNumber: 1, X: 0.0, Y: 0.0, Width: 0.2, Height: 0.1},
		},
		{
			name: "tiny width pulled to min",
			in:   entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.001, Height: 0.1},
			want: entity.Geometry{PageNumber: 1, X: 0.1, Y: 0.1, Width: 0.04, Height: 0.1},
		},
		{
			name: "boundary values stay",
			in:   entity.Geometry{PageNumber: 1, X: 0.96, Y: 0.0, Width: 0.98, Height: 0.02},
			want: entity.Geometry{PageNumber: 1, X: 0.96, Y: 0.0, Width: 0.98, Height: 0.02},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.in
			g.Clamp()
			require.Equal(t, tt.want, g)
		})
	}
}

func TestDocumentIsTerminal(t *testing.T) {
	doc := &entity.Document{Status: entity.DocumentPending}
	require.False(t, doc.IsTerminal())

	doc.Status = entity.DocumentSigned
	require.True(t, doc.IsTerminal())

	doc.Status = entity.DocumentRejected
	require.True(t, doc.IsTerminal())
}

func TestSignerOrdered(t *testing.T) {
	require.False(t, (&entity.Signer{SigningOrder: 0}).Ordered())
	require.True(t, (&entity.Signer{SigningOrder: 1}).Ordered())
}
