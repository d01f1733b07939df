package entity

import "time"

type PlacementStatus string

const (
	PlacementPending PlacementStatus = "pending"
	PlacementSigned  PlacementStatus = "signed"
)

type PlacementKind string

const (
	KindSignature PlacementKind = "signature"
	KindInitials  PlacementKind = "initials"
	KindName      PlacementKind = "name"
	KindDate      PlacementKind = "date"
	KindText      PlacementKind = "text"
	KindStamp     PlacementKind = "stamp"
)

// Geometry bounds. Fractions of the page size, clamped on every write
// path before a placement reaches storage.
const (
	MinWidth  = 0.04
	MaxWidth  = 0.98
	MinHeight = 0.02
	MaxHeight = 0.98
	MinX      = 0.0
	MaxX      = 0.96
	MinY      = 0.0
	MaxY      = 0.96
)

// Geometry positions a placement on a page. All fields are fractions
// of the page width/height with the origin at the top-left corner.
type Geometry struct {
	PageNumber int     `json:"page_number"`
	X          float64 `json:"x_position"`
	Y          float64 `json:"y_position"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Clamp forces each geometry field into its allowed range. Out of
// bounds values are clamped to the nearest bound, never rejected.
func (g *Geometry) Clamp() {
	g.Width = clamp(g.Width, MinWidth, MaxWidth)
	g.Height = clamp(g.Height, MinHeight, MaxHeight)
	g.X = clamp(g.X, MinX, MaxX)
	g.Y = clamp(g.Y, MinY, MaxY)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Placement is one visual mark to be applied at finalize time. It is
// created pending and transitions to signed exactly once, receiving
// its content at that moment. Geometry stays editable after signing.
type Placement struct {
	ID          int64           `json:"id"`
	DocumentID  int64           `json:"document_id"`
	SignerEmail string          `json:"signer_email"`
	SignerName  string          `json:"signer_name,omitempty"`
	Geometry    Geometry        `json:"geometry"`
	Kind        PlacementKind   `json:"signature_type"`
	Text        string          `json:"signature_text,omitempty"`
	Font        string          `json:"signature_font,omitempty"`
	ImagePath   string          `json:"signature_image_path,omitempty"`
	Status      PlacementStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	SignedAt    *time.Time      `json:"signed_at,omitempty"`
}

// SignatureContent is the content supplied when a placement is signed.
// Either rendered text with a named font or raw image bytes.
type SignatureContent struct {
	Text        string `json:"signature_text"`
	Font        string `json:"signature_font"`
	ImageBase64 string `json:"signature_image_base64"`
}
