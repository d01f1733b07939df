package entity

import "time"

type SignerStatus string

const (
	SignerPending  SignerStatus = "pending"
	SignerSigned   SignerStatus = "signed"
	SignerRejected SignerStatus = "rejected"
)

// Signer is one required party for a document. The signer set for a
// document is replaced wholesale each time the owner sends a signing
// request batch; deleting the old rows is the only way an outstanding
// signing token is ever revoked.
type Signer struct {
	ID              int64        `json:"id"`
	DocumentID      int64        `json:"document_id"`
	Name            string       `json:"signer_name"`
	Email           string       `json:"signer_email"`
	SigningOrder    int          `json:"signing_order"`
	Status          SignerStatus `json:"status"`
	SignedAt        *time.Time   `json:"signed_at,omitempty"`
	SigningToken    string       `json:"signing_token,omitempty"`
	TokenExpiresAt  *time.Time   `json:"token_expires_at,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time   `json:"rejected_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Ordered reports whether this signer participates in sequential
// signing. Order 0 means no ordering constraint.
func (s *Signer) Ordered() bool {
	return s.SigningOrder > 0
}
