package entity

import "time"

// Audit actions recorded by the workflow.
const (
	ActionDocumentUploaded   = "DOCUMENT_UPLOADED"
	ActionDocumentViewed     = "DOCUMENT_VIEWED"
	ActionDocumentDownloaded = "DOCUMENT_DOWNLOADED"
	ActionDocumentDeleted    = "DOCUMENT_DELETED"
	ActionDocumentFinalized  = "DOCUMENT_FINALIZED"
	ActionDocumentRejected   = "DOCUMENT_REJECTED"

	ActionPlacementCreated = "SIGNATURE_CREATED"
	ActionPlacementSigned  = "SIGNATURE_SIGNED"
	ActionPlacementDeleted = "SIGNATURE_DELETED"
	ActionPlacementMoved   = "SIGNATURE_POSITION_UPDATED"

	ActionSigningRequestSent = "SIGNING_REQUEST_SENT"
)

type AuditLog struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorEmail  string    `json:"actor_email,omitempty"`
	DocumentID  int64     `json:"document_id,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
