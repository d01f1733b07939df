package entity

import "time"

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentSigned   DocumentStatus = "signed"
	DocumentRejected DocumentStatus = "rejected"
)

// Document is one signing job. SignedFilePath is set if and only if
// the document has reached the signed state.
type Document struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"file_path"`
	SignedFilePath   string         `json:"signed_file_path,omitempty"`
	Status           DocumentStatus `json:"status"`
	OwnerID          int64          `json:"owner_id"`
	OwnerName        string         `json:"-"`
	OwnerEmail       string         `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsTerminal reports whether the document admits no further workflow
// transitions.
func (d *Document) IsTerminal() bool {
	return d.Status == DocumentSigned || d.Status == DocumentRejected
}
