package usecase

import "context"

// NotificationKind enumerates the outbound message intents the
// workflow can produce.
type NotificationKind string

const (
	NotifySigningRequest     NotificationKind = "signing_request"
	NotifyNextSignerReminder NotificationKind = "next_signer_reminder"
	NotifyOwnerSigned        NotificationKind = "owner_signed"
	NotifyOwnerRejected      NotificationKind = "owner_rejected"
	NotifyDownloadReady      NotificationKind = "signer_download_ready"
)

// Notification is a structured delivery intent handed to the notifier.
type Notification struct {
	Kind           NotificationKind
	RecipientEmail string
	RecipientName  string
	DocumentID     int64
	DocumentTitle  string
	SenderName     string
	SigningToken   string
	CustomMessage  string
	Reason         string
}

// Notifier renders and delivers a notification. Delivery is best
// effort: the workflow logs failures and keeps moving, it never rolls
// a state transition back because an email bounced.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// DocumentLocker provides per-document mutual exclusion for the
// aggregate-check-and-finalize sequence.
type DocumentLocker interface {
	Acquire(ctx context.Context, documentID int64) (release func(), err error)
}

// Compositor overlays signed placements onto the source document
// bytes and returns the composite.
type Compositor interface {
	Compose(ctx context.Context, source []byte, placements []SignedPlacement) ([]byte, error)
}

// SignedPlacement is a placement with its image content resolved,
// ready for compositing.
type SignedPlacement struct {
	PageNumber int // 1-based
	X, Y       float64
	W, H       float64
	Text       string
	Font       string
	Kind       string
	Image      []byte // already-rendered image content, may be nil for text placements
}
