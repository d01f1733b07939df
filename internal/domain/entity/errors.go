package entity

import "errors"

var (
	// ErrValidation wraps request-shape problems the caller can fix.
	ErrValidation = errors.New("validation failed")

	ErrDocumentNotFound  = errors.New("document not found")
	ErrSignerNotFound    = errors.New("signer not found")
	ErrPlacementNotFound = errors.New("placement not found")

	// ErrNotAuthorized means the actor is neither the document owner
	// nor the signer the presented token was minted for.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrAlreadyFinalized guards every mutation against a document (or
	// signer) that has already reached a terminal state.
	ErrAlreadyFinalized = errors.New("document already finalized")

	// ErrSignersPending is returned when finalization runs while one
	// or more signers have not acted yet.
	ErrSignersPending = errors.New("not all signers have signed")

	// ErrNoSignedPlacements is returned when finalization finds all
	// signers done but nothing to composite.
	ErrNoSignedPlacements = errors.New("no signatures have been signed yet")

	// ErrSignedFileNotReady is returned when a composite download is
	// requested before the document has been finalized.
	ErrSignedFileNotReady = errors.New("signed document is not available yet")

	// ErrCompositorFailure wraps errors from composite generation. The
	// document stays pending, so retrying finalize is always safe.
	ErrCompositorFailure = errors.New("failed to generate signed document")
)
