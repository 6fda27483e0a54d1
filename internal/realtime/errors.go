package realtime

import "errors"

// Failure taxonomy for the coordination layer. All of these are recoverable
// and are reported only to the originating connection as a structured
// failure event - never broadcast.
var (
	ErrIdentityMissing  = errors.New("identity is required to register")
	ErrNotRegistered    = errors.New("connection has no registered identity")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSizeExceeded     = errors.New("file exceeds the maximum allowed size")
	ErrPeerNotFound     = errors.New("peer not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrOwnerMismatch    = errors.New("file is not owned by the given peer")
	ErrPeerOffline      = errors.New("peer is not online")
	ErrNotOwner         = errors.New("only the file owner may resolve this transfer")
	ErrTransferNotFound = errors.New("no matching transfer request")
	ErrQuotaExceeded    = errors.New("daily submission quota exceeded")
)
