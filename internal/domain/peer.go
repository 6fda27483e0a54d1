package domain

import "time"

// Peer is a live connection bound to an identity, capable of owning files
// and participating in transfers.
type Peer struct {
	ConnID       string    `json:"peerId"` // Opaque connection id, minted on connect
	Username     string    `json:"username"`
	FileCount    int       `json:"fileCount"`
	RegisteredAt time.Time `json:"-"`
}

// FileRecord is an uploaded file payload held in volatile memory,
// addressable by id. The payload is never persisted and never broadcast;
// it only moves to a single requester after explicit owner approval.
type FileRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Data       []byte    `json:"-"`
	OwnerID    string    `json:"-"` // Connection id of the owning peer
	UploadedAt time.Time `json:"uploadedAt"`
}

// FileMeta is the peer-visible view of a FileRecord (metadata only).
type FileMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Meta strips the payload and ownership details from a FileRecord.
func (f *FileRecord) Meta() FileMeta {
	return FileMeta{ID: f.ID, Name: f.Name, Size: f.Size}
}

// TransferState tracks the negotiation state of a PendingTransfer.
type TransferState string

const (
	TransferRequested TransferState = "Requested"
	TransferApproved  TransferState = "Approved"
	TransferDenied    TransferState = "Denied"
	TransferCompleted TransferState = "Completed"
	TransferExpired   TransferState = "Expired"
)

// PendingTransfer is the negotiation state for one requester/owner/file
// triple. Valid transitions: Requested -> Approved -> Completed,
// Requested -> Denied, Requested -> Expired.
type PendingTransfer struct {
	RequesterID string
	OwnerID     string
	FileID      string
	FileName    string
	State       TransferState
	RequestedAt time.Time
}
