package realtime

import (
	"encoding/json"

	"hostelhub/internal/domain"
)

// Client -> server event names.
const (
	EventRegister        = "register"
	EventListPeers       = "listPeers"
	EventUploadFile      = "uploadFile"
	EventListPeerFiles   = "listPeerFiles"
	EventRequestFile     = "requestFile"
	EventResolveTransfer = "resolveTransfer"
	EventSubmitCount     = "submitCount"
	EventSubmitComplaint = "submitComplaint"
	EventGetComplaints   = "getComplaints"
)

// Server -> client event names.
const (
	EventPeerListChanged      = "peerListChanged"
	EventPeerList             = "peerList"
	EventUploadSucceeded      = "uploadSucceeded"
	EventUploadFailed         = "uploadFailed"
	EventPeerFiles            = "peerFiles"
	EventPeerFilesError       = "peerFilesError"
	EventFileRequestSent      = "fileRequestSent"
	EventFileRequestError     = "fileRequestError"
	EventFileRequested        = "fileRequested"
	EventFileReceived         = "fileReceived"
	EventTransferDenied       = "transferDenied"
	EventFileRequestWithdrawn = "fileRequestWithdrawn"
	EventSendError            = "sendError"
	EventCountsUpdated        = "countsUpdated"
	EventQuotaExceeded        = "quotaExceeded"
	EventComplaintAck         = "complaintAcknowledgment"
	EventComplaintsList       = "complaintsList"
	EventNewComplaint         = "newComplaint"
	EventComplaintUpdated     = "complaintUpdated"
	EventComplaintError       = "complaintError"
)

// Envelope is the wire format for every message on the event channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// --- Client payloads ---

type RegisterPayload struct {
	Identity string `json:"identity"`
}

type UploadFilePayload struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Payload []byte `json:"payload"` // base64 over the wire
}

type ListPeerFilesPayload struct {
	PeerID string `json:"peerId"`
}

type RequestFilePayload struct {
	PeerID string `json:"peerId"`
	FileID string `json:"fileId"`
}

type ResolveTransferPayload struct {
	RequesterID string `json:"requesterId"`
	FileID      string `json:"fileId"`
	Decision    string `json:"decision"` // "approve" or "deny"
}

type SubmitCountPayload struct {
	Category domain.FeedbackCategory `json:"category"`
}

type SubmitComplaintPayload struct {
	Username    string `json:"username"`
	RoomNumber  string `json:"roomNumber"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// --- Server payloads ---

type ErrorPayload struct {
	Reason string `json:"reason"`
}

type PeerListPayload struct {
	Peers []domain.Peer `json:"peers"`
}

type PeerFilesPayload struct {
	PeerID string            `json:"peerId"`
	Files  []domain.FileMeta `json:"files"`
}

type UploadSucceededPayload struct {
	File domain.FileMeta `json:"file"`
}

type FileRequestSentPayload struct {
	PeerID string `json:"peerId"`
	FileID string `json:"fileId"`
}

// FileRequestedPayload is addressed to the file owner only.
type FileRequestedPayload struct {
	RequesterID string `json:"requesterId"`
	Requester   string `json:"requester"` // Requester's identity
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
}

// FileReceivedPayload carries the actual file payload. It is addressed to
// the single approved requester and is never broadcast.
type FileReceivedPayload struct {
	File ReceivedFile `json:"file"`
}

type ReceivedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Data []byte `json:"data"`
}

type TransferDeniedPayload struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	Reason   string `json:"reason"` // "denied", "expired", "peer disconnected"
}

type FileRequestWithdrawnPayload struct {
	RequesterID string `json:"requesterId"`
	FileID      string `json:"fileId"`
}

type CountsUpdatedPayload struct {
	Counts domain.FeedbackCounts `json:"counts"`
}

type QuotaExceededPayload struct {
	Reason    string `json:"reason"`
	Remaining int    `json:"remaining"`
}

type ComplaintAckPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
