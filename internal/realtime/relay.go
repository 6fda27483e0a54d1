package realtime

import (
	"sync"
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
)

// transferKey identifies one requester/file negotiation. A requester can
// have at most one pending request per file.
func transferKey(requesterID, fileID string) string {
	return requesterID + "/" + fileID
}

// Relay holds uploaded file payloads in volatile memory and runs the
// request -> approve/deny -> relay handshake between two live connections.
// Payloads are never persisted and never broadcast; they move to exactly
// one requester after explicit owner approval.
type Relay struct {
	registry *Registry

	maxFileSize int64
	requestTTL  time.Duration

	mu        sync.Mutex
	files     map[string]*domain.FileRecord       // file id -> record
	byOwner   map[string]map[string]struct{}      // conn id -> owned file ids
	transfers map[string]*domain.PendingTransfer  // transferKey -> transfer
	timers    map[string]*time.Timer              // transferKey -> expiry timer

	// onExpire is invoked (outside the lock) when a Requested transfer
	// times out, so the gateway can notify the waiting requester.
	onExpire func(t domain.PendingTransfer)
}

// NewRelay creates a relay backed by the given registry. requestTTL bounds
// how long a transfer request may stay unresolved; zero disables expiry.
func NewRelay(registry *Registry, maxFileSize int64, requestTTL time.Duration) *Relay {
	return &Relay{
		registry:    registry,
		maxFileSize: maxFileSize,
		requestTTL:  requestTTL,
		files:       make(map[string]*domain.FileRecord),
		byOwner:     make(map[string]map[string]struct{}),
		transfers:   make(map[string]*domain.PendingTransfer),
		timers:      make(map[string]*time.Timer),
	}
}

// OnExpire installs the expiry callback. Must be set before connections
// start issuing requests.
func (r *Relay) OnExpire(fn func(t domain.PendingTransfer)) {
	r.onExpire = fn
}

// Upload stores a new file record owned by the given connection. The
// liveness check happens under r.mu so it is serialized with PurgePeer: an
// upload racing the owner's disconnect either lands before the purge (and
// is swept with it) or observes the unregistered connection and fails.
func (r *Relay) Upload(connID, name string, data []byte) (*domain.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registry.IsRegistered(connID) {
		return nil, ErrNotRegistered
	}
	if name == "" || len(data) == 0 {
		return nil, ErrInvalidInput
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, ErrSizeExceeded
	}

	record := &domain.FileRecord{
		ID:         uuid.NewString(),
		Name:       name,
		Size:       int64(len(data)),
		Data:       data,
		OwnerID:    connID,
		UploadedAt: time.Now().UTC(),
	}

	r.files[record.ID] = record
	owned, ok := r.byOwner[connID]
	if !ok {
		owned = make(map[string]struct{})
		r.byOwner[connID] = owned
	}
	owned[record.ID] = struct{}{}

	return record, nil
}

// FileCount reports how many files a connection currently owns.
func (r *Relay) FileCount(connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byOwner[connID])
}

// PeerFiles lists the metadata of every file owned by peerID. The payload
// itself is never included.
func (r *Relay) PeerFiles(peerID string) ([]domain.FileMeta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registry.IsRegistered(peerID) {
		return nil, ErrPeerNotFound
	}

	files := make([]domain.FileMeta, 0, len(r.byOwner[peerID]))
	for fileID := range r.byOwner[peerID] {
		if record, ok := r.files[fileID]; ok {
			files = append(files, record.Meta())
		}
	}
	return files, nil
}

// RequestTransfer opens a Requested transfer for (requesterID, fileID) and
// returns it. Re-requesting the same file resets the pending request and
// its expiry timer.
func (r *Relay) RequestTransfer(requesterID, ownerID, fileID string) (domain.PendingTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registry.IsRegistered(requesterID) {
		return domain.PendingTransfer{}, ErrNotRegistered
	}
	if !r.registry.IsRegistered(ownerID) {
		return domain.PendingTransfer{}, ErrPeerOffline
	}

	record, ok := r.files[fileID]
	if !ok {
		return domain.PendingTransfer{}, ErrFileNotFound
	}
	if record.OwnerID != ownerID {
		return domain.PendingTransfer{}, ErrOwnerMismatch
	}

	key := transferKey(requesterID, fileID)
	transfer := &domain.PendingTransfer{
		RequesterID: requesterID,
		OwnerID:     ownerID,
		FileID:      fileID,
		FileName:    record.Name,
		State:       domain.TransferRequested,
		RequestedAt: time.Now().UTC(),
	}
	r.transfers[key] = transfer
	r.armExpiryLocked(key)

	return *transfer, nil
}

// ResolveTransfer lets the file owner approve or deny a pending request.
// On approve it returns the file record to relay to the requester and
// marks the transfer Completed; the relay is a single atomic send, so
// there is no observable Approved-but-incomplete window.
func (r *Relay) ResolveTransfer(ownerID, requesterID, fileID string, approve bool) (*domain.FileRecord, domain.PendingTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := transferKey(requesterID, fileID)
	transfer, ok := r.transfers[key]
	if !ok || transfer.State != domain.TransferRequested {
		return nil, domain.PendingTransfer{}, ErrTransferNotFound
	}
	if transfer.OwnerID != ownerID {
		return nil, domain.PendingTransfer{}, ErrNotOwner
	}

	r.dropTransferLocked(key)

	if !approve {
		transfer.State = domain.TransferDenied
		return nil, *transfer, nil
	}

	record, ok := r.files[fileID]
	if !ok {
		// The file vanished between request and approval; the transfer
		// must not silently hang, so it resolves to Expired.
		transfer.State = domain.TransferExpired
		return nil, *transfer, ErrFileNotFound
	}

	transfer.State = domain.TransferCompleted
	return record, *transfer, nil
}

// PurgePeer removes every file owned by the disconnecting connection and
// expires every pending transfer it participates in, as requester or
// owner. The expired transfers are returned so the gateway can notify the
// surviving counterparts.
func (r *Relay) PurgePeer(connID string) []domain.PendingTransfer {
	r.mu.Lock()
	defer r.mu.Unlock()

	for fileID := range r.byOwner[connID] {
		delete(r.files, fileID)
	}
	delete(r.byOwner, connID)

	var expired []domain.PendingTransfer
	for key, transfer := range r.transfers {
		if transfer.RequesterID != connID && transfer.OwnerID != connID {
			continue
		}
		r.dropTransferLocked(key)
		transfer.State = domain.TransferExpired
		expired = append(expired, *transfer)
	}
	return expired
}

// armExpiryLocked starts (or restarts) the TTL timer for a transfer key.
// Caller must hold r.mu.
func (r *Relay) armExpiryLocked(key string) {
	if timer, ok := r.timers[key]; ok {
		timer.Stop()
		delete(r.timers, key)
	}
	if r.requestTTL <= 0 {
		return
	}
	r.timers[key] = time.AfterFunc(r.requestTTL, func() {
		r.expire(key)
	})
}

// dropTransferLocked removes a transfer and stops its timer.
// Caller must hold r.mu.
func (r *Relay) dropTransferLocked(key string) {
	delete(r.transfers, key)
	if timer, ok := r.timers[key]; ok {
		timer.Stop()
		delete(r.timers, key)
	}
}

// expire resolves a transfer that the owner never answered within the TTL.
func (r *Relay) expire(key string) {
	r.mu.Lock()
	transfer, ok := r.transfers[key]
	if !ok || transfer.State != domain.TransferRequested {
		r.mu.Unlock()
		return
	}
	r.dropTransferLocked(key)
	transfer.State = domain.TransferExpired
	expired := *transfer
	onExpire := r.onExpire
	r.mu.Unlock()

	if onExpire != nil {
		onExpire(expired)
	}
}

// Transfer returns the current state of a pending transfer, if present.
func (r *Relay) Transfer(requesterID, fileID string) (domain.PendingTransfer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transfer, ok := r.transfers[transferKey(requesterID, fileID)]
	if !ok {
		return domain.PendingTransfer{}, false
	}
	return *transfer, true
}
