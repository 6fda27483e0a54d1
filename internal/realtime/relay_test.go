package realtime

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"hostelhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxFileSize = 1024

func newTestRelay(t *testing.T, ttl time.Duration) (*Relay, *Registry) {
	t.Helper()
	registry := NewRegistry()
	relay := NewRelay(registry, testMaxFileSize, ttl)
	return relay, registry
}

func registerPeer(t *testing.T, registry *Registry, connID, identity string) {
	t.Helper()
	_, err := registry.Register(connID, identity)
	require.NoError(t, err)
}

func TestRelayUpload(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "notes.pdf", record.Name)
	assert.Equal(t, int64(7), record.Size)
	assert.Equal(t, "owner", record.OwnerID)
	assert.Equal(t, 1, relay.FileCount("owner"))
}

func TestRelayUploadRequiresRegistration(t *testing.T) {
	relay, _ := newTestRelay(t, 0)

	_, err := relay.Upload("ghost", "notes.pdf", []byte("payload"))
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRelayUploadValidation(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")

	_, err := relay.Upload("owner", "", []byte("payload"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = relay.Upload("owner", "notes.pdf", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooBig := make([]byte, testMaxFileSize+1)
	_, err = relay.Upload("owner", "big.bin", tooBig)
	assert.ErrorIs(t, err, ErrSizeExceeded)

	assert.Equal(t, 0, relay.FileCount("owner"))
}

func TestRelayPeerFilesReturnsMetadataOnly(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)

	files, err := relay.PeerFiles("owner")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, record.ID, files[0].ID)
	assert.Equal(t, "notes.pdf", files[0].Name)
	assert.Equal(t, int64(7), files[0].Size)
}

func TestRelayPeerFilesUnknownPeer(t *testing.T) {
	relay, _ := newTestRelay(t, 0)

	_, err := relay.PeerFiles("ghost")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestRelayRequestTransfer(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)

	transfer, err := relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferRequested, transfer.State)
	assert.Equal(t, "notes.pdf", transfer.FileName)

	pending, ok := relay.Transfer("req", record.ID)
	require.True(t, ok)
	assert.Equal(t, domain.TransferRequested, pending.State)
}

func TestRelayRequestTransferErrors(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "other", "carol")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)

	_, err = relay.RequestTransfer("ghost", "owner", record.ID)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = relay.RequestTransfer("req", "ghost", record.ID)
	assert.ErrorIs(t, err, ErrPeerOffline)

	_, err = relay.RequestTransfer("req", "owner", "no-such-file")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = relay.RequestTransfer("req", "other", record.ID)
	assert.ErrorIs(t, err, ErrOwnerMismatch)
}

func TestRelayResolveApprove(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	relayed, transfer, err := relay.ResolveTransfer("owner", "req", record.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferCompleted, transfer.State)
	assert.Equal(t, []byte("payload"), relayed.Data)

	// The handshake is one-shot.
	_, _, err = relay.ResolveTransfer("owner", "req", record.ID, true)
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestRelayResolveDeny(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	relayed, transfer, err := relay.ResolveTransfer("owner", "req", record.ID, false)
	require.NoError(t, err)
	assert.Nil(t, relayed)
	assert.Equal(t, domain.TransferDenied, transfer.State)
}

func TestRelayResolveOnlyByOwner(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")
	registerPeer(t, registry, "intruder", "mallory")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	_, _, err = relay.ResolveTransfer("intruder", "req", record.ID, true)
	assert.ErrorIs(t, err, ErrNotOwner)

	// The real owner can still resolve afterwards.
	_, _, err = relay.ResolveTransfer("owner", "req", record.ID, true)
	assert.NoError(t, err)
}

func TestRelayResolveUnknownTransfer(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")

	_, _, err := relay.ResolveTransfer("owner", "req", "no-such-file", true)
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestRelayApproveAfterFileVanished(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "other", "carol")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	// Drop the backing file out from under the pending transfer.
	relay.mu.Lock()
	delete(relay.files, record.ID)
	relay.mu.Unlock()

	relayed, transfer, err := relay.ResolveTransfer("owner", "req", record.ID, true)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Nil(t, relayed)
	// The transfer resolves to Expired instead of silently hanging.
	assert.Equal(t, domain.TransferExpired, transfer.State)
	_, ok := relay.Transfer("req", record.ID)
	assert.False(t, ok)
}

func TestRelayPurgePeerRemovesFilesAndExpiresTransfers(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	expired := relay.PurgePeer("owner")
	require.Len(t, expired, 1)
	assert.Equal(t, domain.TransferExpired, expired[0].State)
	assert.Equal(t, "req", expired[0].RequesterID)

	assert.Equal(t, 0, relay.FileCount("owner"))
	_, ok := relay.Transfer("req", record.ID)
	assert.False(t, ok)

	// Former owner unregisters; lookups now fail with PeerNotFound.
	registry.Remove("owner")
	_, err = relay.PeerFiles("owner")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestRelayPurgePeerExpiresOutboundRequests(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	// The requester disconnects; its pending request is withdrawn but the
	// owner's file stays.
	expired := relay.PurgePeer("req")
	require.Len(t, expired, 1)
	assert.Equal(t, "owner", expired[0].OwnerID)
	assert.Equal(t, 1, relay.FileCount("owner"))
}

func TestRelayUploadAfterTeardown(t *testing.T) {
	relay, registry := newTestRelay(t, 0)
	registerPeer(t, registry, "owner", "alice")

	_, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)

	// Disconnect teardown order: unregister first, then purge.
	registry.Remove("owner")
	relay.PurgePeer("owner")

	_, err = relay.Upload("owner", "late.pdf", []byte("payload"))
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, 0, relay.FileCount("owner"))
}

func TestRelayUploadRacesTeardown(t *testing.T) {
	relay, registry := newTestRelay(t, 0)

	for i := 0; i < 20; i++ {
		connID := fmt.Sprintf("conn-%d", i)
		registerPeer(t, registry, connID, "alice")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			relay.Upload(connID, "notes.pdf", []byte("payload"))
		}()
		go func() {
			defer wg.Done()
			registry.Remove(connID)
			relay.PurgePeer(connID)
		}()
		wg.Wait()

		// Whatever the interleaving, the upload either landed before the
		// purge (and was swept with it) or failed the liveness check; no
		// file may outlive its owner.
		assert.Equal(t, 0, relay.FileCount(connID))
	}
}

func TestRelayRequestExpiresAfterTTL(t *testing.T) {
	relay, registry := newTestRelay(t, 20*time.Millisecond)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	expiredCh := make(chan domain.PendingTransfer, 1)
	relay.OnExpire(func(tr domain.PendingTransfer) {
		expiredCh <- tr
	})

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	select {
	case tr := <-expiredCh:
		assert.Equal(t, domain.TransferExpired, tr.State)
		assert.Equal(t, record.ID, tr.FileID)
	case <-time.After(time.Second):
		t.Fatal("transfer never expired")
	}

	_, _, err = relay.ResolveTransfer("owner", "req", record.ID, true)
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestRelayResolveStopsExpiryTimer(t *testing.T) {
	relay, registry := newTestRelay(t, 30*time.Millisecond)
	registerPeer(t, registry, "owner", "alice")
	registerPeer(t, registry, "req", "bob")

	expiredCh := make(chan domain.PendingTransfer, 1)
	relay.OnExpire(func(tr domain.PendingTransfer) {
		expiredCh <- tr
	})

	record, err := relay.Upload("owner", "notes.pdf", []byte("payload"))
	require.NoError(t, err)
	_, err = relay.RequestTransfer("req", "owner", record.ID)
	require.NoError(t, err)

	_, _, err = relay.ResolveTransfer("owner", "req", record.ID, true)
	require.NoError(t, err)

	select {
	case <-expiredCh:
		t.Fatal("resolved transfer must not expire")
	case <-time.After(100 * time.Millisecond):
	}
}
