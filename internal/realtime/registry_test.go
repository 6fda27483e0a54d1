package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	peer, err := r.Register("conn-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "conn-1", peer.ConnID)
	assert.Equal(t, "alice", peer.Username)
	assert.True(t, r.IsRegistered("conn-1"))
}

func TestRegistryRegisterEmptyIdentity(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("conn-1", "")
	assert.ErrorIs(t, err, ErrIdentityMissing)
	assert.False(t, r.IsRegistered("conn-1"))
}

func TestRegistryRegisterRebindsIdentity(t *testing.T) {
	r := NewRegistry()

	first, err := r.Register("conn-1", "alice")
	require.NoError(t, err)

	second, err := r.Register("conn-1", "bob")
	require.NoError(t, err)

	assert.Equal(t, "bob", second.Username)
	// Re-binding keeps the original registration time.
	assert.Equal(t, first.RegisteredAt, second.RegisteredAt)
	assert.Len(t, r.List(), 1)
}

func TestRegistryListOrderedByRegistration(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("conn-1", "alice")
	require.NoError(t, err)
	_, err = r.Register("conn-2", "bob")
	require.NoError(t, err)
	_, err = r.Register("conn-3", "carol")
	require.NoError(t, err)

	peers := r.List()
	require.Len(t, peers, 3)
	assert.Equal(t, "alice", peers[0].Username)
	assert.Equal(t, "bob", peers[1].Username)
	assert.Equal(t, "carol", peers[2].Username)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("conn-1", "alice")
	require.NoError(t, err)

	peer, ok := r.Remove("conn-1")
	require.True(t, ok)
	assert.Equal(t, "alice", peer.Username)
	assert.False(t, r.IsRegistered("conn-1"))

	_, ok = r.Remove("conn-1")
	assert.False(t, ok)
}

func TestRegistryIdentity(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Identity("conn-1")
	assert.False(t, ok)

	_, err := r.Register("conn-1", "alice")
	require.NoError(t, err)

	identity, ok := r.Identity("conn-1")
	require.True(t, ok)
	assert.Equal(t, "alice", identity)
}
