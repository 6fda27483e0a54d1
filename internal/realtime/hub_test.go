package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainEvent pops the next queued message off a connection's outbound
// buffer and decodes the envelope.
func drainEvent(t *testing.T, c *Conn) Envelope {
	t.Helper()
	select {
	case msg := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(msg, &env))
		return env
	default:
		t.Fatalf("connection %s has no queued event", c.ID)
		return Envelope{}
	}
}

func TestHubSendToPreservesPublishOrder(t *testing.T) {
	h := NewHub()
	c := newConn("conn-1", nil)
	h.attach(c)

	h.SendTo("conn-1", "first", ErrorPayload{Reason: "1"})
	h.SendTo("conn-1", "second", ErrorPayload{Reason: "2"})
	h.SendTo("conn-1", "third", ErrorPayload{Reason: "3"})

	assert.Equal(t, "first", drainEvent(t, c).Event)
	assert.Equal(t, "second", drainEvent(t, c).Event)
	assert.Equal(t, "third", drainEvent(t, c).Event)
}

func TestHubBroadcastReachesAllConnections(t *testing.T) {
	h := NewHub()
	a := newConn("conn-a", nil)
	b := newConn("conn-b", nil)
	h.attach(a)
	h.attach(b)

	h.Broadcast("hello", nil)

	assert.Equal(t, "hello", drainEvent(t, a).Event)
	assert.Equal(t, "hello", drainEvent(t, b).Event)
}

func TestHubSendToDetachedConnectionIsDropped(t *testing.T) {
	h := NewHub()
	c := newConn("conn-1", nil)
	h.attach(c)
	h.detach("conn-1")

	// No panic, no delivery.
	h.SendTo("conn-1", "late", nil)
	assert.Equal(t, 0, h.Len())
}

func TestHubDetachIsIdempotent(t *testing.T) {
	h := NewHub()
	c := newConn("conn-1", nil)
	h.attach(c)

	h.detach("conn-1")
	h.detach("conn-1")
	assert.Equal(t, 0, h.Len())
}

func TestConnEnqueueAfterCloseIsDropped(t *testing.T) {
	c := newConn("conn-1", nil)
	c.close()

	// A publish racing a disconnect must degrade to a dropped message,
	// never a send on a closed channel.
	assert.False(t, c.enqueue([]byte(`{"event":"late"}`)))

	// close is idempotent.
	c.close()
}

func TestHubBroadcastDuringDetachDoesNotPanic(t *testing.T) {
	h := NewHub()
	const nConns = 32
	for i := 0; i < nConns; i++ {
		c := newConn(fmt.Sprintf("conn-%d", i), nil)
		h.attach(c)
	}

	// One goroutine keeps publishing while another runs the disconnect
	// cascade over every connection.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.Broadcast("tick", nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < nConns; i++ {
			h.detach(fmt.Sprintf("conn-%d", i))
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, h.Len())
}

func TestHubDetachesConnectionThatStopsDraining(t *testing.T) {
	h := NewHub()
	c := newConn("conn-1", nil)
	h.attach(c)

	// Fill the outbound buffer without a write pump draining it.
	for i := 0; i < sendBufferSize; i++ {
		h.SendTo("conn-1", "fill", nil)
	}
	require.Equal(t, 1, h.Len())

	// The next publish finds the buffer full and detaches the connection
	// instead of blocking the bus.
	h.Broadcast("overflow", nil)
	assert.Equal(t, 0, h.Len())
}
