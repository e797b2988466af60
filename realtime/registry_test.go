package realtime

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	closed bool
	readCh chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{readCh: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.readCh
	return 0, nil, fmt.Errorf("connection closed")
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error { return nil }
func (f *fakeConn) SetReadLimit(limit int64)                        {}
func (f *fakeConn) SetReadDeadline(t time.Time) error               { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error              { return nil }
func (f *fakeConn) SetPongHandler(h func(appData string) error)     {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.readCh)
	}
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// drain reads every payload currently buffered for the client.
func drain(c *Client) [][]byte {
	payloads := make([][]byte, 0)
	for {
		select {
		case p, ok := <-c.send:
			if !ok {
				return payloads
			}
			payloads = append(payloads, p)
		default:
			return payloads
		}
	}
}

func TestRegistry_SendToUserDeliversToEveryChannel(t *testing.T) {
	r := NewRegistry()
	c1 := NewClient("bob", newFakeConn())
	c2 := NewClient("bob", newFakeConn())
	r.Register(c1)
	r.Register(c2)

	r.SendToUser("bob", []byte("hello"))

	require.Len(t, drain(c1), 1)
	require.Len(t, drain(c2), 1)
}

func TestRegistry_DeregisterLeavesRemainingChannels(t *testing.T) {
	r := NewRegistry()
	c1 := NewClient("bob", newFakeConn())
	c2 := NewClient("bob", newFakeConn())
	r.Register(c1)
	r.Register(c2)

	r.Deregister(c1)
	r.SendToUser("bob", []byte("hello"))

	assert.Empty(t, drain(c1))
	require.Len(t, drain(c2), 1)
	assert.Equal(t, 1, r.CountForUser("bob"))
}

func TestRegistry_SendToUnknownUserIsNoOp(t *testing.T) {
	r := NewRegistry()
	// must not panic or error
	r.SendToUser("nobody", []byte("hello"))
	assert.Equal(t, 0, r.CountForUser("nobody"))
}

func TestRegistry_DeregisterUnknownClientIsNoOp(t *testing.T) {
	r := NewRegistry()
	registered := NewClient("bob", newFakeConn())
	r.Register(registered)

	stranger := NewClient("bob", newFakeConn())
	r.Deregister(stranger)
	// double deregistration of the same client is also fine
	r.Deregister(stranger)

	assert.Equal(t, 1, r.CountForUser("bob"))
}

func TestRegistry_EmptyUserEntryIsRemoved(t *testing.T) {
	r := NewRegistry()
	c := NewClient("bob", newFakeConn())
	r.Register(c)
	r.Deregister(c)

	r.mu.RLock()
	_, exists := r.clients["bob"]
	r.mu.RUnlock()
	assert.False(t, exists, "empty channel set should be removed from the table")
}

func TestRegistry_DeregisterClosesConnection(t *testing.T) {
	r := NewRegistry()
	conn := newFakeConn()
	c := NewClient("bob", conn)
	r.Register(c)

	r.Deregister(c)
	assert.True(t, conn.isClosed())
}

func TestRegistry_FailingChannelDoesNotBlockOthers(t *testing.T) {
	r := NewRegistry()
	stalled := NewClient("bob", newFakeConn())
	healthy := NewClient("bob", newFakeConn())
	r.Register(stalled)
	r.Register(healthy)

	// Fill the stalled client's buffer so the next enqueue fails.
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, stalled.enqueue([]byte("backlog")))
	}

	r.SendToUser("bob", []byte("hello"))

	// The healthy channel still got the payload and the stalled one is gone.
	require.Len(t, drain(healthy), 1)
	assert.Equal(t, 1, r.CountForUser("bob"))
}

func TestRegistry_BroadcastReachesEveryUser(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("alice", newFakeConn())
	bob1 := NewClient("bob", newFakeConn())
	bob2 := NewClient("bob", newFakeConn())
	r.Register(alice)
	r.Register(bob1)
	r.Register(bob2)

	r.Broadcast([]byte("maintenance window"))

	require.Len(t, drain(alice), 1)
	require.Len(t, drain(bob1), 1)
	require.Len(t, drain(bob2), 1)
}

func TestRegistry_ConcurrentChurnAndDelivery(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%4)
			c := NewClient(user, newFakeConn())
			r.Register(c)
			r.SendToUser(user, []byte("payload"))
			r.Broadcast([]byte("all"))
			r.Deregister(c)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, r.CountForUser(fmt.Sprintf("user-%d", i)))
	}
}

func TestClient_EnqueueAfterCloseFails(t *testing.T) {
	c := NewClient("bob", newFakeConn())
	c.Close()
	assert.Error(t, c.enqueue([]byte("late")))
	// Close twice must not panic
	c.Close()
}
