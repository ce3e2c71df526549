package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id         string
	borrowerID int32
	messages   [][]byte
	mu         sync.Mutex
	closed     bool
}

func newMockClient(id string, borrowerID int32) *mockClient {
	return &mockClient{
		id:         id,
		borrowerID: borrowerID,
		messages:   make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) BorrowerID() int32 {
	return m.borrowerID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", 1)
	client2 := newMockClient("client-2", 1)
	client3 := newMockClient("client-3", 2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(1))
	assert.Equal(t, 1, hub.ClientCount(2))
	assert.Equal(t, 0, hub.ClientCount(999))

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(1))
	assert.Equal(t, 0, hub.ClientCount(2))
}

func TestHub_Broadcast_BorrowerIsolation(t *testing.T) {
	hub := NewHub()

	// Two connections for borrower 1 (e.g. two browser tabs)
	client1a := newMockClient("client-1a", 1)
	client1b := newMockClient("client-1b", 1)

	// Connection for borrower 2
	client2 := newMockClient("client-2", 2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	evt := LoanCreated(map[string]interface{}{"id": float64(42)})
	hub.Broadcast(1, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	msgs1a := client1a.GetMessages()
	msgs1b := client1b.GetMessages()
	assert.Len(t, msgs1a, 1, "client1a should receive 1 message")
	assert.Len(t, msgs1b, 1, "client1b should receive 1 message")

	// Borrower 2's client should NOT receive the message
	msgs2 := client2.GetMessages()
	assert.Len(t, msgs2, 0, "client2 should not receive borrower 1's event")
}

func TestHub_Broadcast_MultipleFanOut(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient("client-"+string(rune('a'+i)), 1)
		hub.Register(clients[i])
	}

	evt := PaymentRecorded(map[string]interface{}{"id": float64(1)})
	hub.Broadcast(1, evt)

	time.Sleep(10 * time.Millisecond)

	for i, c := range clients {
		msgs := c.GetMessages()
		assert.Len(t, msgs, 1, "client %d should receive message", i)
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient("client-"+string(rune(i)), int32(i%5))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}

	wg.Wait()

	total := 0
	for b := int32(0); b < 5; b++ {
		total += hub.ClientCount(b)
	}
	assert.Equal(t, clientCount, total)

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			evt := PaymentRecorded(map[string]interface{}{"id": float64(idx)})
			hub.Broadcast(int32(idx%5), evt)
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}

	wg.Wait()

	for b := int32(0); b < 5; b++ {
		assert.Equal(t, 0, hub.ClientCount(b))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", 1)

	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastToUnknownBorrower(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		evt := LoanCreated(map[string]interface{}{"id": float64(1)})
		hub.Broadcast(999, evt)
	})
}
