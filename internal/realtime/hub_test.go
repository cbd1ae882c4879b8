package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToEveryClient(t *testing.T) {
	hub := NewHub()
	a := &client{send: make(chan []byte, clientSendBuffer)}
	b := &client{send: make(chan []byte, clientSendBuffer)}
	hub.add(a)
	hub.add(b)

	feed := NewLoanFeed(hub)
	feed.LoanChanged("INSERT", 42)

	for _, c := range []*client{a, b} {
		var e Envelope
		require.NoError(t, json.Unmarshal(<-c.send, &e))
		require.Equal(t, "loans", e.Collection)
		require.Equal(t, "INSERT", e.Event)
		require.Equal(t, uint64(42), e.ID)
		require.False(t, e.Timestamp.IsZero())
	}
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &client{send: make(chan []byte)} // no buffer, nobody reading
	ok := &client{send: make(chan []byte, clientSendBuffer)}
	hub.add(slow)
	hub.add(ok)

	hub.Broadcast(Envelope{Collection: "loans", Event: "UPDATE", ID: 1})

	hub.mu.Lock()
	_, slowStillThere := hub.clients[slow]
	_, okStillThere := hub.clients[ok]
	hub.mu.Unlock()

	require.False(t, slowStillThere, "a client with a full buffer is evicted")
	require.True(t, okStillThere)

	// The evicted client's channel is closed so its writePump exits.
	_, open := <-slow.send
	require.False(t, open)
}

func TestRemoveIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &client{send: make(chan []byte, 1)}
	hub.add(c)
	hub.remove(c)
	hub.remove(c)

	hub.mu.Lock()
	n := len(hub.clients)
	hub.mu.Unlock()
	require.Zero(t, n)
}
