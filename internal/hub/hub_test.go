package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loadsmile/AIchatbot/internal/config"
	"github.com/loadsmile/AIchatbot/internal/domain"
)

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		WriteWait:      time.Second,
		PongWait:       2 * time.Second,
		PingInterval:   time.Second,
		MaxMessageSize: 4096,
	}
}

// fakeClient builds a registered client without a live websocket; Send
// is drained directly instead of through WritePump.
func fakeClient(h *Hub, id string) *Client {
	c := NewClient(id, h, nil, testWSConfig())
	h.Register(c)
	return c
}

func recvEnvelope(t *testing.T, c *Client) domain.Envelope {
	t.Helper()
	select {
	case payload := <-c.Send:
		var env domain.Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no message on send channel")
		return domain.Envelope{}
	}
}

func Test_Send_Reaches_Single_Client(t *testing.T) {
	req := require.New(t)
	h := NewHub(testWSConfig())

	c := fakeClient(h, "c1")
	req.NoError(h.Send("c1", domain.EventMessage, map[string]string{"text": "hello"}))

	env := recvEnvelope(t, c)
	req.Equal(domain.EventMessage, env.Event)
}

func Test_Send_Unknown_Client(t *testing.T) {
	h := NewHub(testWSConfig())
	err := h.Send("ghost", domain.EventMessage, nil)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func Test_Broadcast_Reaches_Room_Members_Only(t *testing.T) {
	req := require.New(t)
	h := NewHub(testWSConfig())
	go h.Run()
	defer h.Close()

	inRoom := fakeClient(h, "c1")
	alsoIn := fakeClient(h, "c2")
	outside := fakeClient(h, "c3")

	h.JoinRoom("c1", "support")
	h.JoinRoom("c2", "support")
	h.JoinRoom("c3", "sales")

	req.NoError(h.Broadcast("support", domain.EventMessage, map[string]string{"text": "hi"}))

	for _, c := range []*Client{inRoom, alsoIn} {
		env := recvEnvelope(t, c)
		req.Equal(domain.EventMessage, env.Event)
	}

	select {
	case <-outside.Send:
		t.Fatal("broadcast leaked outside the room")
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Leave_Room_Stops_Broadcast_Delivery(t *testing.T) {
	req := require.New(t)
	h := NewHub(testWSConfig())
	go h.Run()
	defer h.Close()

	stays := fakeClient(h, "c1")
	leaves := fakeClient(h, "c2")
	h.JoinRoom("c1", "support")
	h.JoinRoom("c2", "support")
	h.LeaveRoom("c2", "support")

	req.NoError(h.Broadcast("support", domain.EventMessage, "hi"))
	recvEnvelope(t, stays)

	select {
	case <-leaves.Send:
		t.Fatal("delivery after leaving the room")
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Unregister_Closes_Send_Channel(t *testing.T) {
	req := require.New(t)
	h := NewHub(testWSConfig())

	c := fakeClient(h, "c1")
	h.JoinRoom("c1", "support")
	h.Unregister(c)

	_, open := <-c.Send
	req.False(open)
	req.ErrorIs(h.Send("c1", domain.EventMessage, nil), ErrClientNotFound)

	// Unregister is idempotent.
	h.Unregister(c)
}

func Test_Broadcast_After_Close_Returns_Error(t *testing.T) {
	req := require.New(t)
	h := NewHub(testWSConfig())
	go h.Run()

	fakeClient(h, "c1")
	h.JoinRoom("c1", "support")

	h.Close()
	// Close is idempotent and a late broadcast fails instead of
	// panicking on the closed pump channel.
	h.Close()
	req.ErrorIs(h.Broadcast("support", domain.EventMessage, "late"), ErrHubClosed)
}

func Test_Slow_Consumer_Dropped(t *testing.T) {
	req := require.New(t)
	h := NewHub(testWSConfig())

	c := NewClient("c1", h, nil, testWSConfig())
	c.Send = make(chan []byte, 1)
	h.Register(c)

	req.NoError(c.SendEvent(domain.EventMessage, "first"))
	err := c.SendEvent(domain.EventMessage, "second")
	req.ErrorIs(err, ErrSlowConsumer)

	req.Eventually(func() bool {
		return h.Send("c1", domain.EventMessage, nil) == ErrClientNotFound
	}, 2*time.Second, 10*time.Millisecond)
}
