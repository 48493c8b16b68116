package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	wstypes "omnia-service/internal/domain/websocket"
	"omnia-service/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, c *Client) *wstypes.WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		msg, err := wstypes.ParseMessage(data)
		require.NoError(t, err)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func startHub(t *testing.T, verifier *jwt.Verifier) *Hub {
	t.Helper()
	hub := NewHub(verifier, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()
	c := NewClient(hub, nil, &ClientAuth{UserID: userID})
	hub.Register <- c
	assert.Equal(t, wstypes.EventTypeConnected, receive(t, c).Type)
	return c
}

func TestHub_BroadcastToBusinessReachesSubscribersOnly(t *testing.T) {
	hub := startHub(t, nil)
	follower := connect(t, hub, "u1")
	other := connect(t, hub, "u2")

	follower.Subscribe("b1")
	other.Subscribe("b2")
	assert.Equal(t, 1, hub.Subscribers("b1"))

	hub.BroadcastToBusiness("b1", wstypes.EventTypeStrategyGenerated, wstypes.GenerationData{BusinessID: "b1", Token: 3})

	msg := receive(t, follower)
	assert.Equal(t, wstypes.EventTypeStrategyGenerated, msg.Type)

	var data wstypes.GenerationData
	require.NoError(t, DecodeData(msg.Data, &data))
	assert.Equal(t, uint64(3), data.Token)

	select {
	case <-other.send:
		t.Fatal("non-subscriber received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClient_SubscribeMessage(t *testing.T) {
	hub := startHub(t, nil)
	c := connect(t, hub, "u1")

	raw, err := json.Marshal(wstypes.NewMessage(wstypes.EventTypeSubscribe, wstypes.SubscribeRequest{BusinessIDs: []string{"b1", "b2"}}))
	require.NoError(t, err)
	c.handleMessage(raw)

	ack := receive(t, c)
	assert.Equal(t, wstypes.EventTypeSubscribe, ack.Type)
	assert.True(t, c.IsSubscribed("b1"))
	assert.True(t, c.IsSubscribed("b2"))

	raw, err = json.Marshal(wstypes.NewMessage(wstypes.EventTypeUnsubscribe, wstypes.UnsubscribeRequest{BusinessIDs: []string{"b1"}}))
	require.NoError(t, err)
	c.handleMessage(raw)
	receive(t, c)
	assert.False(t, c.IsSubscribed("b1"))
}

func TestClient_PingAndGarbage(t *testing.T) {
	hub := startHub(t, nil)
	c := connect(t, hub, "u1")

	c.handleMessage([]byte(`{"type":"ping"}`))
	assert.Equal(t, wstypes.EventTypePong, receive(t, c).Type)

	c.handleMessage([]byte(`not json`))
	assert.Equal(t, wstypes.EventTypeError, receive(t, c).Type)
}

type echoHandler struct{ seen chan wstypes.EventType }

func (h *echoHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeWorkspaceGet}
}

func (h *echoHandler) HandleMessage(_ context.Context, _ *Client, msg *wstypes.WSMessage) error {
	h.seen <- msg.Type
	return nil
}

func TestHub_RegisteredHandlerTakesPrecedence(t *testing.T) {
	hub := startHub(t, nil)
	h := &echoHandler{seen: make(chan wstypes.EventType, 1)}
	hub.RegisterHandler(h)
	c := connect(t, hub, "u1")

	c.handleMessage([]byte(`{"type":"workspace:get","data":{"business_id":"b1"}}`))
	assert.Equal(t, wstypes.EventTypeWorkspaceGet, <-h.seen)
}

func TestHub_AuthenticateClient(t *testing.T) {
	anon, err := NewHub(nil, zap.NewNop()).AuthenticateClient("")
	require.NoError(t, err)
	assert.Equal(t, "anonymous", anon.UserID)

	hub := NewHub(jwt.NewVerifier("s3cret", ""), zap.NewNop())
	_, err = hub.AuthenticateClient("")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = hub.AuthenticateClient("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, _, err := jwt.NewGenerator("s3cret", "", time.Hour).Generate("user-9", "x@y.es", nil)
	require.NoError(t, err)
	auth, err := hub.AuthenticateClient(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", auth.UserID)
}

func TestHub_UnregisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		hub.Unregister(NewClient(hub, nil, &ClientAuth{UserID: "u"}))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after hub stopped")
	}
}
