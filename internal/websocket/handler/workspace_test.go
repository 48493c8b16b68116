package handlers

import (
	"context"
	"testing"

	"omnia-service/internal/domain/business"
	wstypes "omnia-service/internal/domain/websocket"
	ws "omnia-service/internal/websocket"
	"omnia-service/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWorkspaceHandler_GetSubscribes(t *testing.T) {
	ctx := context.Background()
	store := workspace.NewMemoryStore()
	require.NoError(t, store.SaveProfile(ctx, "b-1", business.Profile{Name: "Bar Sol"}))

	hub := ws.NewHub(nil, zap.NewNop())
	h := NewWorkspaceHandler(store)
	hub.RegisterHandler(h)
	client := ws.NewClient(hub, nil, &ws.ClientAuth{UserID: "u1"})

	handled, err := hub.HandleClientMessage(ctx, client,
		wstypes.NewMessage(wstypes.EventTypeWorkspaceGet, map[string]interface{}{"business_id": "b-1"}))

	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, client.IsSubscribed("b-1"))
	assert.Equal(t, []string{string(wstypes.EventTypeWorkspaceGet)}, hub.HandledEvents())
}

func TestWorkspaceHandler_RequiresBusinessID(t *testing.T) {
	hub := ws.NewHub(nil, zap.NewNop())
	client := ws.NewClient(hub, nil, &ws.ClientAuth{UserID: "u1"})

	err := NewWorkspaceHandler(workspace.NewMemoryStore()).HandleMessage(context.Background(), client,
		wstypes.NewMessage(wstypes.EventTypeWorkspaceGet, map[string]interface{}{}))

	assert.NoError(t, err)
	assert.False(t, client.IsSubscribed(""))
}
