// internal/websocket/handler/workspace.go
package handlers

import (
	"context"
	"fmt"

	wstypes "omnia-service/internal/domain/websocket"
	ws "omnia-service/internal/websocket"
	"omnia-service/internal/workspace"
)

// WorkspaceHandler answers workspace:get with the business's current
// snapshot and subscribes the client to its updates.
type WorkspaceHandler struct {
	store workspace.Store
}

func NewWorkspaceHandler(store workspace.Store) *WorkspaceHandler {
	return &WorkspaceHandler{store: store}
}

func (h *WorkspaceHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeWorkspaceGet}
}

func (h *WorkspaceHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeWorkspaceGet:
		return h.handleGet(ctx, client, msg)
	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *WorkspaceHandler) handleGet(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req wstypes.WorkspaceRequest
	if err := ws.DecodeData(msg.Data, &req); err != nil || req.BusinessID == "" {
		client.SendError("invalid_request", "business_id is required", "")
		return nil
	}

	snap, err := h.store.Get(ctx, req.BusinessID)
	if err != nil {
		client.SendError("workspace_failed", "Failed to load workspace", err.Error())
		return err
	}

	client.Subscribe(req.BusinessID)
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeWorkspace, snap))
	return nil
}
