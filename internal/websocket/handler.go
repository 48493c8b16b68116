// internal/websocket/handler.go
package websocket

import (
	"context"
	"encoding/json"
	"sort"

	wstypes "omnia-service/internal/domain/websocket"
)

// MessageHandler serves client events beyond the built-in ones.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry maps event types to handlers. The last registration
// for an event wins.
type HandlerRegistry struct {
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

func (r *HandlerRegistry) Register(handler MessageHandler) {
	for _, eventType := range handler.SupportedEvents() {
		r.handlers[eventType] = handler
	}
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	handler, exists := r.handlers[eventType]
	return handler, exists
}

// Events lists the registered event types in order.
func (r *HandlerRegistry) Events() []string {
	out := make([]string, 0, len(r.handlers))
	for e := range r.handlers {
		out = append(out, string(e))
	}
	sort.Strings(out)
	return out
}

// DecodeData re-encodes a generic message payload into a typed request.
func DecodeData(data interface{}, target interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
