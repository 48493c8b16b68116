// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"

	// Workspace events (server -> client)
	EventTypeStrategyGenerated EventType = "strategy:generated"
	EventTypePlanGenerated     EventType = "plan:generated"
	EventTypeBusinessUpdated   EventType = "business:updated"
	EventTypeBusinessDeleted   EventType = "business:deleted"

	// Workspace requests (client -> server)
	EventTypeWorkspaceGet EventType = "workspace:get"
	EventTypeWorkspace    EventType = "workspace"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// SubscribeRequest sent by client to follow one or more businesses
type SubscribeRequest struct {
	BusinessIDs []string `json:"business_ids"`
}

type UnsubscribeRequest struct {
	BusinessIDs []string `json:"business_ids"`
}

type WorkspaceRequest struct {
	BusinessID string `json:"business_id"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// GenerationData accompanies strategy:generated and plan:generated.
type GenerationData struct {
	BusinessID string      `json:"business_id"`
	Token      uint64      `json:"token"`
	Source     string      `json:"source"`
	Payload    interface{} `json:"payload"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
