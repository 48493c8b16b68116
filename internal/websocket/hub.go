// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "omnia-service/internal/domain/websocket"
	"omnia-service/internal/pkg/jwt"

	"go.uber.org/zap"
)

type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage
	done      chan struct{}

	handlerRegistry *HandlerRegistry

	// nil disables authentication
	jwtVerifier *jwt.Verifier
	logger      *zap.Logger
}

// BroadcastMessage goes to subscribers of BusinessID, or to every client
// when BusinessID is empty.
type BroadcastMessage struct {
	BusinessID string
	Message    *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		done:            make(chan struct{}),
		handlerRegistry: NewHandlerRegistry(),
		jwtVerifier:     jwtVerifier,
		logger:          logger,
	}
}

// AuthenticateClient validates the token. Without a verifier every
// connection is accepted as anonymous.
func (h *Hub) AuthenticateClient(token string) (*ClientAuth, error) {
	if h.jwtVerifier == nil {
		return &ClientAuth{UserID: "anonymous"}, nil
	}
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &ClientAuth{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("user_id", client.userID),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"user_id": client.userID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Close()

		h.logger.Info("websocket client disconnected",
			zap.String("user_id", client.userID),
			zap.Int("total", len(h.clients)),
		)
	}
}

// Unregister removes a client; it does not block once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if msg.BusinessID == "" || client.IsSubscribed(msg.BusinessID) {
			client.SendMessage(msg.Message)
		}
	}
}

// BroadcastToBusiness queues an event for every client following the
// business. Events are dropped when the queue is full.
func (h *Hub) BroadcastToBusiness(businessID string, eventType wstypes.EventType, data interface{}) {
	msg := &BroadcastMessage{
		BusinessID: businessID,
		Message:    wstypes.NewMessage(eventType, data),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("business_id", businessID),
			zap.String("event", string(eventType)),
		)
	}
}

// HandledEvents lists the event types served by registered handlers.
func (h *Hub) HandledEvents() []string {
	return h.handlerRegistry.Events()
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribers counts clients following the business.
func (h *Hub) Subscribers(businessID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.IsSubscribed(businessID) {
			n++
		}
	}
	return n
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}
