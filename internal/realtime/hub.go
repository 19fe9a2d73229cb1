package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
)

// Hub is the process-local connection registry, one room per user. Events
// reach only users connected to this instance; running multiple instances
// behind a load balancer needs a shared broadcast bus this hub does not have.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}
	logg  *logger.Logger
}

// NewHub builds an empty registry.
func NewHub(logg *logger.Logger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*Client]struct{}),
		logg:  logg,
	}
}

// Register joins a client to the user's room.
func (h *Hub) Register(userID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[userID] = room
	}
	room[client] = struct{}{}
}

// Unregister drops a client, deleting the room when it empties.
func (h *Hub) Unregister(userID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[userID]
	if !ok {
		return
	}
	if _, member := room[client]; !member {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, userID)
	}
}

// ConnectedUsers reports how many rooms currently have live connections.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// EmitToUser pushes an event to every connection in the user's room. Slow
// consumers with a full send buffer are skipped; no message is queued or
// redelivered for offline users.
func (h *Hub) EmitToUser(userID uuid.UUID, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		if h.logg != nil {
			h.logg.Error(context.Background(), "encoding realtime event", err)
		}
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// EmitOrderCreated pushes the new-order event to the owning user.
func (h *Hub) EmitOrderCreated(order *models.Order) {
	if order.UserID == nil {
		return
	}
	h.EmitToUser(*order.UserID, orderCreatedEvent(order))
}

// EmitOrderStatusUpdated pushes the status-change event to the owning user.
func (h *Hub) EmitOrderStatusUpdated(order *models.Order, oldStatus enums.OrderStatus) {
	if order.UserID == nil {
		return
	}
	h.EmitToUser(*order.UserID, orderStatusUpdatedEvent(order, oldStatus))
}
