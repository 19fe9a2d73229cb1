package realtime

import (
	"time"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// EventOrderCreated notifies the owning user a new order exists.
	EventOrderCreated = "order:created"
	// EventOrderStatusUpdated notifies the owning user of a status change.
	EventOrderStatusUpdated = "order:status_updated"
)

// Event is the wire envelope pushed over the socket.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// OrderCreatedPayload is the data for EventOrderCreated.
type OrderCreatedPayload struct {
	OrderID   uuid.UUID       `json:"orderId"`
	UserID    uuid.UUID       `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderStatusUpdatedPayload is the data for EventOrderStatusUpdated.
type OrderStatusUpdatedPayload struct {
	OrderID   uuid.UUID         `json:"orderId"`
	UserID    uuid.UUID         `json:"userId"`
	OldStatus enums.OrderStatus `json:"oldStatus"`
	NewStatus enums.OrderStatus `json:"newStatus"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func orderCreatedEvent(order *models.Order) Event {
	return Event{
		Name: EventOrderCreated,
		Data: OrderCreatedPayload{
			OrderID:   order.ID,
			UserID:    *order.UserID,
			Total:     order.Total,
			CreatedAt: order.CreatedAt,
		},
	}
}

func orderStatusUpdatedEvent(order *models.Order, oldStatus enums.OrderStatus) Event {
	return Event{
		Name: EventOrderStatusUpdated,
		Data: OrderStatusUpdatedPayload{
			OrderID:   order.ID,
			UserID:    *order.UserID,
			OldStatus: oldStatus,
			NewStatus: order.Status,
			UpdatedAt: order.UpdatedAt,
		},
	}
}
