package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{send: make(chan []byte, sendBuffer)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var event struct {
			Name string          `json:"event"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &event))
		return Event{Name: event.Name, Data: event.Data}
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestEmitOrderCreatedReachesOwnerOnly(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	owner := uuid.New()
	other := uuid.New()

	ownerClient := testClient()
	otherClient := testClient()
	hub.Register(owner, ownerClient)
	hub.Register(other, otherClient)

	order := &models.Order{
		ID:        uuid.New(),
		UserID:    &owner,
		Total:     decimal.NewFromInt(200),
		CreatedAt: time.Now(),
	}
	hub.EmitOrderCreated(order)

	event := receive(t, ownerClient)
	assert.Equal(t, EventOrderCreated, event.Name)

	var payload OrderCreatedPayload
	require.NoError(t, json.Unmarshal(event.Data.(json.RawMessage), &payload))
	assert.Equal(t, order.ID, payload.OrderID)
	assert.Equal(t, owner, payload.UserID)
	assert.True(t, payload.Total.Equal(decimal.NewFromInt(200)))

	select {
	case <-otherClient.send:
		t.Fatal("event leaked into another user's room")
	default:
	}
}

func TestEmitOrderStatusUpdatedPayload(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	owner := uuid.New()
	client := testClient()
	hub.Register(owner, client)

	order := &models.Order{
		ID:        uuid.New(),
		UserID:    &owner,
		Status:    enums.OrderStatusProcessing,
		UpdatedAt: time.Now(),
	}
	hub.EmitOrderStatusUpdated(order, enums.OrderStatusPending)

	event := receive(t, client)
	assert.Equal(t, EventOrderStatusUpdated, event.Name)

	var payload OrderStatusUpdatedPayload
	require.NoError(t, json.Unmarshal(event.Data.(json.RawMessage), &payload))
	assert.Equal(t, enums.OrderStatusPending, payload.OldStatus)
	assert.Equal(t, enums.OrderStatusProcessing, payload.NewStatus)
}

func TestEmitSkipsGuestOrders(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	client := testClient()
	hub.Register(uuid.New(), client)

	hub.EmitOrderCreated(&models.Order{ID: uuid.New()})

	select {
	case <-client.send:
		t.Fatal("guest order must not emit")
	default:
	}
}

func TestMultipleConnectionsPerUser(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	owner := uuid.New()
	first := testClient()
	second := testClient()
	hub.Register(owner, first)
	hub.Register(owner, second)
	assert.Equal(t, 1, hub.ConnectedUsers())

	order := &models.Order{ID: uuid.New(), UserID: &owner, CreatedAt: time.Now()}
	hub.EmitOrderCreated(order)

	receive(t, first)
	receive(t, second)
}

func TestUnregisterRemovesEmptyRoom(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	owner := uuid.New()
	client := testClient()
	hub.Register(owner, client)
	require.Equal(t, 1, hub.ConnectedUsers())

	hub.Unregister(owner, client)
	assert.Zero(t, hub.ConnectedUsers())

	// Emitting into an empty registry is a no-op, not a panic.
	hub.EmitOrderCreated(&models.Order{ID: uuid.New(), UserID: &owner})
}

func TestSlowConsumerDoesNotBlockEmit(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	owner := uuid.New()
	client := &Client{send: make(chan []byte)}
	hub.Register(owner, client)

	done := make(chan struct{})
	go func() {
		hub.EmitOrderCreated(&models.Order{ID: uuid.New(), UserID: &owner})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full send buffer")
	}
}
