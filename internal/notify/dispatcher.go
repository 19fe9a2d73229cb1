package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

// EmailSender sends the order receipt. Best effort.
type EmailSender interface {
	SendOrderReceipt(ctx context.Context, order *models.Order) error
}

// ChatNotifier delivers the admin chat notification. Retries and audit
// logging happen behind this interface.
type ChatNotifier interface {
	NotifyOrderCreated(ctx context.Context, order *models.Order)
}

// Broadcaster pushes realtime events to connected users.
type Broadcaster interface {
	EmitOrderCreated(order *models.Order)
	EmitOrderStatusUpdated(order *models.Order, oldStatus enums.OrderStatus)
}

// Dispatcher fans out post-commit notifications as detached background work.
// Failures are contained and logged; nothing here can fail a committed order.
type Dispatcher struct {
	email     EmailSender
	chat      ChatNotifier
	broadcast Broadcaster
	logg      *logger.Logger
	wg        sync.WaitGroup
}

// NewDispatcher builds a dispatcher. Any collaborator may be nil; that
// channel is simply skipped.
func NewDispatcher(email EmailSender, chat ChatNotifier, broadcast Broadcaster, logg *logger.Logger) (*Dispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{
		email:     email,
		chat:      chat,
		broadcast: broadcast,
		logg:      logg,
	}, nil
}

// OrderCreated fires the three independent notifications without blocking
// the caller. The detached context survives the originating request.
func (d *Dispatcher) OrderCreated(ctx context.Context, order *models.Order) {
	detached := context.WithoutCancel(ctx)

	if d.email != nil {
		d.spawn(detached, "email_receipt", func(ctx context.Context) error {
			return d.email.SendOrderReceipt(ctx, order)
		})
	}
	if d.chat != nil {
		d.spawn(detached, "chat_notification", func(ctx context.Context) error {
			d.chat.NotifyOrderCreated(ctx, order)
			return nil
		})
	}
	if d.broadcast != nil && order.UserID != nil {
		d.spawn(detached, "realtime_order_created", func(context.Context) error {
			d.broadcast.EmitOrderCreated(order)
			return nil
		})
	}
}

// OrderStatusUpdated pushes the status change to the owning user's room.
func (d *Dispatcher) OrderStatusUpdated(ctx context.Context, order *models.Order, oldStatus enums.OrderStatus) {
	if d.broadcast == nil || order.UserID == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	d.spawn(detached, "realtime_status_updated", func(context.Context) error {
		d.broadcast.EmitOrderStatusUpdated(order, oldStatus)
		return nil
	})
}

func (d *Dispatcher) spawn(ctx context.Context, name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logg.Error(ctx, fmt.Sprintf("notification %s panicked", name), fmt.Errorf("%v", r))
			}
		}()
		if err := fn(ctx); err != nil {
			d.logg.Error(d.logg.WithField(ctx, "notification", name), "notification delivery failed", err)
		}
	}()
}

// Drain blocks until in-flight notifications finish or ctx expires. Used at
// graceful shutdown so detached work is not cut off mid-send.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
