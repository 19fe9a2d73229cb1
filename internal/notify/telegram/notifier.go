package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fruitify/fruitify-backend/internal/notify"
	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/fruitify/fruitify-backend/pkg/metrics"
	"github.com/google/uuid"
)

const (
	// maxPayloadLen bounds the audit row's stored payload.
	maxPayloadLen = 500

	channelLabel = "telegram"

	// NotificationTypeOrder tags order-placement notifications in the audit log.
	NotificationTypeOrder = "order"
	// NotificationTypeTest tags admin connectivity checks.
	NotificationTypeTest = "test"
)

// Message is one chat notification to deliver.
type Message struct {
	OrderID *uuid.UUID
	Type    string
	Text    string
}

// Result describes the outcome of a full retry run.
type Result struct {
	Success  bool
	Attempts int
	Err      error
	Elapsed  time.Duration
}

// Notifier sends chat messages with bounded retry and durable audit logging.
// Every Send writes exactly one audit row summarizing the whole run.
type Notifier struct {
	cfg     config.TelegramConfig
	http    *http.Client
	repo    LogRepository
	metrics *metrics.NotificationMetrics
	logg    *logger.Logger
	sleep   notify.Sleeper
}

// NewNotifier builds a telegram notifier. metrics may be nil.
func NewNotifier(cfg config.TelegramConfig, repo LogRepository, m *metrics.NotificationMetrics, logg *logger.Logger) (*Notifier, error) {
	if repo == nil {
		return nil, fmt.Errorf("telegram log repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	return &Notifier{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		repo:    repo,
		metrics: m,
		logg:    logg,
		sleep:   notify.SleepWithContext,
	}, nil
}

// Send delivers the message with up to MaxAttempts sequential attempts and
// backoff BaseDelay×3^(k-1) after the k-th failure. A disabled or
// unconfigured notifier fails each attempt immediately with a configuration
// error, consuming the full retry budget so the audit trail looks the same
// as for a failing provider.
func (n *Notifier) Send(ctx context.Context, msg Message) Result {
	backoff := notify.ExponentialBackoff(n.cfg.BaseDelay, 3)

	outcome := notify.RunWithBackoff(ctx, n.cfg.MaxAttempts, backoff, n.sleep, func(ctx context.Context) error {
		n.metrics.IncAttempt(channelLabel)
		if !n.cfg.Configured() {
			return fmt.Errorf("telegram notifier is disabled or missing credentials")
		}
		return n.sendOnce(ctx, msg.Text)
	})

	result := Result{
		Success:  outcome.Success,
		Attempts: outcome.Attempts,
		Err:      outcome.LastErr,
		Elapsed:  outcome.Elapsed,
	}

	if result.Success {
		n.metrics.IncSuccess(channelLabel)
	} else {
		n.metrics.IncFailure(channelLabel)
	}

	n.writeAudit(ctx, msg, result)
	return result
}

func (n *Notifier) sendOnce(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(n.cfg.APIBaseURL, "/"), n.cfg.BotToken)

	body, err := json.Marshal(map[string]any{
		"chat_id":    n.cfg.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}

// writeAudit records exactly one row per run. Audit failures are logged and
// swallowed: the notification side channel must never propagate errors.
func (n *Notifier) writeAudit(ctx context.Context, msg Message, result Result) {
	row := &models.TelegramLog{
		ID:       uuid.New(),
		OrderID:  msg.OrderID,
		Type:     msg.Type,
		Payload:  truncate(msg.Text, maxPayloadLen),
		Attempts: result.Attempts,
		Status:   enums.TelegramLogStatusSuccess,
	}
	if !result.Success {
		row.Status = enums.TelegramLogStatusFailed
		if result.Err != nil {
			errMsg := truncate(result.Err.Error(), maxPayloadLen)
			row.LastError = &errMsg
		}
	}

	if err := n.repo.Create(ctx, row); err != nil {
		n.logg.Error(ctx, "writing telegram audit log", err)
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// NotifyOrderCreated formats and sends the admin order notification. It is
// the fire-and-forget entry point used by the dispatcher.
func (n *Notifier) NotifyOrderCreated(ctx context.Context, order *models.Order) {
	result := n.Send(ctx, Message{
		OrderID: &order.ID,
		Type:    NotificationTypeOrder,
		Text:    formatOrderMessage(order),
	})
	ctx = n.logg.WithOrderID(ctx, order.ID.String())
	if result.Success {
		n.logg.Info(n.logg.WithField(ctx, "attempts", result.Attempts), "telegram notification delivered")
		return
	}
	n.logg.Error(n.logg.WithField(ctx, "attempts", result.Attempts), "telegram notification exhausted", result.Err)
}

// SendTest delivers a connectivity-check message for admin inspection.
func (n *Notifier) SendTest(ctx context.Context, text string) Result {
	return n.Send(ctx, Message{Type: NotificationTypeTest, Text: text})
}

// RecentLogs returns the latest audit rows.
func (n *Notifier) RecentLogs(ctx context.Context, limit int) ([]models.TelegramLog, error) {
	return n.repo.Recent(ctx, limit)
}

// FailureSpike reports whether failures within the trailing window reached
// the threshold. Alert delivery itself is handled elsewhere.
func (n *Notifier) FailureSpike(ctx context.Context, window time.Duration, threshold int64) (bool, error) {
	count, err := n.repo.CountFailedSince(ctx, time.Now().Add(-window))
	if err != nil {
		return false, err
	}
	return count >= threshold, nil
}

func formatOrderMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>New order</b> %s\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, order.CustomerEmail)
	fmt.Fprintf(&b, "Type: %s\n", order.OrderType)
	fmt.Fprintf(&b, "Total: %s\n", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "Items: %d\n", len(order.Items))
	fmt.Fprintf(&b, "Ship to: %s, %s %s", order.ShippingAddress, order.ShippingCity, order.ShippingZip)
	return b.String()
}
