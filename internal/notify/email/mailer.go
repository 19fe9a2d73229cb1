package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// dialer abstracts gomail's SMTP dialer for tests.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends transactional order receipts over SMTP.
type Mailer struct {
	cfg    config.EmailConfig
	dialer dialer
	logg   *logger.Logger
}

// NewMailer builds an SMTP mailer from the integration config.
func NewMailer(cfg config.EmailConfig, logg *logger.Logger) (*Mailer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	m := &Mailer{cfg: cfg, logg: logg}
	if cfg.Configured() {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
	return m, nil
}

// SendOrderReceipt emails the customer their order summary. When the mailer
// is unconfigured the send is skipped with a logged notice, not an error.
func (m *Mailer) SendOrderReceipt(ctx context.Context, order *models.Order) error {
	if !m.cfg.Configured() || m.dialer == nil {
		m.logg.Warn(m.logg.WithOrderID(ctx, order.ID.String()), "email notifier unconfigured, receipt skipped")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", order.CustomerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Your Fruitify order %s", shortID(order)))
	msg.SetBody("text/html", receiptBody(order))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending receipt email: %w", err)
	}

	m.logg.Info(m.logg.WithOrderID(ctx, order.ID.String()), "receipt email sent")
	return nil
}

func shortID(order *models.Order) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func receiptBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thanks for your order, %s!</h2>", order.CustomerName)
	fmt.Fprintf(&b, "<p>Order <b>%s</b> (%s)</p>", shortID(order), order.OrderType)
	b.WriteString("<ul>")
	for _, item := range order.Items {
		label := item.ProductID.String()
		if item.Product != nil {
			label = item.Product.Name
		}
		if item.SelectedQuantity != nil && item.SelectedUnit != nil {
			label = fmt.Sprintf("%s (%s %s)", label, *item.SelectedQuantity, *item.SelectedUnit)
		}
		fmt.Fprintf(&b, "<li>%d × %s — %s</li>", item.Quantity, label, item.Price.StringFixed(2))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Total: <b>%s</b></p>", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "<p>Shipping to %s, %s %s</p>", order.ShippingAddress, order.ShippingCity, order.ShippingZip)
	return b.String()
}
