// Package notify sends the operator notification mail for new orders.
// Delivery is strictly best-effort: checkout fires it after commit from a
// goroutine, failures are logged and never surface to the customer.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/hamdiks/cardstore/internal/config"
	"github.com/hamdiks/cardstore/internal/queue"
)

// Mailer wraps the outbound SMTP settings. A Mailer with an empty host is
// valid and simply drops every message, so callers never need to check
// whether mail is configured.
type Mailer struct {
	cfg config.Config
}

func NewMailer(cfg config.Config) *Mailer { return &Mailer{cfg: cfg} }

// Enabled reports whether outbound mail is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != "" && m.cfg.OperatorEmail != ""
}

// SendOrderPlaced mails the operator a summary of a committed order batch.
func (m *Mailer) SendOrderPlaced(ev queue.OrderPlacedEvent) error {
	if !m.Enabled() {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\r\n\r\n", ev.BatchID)
	fmt.Fprintf(&b, "Customer: %s (phone %s, new account: %t)\r\n", ev.Email, ev.Phone, ev.UserCreated)
	fmt.Fprintf(&b, "Payment: %s, reference %s\r\n\r\n", ev.Payment, ev.TxNumber)
	for _, l := range ev.Lines {
		fmt.Fprintf(&b, "  %dx %s (%s) @ %.2f\r\n", l.Quantity, l.ProductName, l.OptionLabel, l.UnitPrice)
	}
	fmt.Fprintf(&b, "\r\nTotal: %.2f\r\n", ev.Total)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: New order %s\r\n\r\n%s",
		m.cfg.SMTPUser, m.cfg.OperatorEmail, ev.BatchID, b.String())

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.SMTPUser, []string{m.cfg.OperatorEmail}, []byte(msg)); err != nil {
		log.Printf("mailer: send order notification failed: %v", err)
		return err
	}
	return nil
}
