package services

import (
	"fmt"
	"strings"

	"onlineshop/internal/config"
	"onlineshop/internal/domain"
	applog "onlineshop/internal/log"

	"github.com/panjf2000/ants/v2"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends the order-confirmation email with the delivery-confirmation
// link. Sending happens on the worker pool; a failure is logged together with
// the confirmation URL (so an operator can still hand the link out) and never
// reaches the order placement.
type Mailer struct {
	cfg  config.Config
	pool *ants.Pool
}

// NewMailer takes a shared worker pool; a nil pool sends inline.
func NewMailer(cfg config.Config, pool *ants.Pool) *Mailer {
	return &Mailer{cfg: cfg, pool: pool}
}

// ConfirmationURL builds the redemption link carried in the email.
func (m *Mailer) ConfirmationURL(o *domain.Order) string {
	return strings.TrimRight(m.cfg.BaseURL, "/") + "/orders/confirm/" + o.ConfirmationToken
}

func (m *Mailer) SendOrderConfirmation(user *domain.User, order *domain.Order) {
	u, o := *user, *order
	task := func() { m.sendConfirmation(&u, &o) }
	if m.pool == nil {
		task()
		return
	}
	if err := m.pool.Submit(task); err != nil {
		applog.Error(nil, "mail.dispatch.fail", err, map[string]any{"order": o.OrderNumber})
	}
}

func (m *Mailer) sendConfirmation(user *domain.User, order *domain.Order) {
	url := m.ConfirmationURL(order)

	if m.cfg.SMTPHost == "" {
		// no SMTP configured: keep the link discoverable in the logs
		applog.Info(nil, "mail.skip", map[string]any{"order": order.OrderNumber, "confirm_url": url})
		return
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h2>Order confirmation</h2>")
	fmt.Fprintf(&b, "<p>Dear %s,</p>", user.Name)
	fmt.Fprintf(&b, "<p>Thank you for your order <strong>%s</strong>.</p>", order.OrderNumber)
	b.WriteString("<table><tr><th>Item</th><th>Qty</th><th>Subtotal</th></tr>")
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>$%s</td></tr>",
			it.ProductName, it.Quantity, it.Subtotal.StringFixed(2))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Total: <strong>$%s</strong></p>", order.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "<p>Shipping to:<br>%s</p>", strings.ReplaceAll(order.ShippingAddress, "\n", "<br>"))
	fmt.Fprintf(&b, `<p>Once your order arrives, please <a href="%s">confirm delivery</a>.</p>`, url)
	fmt.Fprintf(&b, `<p style="font-size:12px">If the link does not work, copy this address: %s</p>`, url)
	b.WriteString("</body></html>")

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailFrom)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", "Order confirmation - "+order.OrderNumber)
	msg.SetBody("text/html", b.String())

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := d.DialAndSend(msg); err != nil {
		applog.Error(nil, "mail.send.fail", err, map[string]any{
			"order": order.OrderNumber, "to": user.Email, "confirm_url": url,
		})
		return
	}
	applog.Info(nil, "mail.sent", map[string]any{"order": order.OrderNumber, "to": user.Email})
}
