package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
)

// ReceiptMessage renders the purchase confirmation email.
func ReceiptMessage(t ports.ReceiptTask) ports.Message {
	amount := fmt.Sprintf("%.2f %s", float64(t.AmountCents)/100, strings.ToUpper(t.Currency))
	greeting := "Hi"
	if t.Name != "" {
		greeting = "Hi " + t.Name
	}
	return ports.Message{
		ToEmail: t.Email,
		ToName:  t.Name,
		Subject: fmt.Sprintf("Your purchase: %s", t.ToolName),
		Text: fmt.Sprintf("%s,\n\nThanks for buying %s (%s).\nYou can open it from your dashboard now.\n\nPayment reference: %s\n",
			greeting, t.ToolName, amount, t.PaymentID),
		HTML: fmt.Sprintf("<p>%s,</p><p>Thanks for buying <strong>%s</strong> (%s).<br>You can open it from your dashboard now.</p><p><small>Payment reference: %s</small></p>",
			html.EscapeString(greeting), html.EscapeString(t.ToolName), amount, html.EscapeString(t.PaymentID)),
	}
}

// WelcomeMessage renders the newsletter welcome email.
func WelcomeMessage(t ports.WelcomeTask) ports.Message {
	body := "Thanks for subscribing to SEO tips and tool updates."
	if t.LeadMagnet != "" {
		body += fmt.Sprintf(" Your free resource (%s) is on its way.", t.LeadMagnet)
	}
	return ports.Message{
		ToEmail: t.Email,
		ToName:  t.Name,
		Subject: "Welcome to the SEO Tools newsletter",
		Text:    body + "\n",
		HTML:    "<p>" + html.EscapeString(body) + "</p>",
	}
}
