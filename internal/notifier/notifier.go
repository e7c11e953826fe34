package notifier

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/fjod/go_storefront/internal/domain"
)

// Message is one confirmation to deliver.
type Message struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	OrderNumber string `json:"order_number"`
}

// Notifier delivers a message. Implementations must honour ctx.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

var bodyTemplate = template.Must(template.New("confirmation").Parse(`Dear {{.Customer.Name}},

Thank you for your order!

Order Number: {{.OrderNumber}}
Total Amount: ${{.Total.StringFixed 2}}
Payment Method: {{.Method}}
Shipping Address: {{.Customer.Address}}, {{.Customer.City}}

Items:
{{range .LineItems}}- {{.ProductName}} x{{.Quantity}}: ${{.Subtotal.StringFixed 2}}
{{end}}
Your order will be processed shortly.

Thank you for shopping with FakeStore!
`))

// FromOrder builds the confirmation email for a placed order.
func FromOrder(o domain.Order) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		domain.Order
		Method string
	}{o, strings.ToUpper(o.Payment.Method.String())}
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{
		To:          o.Customer.Email,
		Subject:     "Order Confirmation - " + o.OrderNumber,
		Body:        buf.String(),
		OrderNumber: o.OrderNumber,
	}, nil
}
