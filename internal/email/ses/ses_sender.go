package ses

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"tillsync/internal/domain"
	"tillsync/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendNewOrderEmail(ctx context.Context, toEmail string, order *domain.CanonicalOrder) error {
	subject := fmt.Sprintf("New %s order #%s - %s %s",
		order.Method, order.Number, order.Total.StringFixed(2), order.Currency)
	htmlBody := buildNewOrderHTML(order)
	textBody := buildNewOrderText(order)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildNewOrderText(o *domain.CanonicalOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s (%s)\n", o.Number, o.Method)
	fmt.Fprintf(&b, "Customer: %s %s\n", o.CustomerName, o.CustomerPhone)
	if o.TimeWindow != "" {
		fmt.Fprintf(&b, "Requested time: %s\n", o.TimeWindow)
	}
	if o.Address != nil {
		fmt.Fprintf(&b, "Deliver to: %s\n", *o.Address)
	}
	b.WriteString("\nItems:\n")
	for _, it := range o.LineItems {
		fmt.Fprintf(&b, "  %s x %s - %s\n", it.Quantity, it.Name, it.Total.StringFixed(2))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", o.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Tax: %s\n", o.TaxTotal.StringFixed(2))
	if o.DeliveryFee != nil {
		fmt.Fprintf(&b, "Delivery fee: %s\n", o.DeliveryFee.StringFixed(2))
	}
	if o.Tip != nil {
		fmt.Fprintf(&b, "Tip: %s\n", o.Tip.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s %s\n", o.Total.StringFixed(2), o.Currency)
	if o.CustomerNote != "" {
		fmt.Fprintf(&b, "\nCustomer note:\n%s\n", o.CustomerNote)
	}
	fmt.Fprintf(&b, "\nPlaced at %s\n", o.PlacedAt.Format(time.RFC1123))
	return b.String()
}

func buildNewOrderHTML(o *domain.CanonicalOrder) string {
	var items strings.Builder
	for _, it := range o.LineItems {
		fmt.Fprintf(&items,
			`<tr><td style="padding: 4px 8px;">%s x %s</td><td style="padding: 4px 8px; text-align: right;">%s</td></tr>`,
			it.Quantity, it.Name, it.Total.StringFixed(2))
	}

	extra := ""
	if o.TimeWindow != "" {
		extra += fmt.Sprintf(`<p><strong>Requested time:</strong> %s</p>`, o.TimeWindow)
	}
	if o.Address != nil {
		extra += fmt.Sprintf(`<p><strong>Deliver to:</strong> %s</p>`, *o.Address)
	}
	if o.CustomerNote != "" {
		extra += fmt.Sprintf(`<p><strong>Customer note:</strong> %s</p>`, o.CustomerNote)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">New %s order #%s</h2>
  <p><strong>Customer:</strong> %s %s</p>
  %s
  <table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">%s</table>
  <p style="font-size: 18px;"><strong>Total: %s %s</strong></p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">TillSync - Storefront Order Mirror</p>
</body>
</html>`, o.Method, o.Number, o.CustomerName, o.CustomerPhone, extra, items.String(),
		o.Total.StringFixed(2), o.Currency)
}
