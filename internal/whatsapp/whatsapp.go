// Package whatsapp builds wa.me deep links and the messages sent through them.
package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

var (
	ErrNoPhoneNumber   = errors.New("phone number has no digits")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrUnknownTemplate = errors.New("unknown message template")
)

const (
	TemplateOrderConfirmed = "order-confirmed"
	TemplateOrderReady     = "order-ready"
	TemplateDeliveryOnWay  = "delivery-on-way"
	TemplateCustom         = "custom"
)

const timeLayout = "Mon Jan 2 2006, 3:04 PM"

// Link returns the wa.me URL that opens a chat with phone prefilled with text.
// Everything but digits is stripped from phone.
func Link(phone, text string) (string, error) {
	digits := Digits(phone)
	if digits == "" {
		return "", ErrNoPhoneNumber
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	// QueryEscape turns spaces into '+', which the chat would show literally.
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + escaped, nil
}

func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// OrderSummary is the message relayed to the kitchen for a new order.
func OrderSummary(o domain.Order, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*NEW ORDER #%s*\n\n", o.ID)
	fmt.Fprintf(&b, "*Customer:* %s\n", o.CustomerName)
	if o.PhoneNumber != "" {
		fmt.Fprintf(&b, "*Phone:* %s\n", o.PhoneNumber)
	}
	fmt.Fprintf(&b, "*Delivery Method:* %s\n", methodLabel(o.DeliveryMethod))
	if o.Address != "" {
		fmt.Fprintf(&b, "*Address:* %s\n", o.Address)
	}
	fmt.Fprintf(&b, "*Date:* %s\n\n", o.CreatedAt.In(loc).Format(timeLayout))

	b.WriteString("*Items:*\n")
	for _, line := range o.Items {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", line.Quantity, line.Item.Name, FormatPrice(line.Subtotal()))
		if line.Package != nil {
			dishes := append(append([]string{}, line.Package.Primary...), line.Package.Secondary...)
			if len(dishes) > 0 {
				fmt.Fprintf(&b, "  with %s\n", strings.Join(dishes, ", "))
			}
		}
	}
	fmt.Fprintf(&b, "\n*Total:* %s", FormatPrice(o.Total))
	return b.String()
}

// CustomerMessage renders one of the canned customer templates. The custom
// template returns custom as is.
func CustomerMessage(template string, o domain.Order, custom string) (string, error) {
	switch template {
	case TemplateOrderConfirmed, "":
		return fmt.Sprintf("Hello %s,\n\n"+
			"Thank you for your order #%s.\n"+
			"We've received your order and will prepare it for %s.\n\n"+
			"Your order total is %s.\n\n"+
			"If you have any questions, please let us know!",
			o.CustomerName, o.ID, strings.ToLower(methodLabel(o.DeliveryMethod)), FormatPrice(o.Total)), nil
	case TemplateOrderReady:
		return fmt.Sprintf("Hello %s,\n\n"+
			"Great news! Your order #%s is ready for pickup.\n"+
			"You can collect it from our restaurant at your convenience.\n\n"+
			"Thank you for your order!",
			o.CustomerName, o.ID), nil
	case TemplateDeliveryOnWay:
		return fmt.Sprintf("Hello %s,\n\n"+
			"Your order #%s is on its way to your location!\n"+
			"Estimated delivery time: within 30 minutes.\n\n"+
			"Thank you for choosing our service!",
			o.CustomerName, o.ID), nil
	case TemplateCustom:
		if strings.TrimSpace(custom) == "" {
			return "", ErrEmptyMessage
		}
		return custom, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, template)
	}
}

// MenuBroadcast is the weekly menu announcement. Special dishes are starred.
func MenuBroadcast(items []domain.MenuItem, deadline *time.Time, siteURL string, loc *time.Location) string {
	entries := make([]string, 0, len(items))
	for _, item := range items {
		star := ""
		if item.IsSpecial() {
			star = "⭐ "
		}
		entries = append(entries, fmt.Sprintf("%s*%s* - %s\n%s", star, item.Name, FormatPrice(item.Price), item.Description))
	}

	var b strings.Builder
	b.WriteString("📱 *Weekly Menu* 📱\n\nHere's our menu for this week:\n\n")
	b.WriteString(strings.Join(entries, "\n\n"))
	b.WriteString("\n\n⭐ = Special dish")
	if deadline != nil {
		fmt.Fprintf(&b, "\n\n⏰ *Order Deadline*: %s\n", deadline.In(loc).Format(timeLayout))
	}
	if siteURL != "" {
		fmt.Fprintf(&b, "\n\nTo place an order, please visit our website: %s", siteURL)
	}
	return b.String()
}

func methodLabel(m domain.DeliveryMethod) string {
	if m == domain.DeliveryMethodDelivery {
		return "Delivery"
	}
	return "Pickup"
}
