// internal/checkout/message.go
package checkout

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cravebakery/internal/cart"
)

// BuildOrderMessage renders the human-readable order summary handed to the
// outbound messaging link. Customer name, phone and address are left as
// placeholders for the customer to fill in.
func BuildOrderMessage(orderID string, placedAt time.Time, items []cart.LineItem, total float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order #%s\n", orderID)
	fmt.Fprintf(&b, "Placed: %s\n\n", placedAt.Format("02 Jan 2006 15:04"))

	for _, item := range items {
		fmt.Fprintf(&b, "%d × %s — ₹%.2f\n", item.Quantity, item.Name, item.Subtotal())
	}

	fmt.Fprintf(&b, "\nTOTAL: ₹%.2f\n\n", total)
	b.WriteString("Name:\n")
	b.WriteString("Phone:\n")
	b.WriteString("Delivery Address:\n")

	return b.String()
}

// BuildWhatsAppLink wraps the message in a wa.me deep link. This is pure
// formatting; activating the link is the client's responsibility.
func BuildWhatsAppLink(message string) string {
	phone := os.Getenv("ORDER_WHATSAPP_NUMBER")
	if phone == "" {
		phone = "919778550480"
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
