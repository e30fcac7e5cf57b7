// Package receipt renders printable order receipts.
package receipt

import (
	"html"
	"strconv"
	"strings"

	"dastarkhan/internal/model"
)

// Render maps an order and the resolved waiter name to a self-contained
// HTML document sized for 80mm thermal paper. It is a pure function:
// identical input produces byte-identical output.
func Render(order *model.Order, waiterName string) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
@page { size: 80mm auto; margin: 0; }
body { width: 72mm; margin: 0 auto; font-family: monospace; font-size: 12px; color: #000; }
h1 { font-size: 16px; text-align: center; margin: 8px 0; }
table { width: 100%; border-collapse: collapse; }
td { padding: 1px 0; vertical-align: top; }
td.qty { width: 12%; }
td.sum { width: 28%; text-align: right; }
.rule { border-top: 1px dashed #000; margin: 6px 0; }
.totals td { padding: 2px 0; }
.grand { font-weight: bold; font-size: 14px; }
.meta { text-align: center; margin: 4px 0; }
</style></head><body>`)

	b.WriteString(`<h1>Dastarkhan</h1>`)

	b.WriteString(`<div class="meta">`)
	b.WriteString(order.EffectiveTime().Format("02.01.2006 15:04"))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="meta">`)
	switch order.OrderType {
	case model.OrderTypeDelivery:
		b.WriteString("Delivery")
		if order.DeliveryAddress != nil {
			b.WriteString(" &mdash; ")
			b.WriteString(html.EscapeString(*order.DeliveryAddress))
		}
	case model.OrderTypeSaboy:
		b.WriteString("Saboy")
	default:
		if order.TableNumber != nil {
			b.WriteString("Table ")
			b.WriteString(html.EscapeString(*order.TableNumber))
		} else if order.RoomNumber != nil {
			b.WriteString("Room ")
			b.WriteString(html.EscapeString(*order.RoomNumber))
		}
	}
	b.WriteString(`</div>`)

	if waiterName != "" {
		b.WriteString(`<div class="meta">Waiter: `)
		b.WriteString(html.EscapeString(waiterName))
		b.WriteString(`</div>`)
	}

	b.WriteString(`<div class="rule"></div><table>`)
	for _, item := range order.Items {
		b.WriteString(`<tr><td class="qty">`)
		b.WriteString(strconv.Itoa(item.Quantity))
		b.WriteString(`x</td><td>`)
		b.WriteString(html.EscapeString(item.Name))
		b.WriteString(`</td><td class="sum">`)
		b.WriteString(formatAmount(item.Price * float64(item.Quantity)))
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</table><div class="rule"></div>`)

	b.WriteString(`<table class="totals">`)
	writeTotal(&b, "Subtotal", order.Subtotal, false)
	if order.OrderType == model.OrderTypeDelivery {
		writeTotal(&b, "Delivery", order.DeliveryFee, false)
		writeTotal(&b, "Container", order.ContainerCost, false)
	}
	writeTotal(&b, "Total", order.Total, true)
	b.WriteString(`</table>`)

	b.WriteString(`<div class="rule"></div><div class="meta">Rahmat! Thank you!</div>`)
	b.WriteString(`</body></html>`)

	return b.String()
}

func writeTotal(b *strings.Builder, label string, amount float64, grand bool) {
	if grand {
		b.WriteString(`<tr class="grand">`)
	} else {
		b.WriteString(`<tr>`)
	}
	b.WriteString(`<td>`)
	b.WriteString(label)
	b.WriteString(`</td><td class="sum">`)
	b.WriteString(formatAmount(amount))
	b.WriteString(`</td></tr>`)
}

// formatAmount renders a sum with thousands separators ("38 000").
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ") + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
