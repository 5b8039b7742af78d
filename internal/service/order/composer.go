package order

import (
	"fmt"
	"strings"

	"obak-storefront/internal/domain"
)

const lineSeparator = "----------------------"

// Compose builds the ephemeral order request from a cart snapshot and the
// shopper's contact. The total is derived the same way the cart derives it.
func Compose(cart domain.Cart, contact string) domain.OrderRequest {
	return domain.OrderRequest{
		Lines:   cart.Lines,
		Total:   cart.Total(),
		Contact: contact,
	}
}

// Details renders the human-readable order text: a numbered block per line
// with unit price, quantity and subtotal, followed by the grand total
// formatted to two decimal places.
func Details(cart domain.Cart) string {
	blocks := make([]string, 0, len(cart.Lines))
	for i, l := range cart.Lines {
		blocks = append(blocks, fmt.Sprintf(
			"%d. %s\n   السعر: %s ج.م\n   الكمية: %d\n   المجموع: %s ج.م\n%s",
			i+1,
			l.Product.Name,
			l.Product.Price.String(),
			l.Quantity,
			l.Subtotal().StringFixed(2),
			lineSeparator,
		))
	}
	return strings.Join(blocks, "\n") + fmt.Sprintf("\nالمجموع الكلي: %s ج.م", cart.Total().StringFixed(2))
}
