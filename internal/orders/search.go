package orders

import (
	"strings"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

// Search keeps orders whose customer name, delivery method or address
// contains query, ignoring case. A blank query keeps everything.
func Search(orders []domain.Order, query string) []domain.Order {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return orders
	}

	matched := []domain.Order{}
	for _, order := range orders {
		fields := []string{order.CustomerName, string(order.DeliveryMethod), order.Address}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), query) {
				matched = append(matched, order)
				break
			}
		}
	}
	return matched
}
