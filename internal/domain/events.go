package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	OrderID        string          `json:"order_id"`
	CustomerName   string          `json:"customer_name"`
	PhoneNumber    string          `json:"phone_number,omitempty"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method"`
	Address        string          `json:"address,omitempty"`
	Items          []CartLine      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Timestamp      time.Time       `json:"timestamp"`
}

func NewOrderPlacedEvent(o Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:        o.ID,
		CustomerName:   o.CustomerName,
		PhoneNumber:    o.PhoneNumber,
		DeliveryMethod: o.DeliveryMethod,
		Address:        o.Address,
		Items:          o.Items,
		Total:          o.Total,
		Timestamp:      o.CreatedAt,
	}
}

// Order rebuilds the order snapshot carried by the event.
func (e OrderPlacedEvent) Order() Order {
	return Order{
		ID:             e.OrderID,
		CustomerName:   e.CustomerName,
		DeliveryMethod: e.DeliveryMethod,
		Address:        e.Address,
		PhoneNumber:    e.PhoneNumber,
		Items:          e.Items,
		Total:          e.Total,
		CreatedAt:      e.Timestamp,
	}
}
