package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryMethodPickup || d == DeliveryMethodDelivery
}

type LineKind string

const (
	LineKindRegular LineKind = "regular"
	LineKindPackage LineKind = "package"
)

// PackageContents holds the dish names chosen for a package line.
type PackageContents struct {
	PackageID string   `json:"packageId"`
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

type CartLine struct {
	Kind     LineKind         `json:"kind"`
	Item     MenuItem         `json:"item"`
	Quantity int              `json:"quantity"`
	Package  *PackageContents `json:"package,omitempty"`
}

// Subtotal is price times quantity. Non-positive quantities contribute nothing.
func (l CartLine) Subtotal() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customerName"`
	DeliveryMethod DeliveryMethod  `json:"deliveryMethod"`
	Address        string          `json:"address,omitempty"`
	PhoneNumber    string          `json:"phoneNumber,omitempty"`
	Items          []CartLine      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
}
