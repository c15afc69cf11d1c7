package checkout

import (
	"sort"
	"strings"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

const (
	FieldCustomerName   = "customerName"
	FieldPhoneNumber    = "phoneNumber"
	FieldDeliveryMethod = "deliveryMethod"
	FieldAddress        = "address"
)

type CustomerDetails struct {
	CustomerName   string                `json:"customerName"`
	PhoneNumber    string                `json:"phoneNumber"`
	DeliveryMethod domain.DeliveryMethod `json:"deliveryMethod"`
	Address        string                `json:"address,omitempty"`
}

// ValidationErrors maps a field name to what is wrong with it.
type ValidationErrors map[string]string

// ValidationError reports every failing customer field at once.
type ValidationError struct {
	Fields ValidationErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid customer details: " + strings.Join(names, ", ")
}

// ValidateCustomerDetails checks all fields and returns one entry per
// failing field. An empty result means the details are acceptable.
func ValidateCustomerDetails(d CustomerDetails) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(d.CustomerName) == "" {
		errs[FieldCustomerName] = "Name is required"
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		errs[FieldPhoneNumber] = "Phone number is required"
	}

	switch d.DeliveryMethod {
	case domain.DeliveryMethodDelivery:
		if strings.TrimSpace(d.Address) == "" {
			errs[FieldAddress] = "Address is required for delivery"
		}
	case domain.DeliveryMethodPickup:
	default:
		errs[FieldDeliveryMethod] = "Choose pickup or delivery"
	}

	return errs
}
