package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

func TestValidateCustomerDetails(t *testing.T) {
	tests := []struct {
		name    string
		details CustomerDetails
		want    []string
	}{
		{
			name: "everything missing for delivery",
			details: CustomerDetails{
				DeliveryMethod: domain.DeliveryMethodDelivery,
			},
			want: []string{FieldCustomerName, FieldPhoneNumber, FieldAddress},
		},
		{
			name: "pickup needs no address",
			details: CustomerDetails{
				CustomerName:   "Jane",
				PhoneNumber:    "555",
				DeliveryMethod: domain.DeliveryMethodPickup,
			},
		},
		{
			name: "whitespace is not a name",
			details: CustomerDetails{
				CustomerName:   "   ",
				PhoneNumber:    "555",
				DeliveryMethod: domain.DeliveryMethodPickup,
			},
			want: []string{FieldCustomerName},
		},
		{
			name: "any phone format passes",
			details: CustomerDetails{
				CustomerName:   "Jane",
				PhoneNumber:    "call me maybe",
				DeliveryMethod: domain.DeliveryMethodDelivery,
				Address:        "1 Main St",
			},
		},
		{
			name: "blank address for delivery",
			details: CustomerDetails{
				CustomerName:   "Jane",
				PhoneNumber:    "555",
				DeliveryMethod: domain.DeliveryMethodDelivery,
				Address:        "\t",
			},
			want: []string{FieldAddress},
		},
		{
			name: "unknown delivery method",
			details: CustomerDetails{
				CustomerName:   "Jane",
				PhoneNumber:    "555",
				DeliveryMethod: "drone",
			},
			want: []string{FieldDeliveryMethod},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCustomerDetails(tt.details)

			assert.Len(t, errs, len(tt.want))
			for _, field := range tt.want {
				assert.Contains(t, errs, field)
				assert.NotEmpty(t, errs[field])
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: ValidationErrors{
		FieldPhoneNumber:  "Phone number is required",
		FieldCustomerName: "Name is required",
	}}
	assert.Equal(t, "invalid customer details: customerName, phoneNumber", err.Error())
}
