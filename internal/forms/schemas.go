package forms

import "github.com/quickcart/checkout-wizard/domain"

// Account validates the account step input.
var Account = &Schema{
	fields: []string{"email", "password"},
	build: func(v map[string]string) any {
		return &domain.AccountData{
			Email:    v["email"],
			Password: v["password"],
		}
	},
}

// Shipping validates the shipping address sub-form. The selected option is
// not a form field; the shipping step gates submission on it separately.
var Shipping = &Schema{
	fields: []string{"firstName", "lastName", "address", "city", "state", "zipCode"},
	build: func(v map[string]string) any {
		return &domain.ShippingData{
			FirstName: v["firstName"],
			LastName:  v["lastName"],
			Address:   v["address"],
			City:      v["city"],
			State:     v["state"],
			ZipCode:   v["zipCode"],
		}
	},
}

// Payment validates the payment step input.
var Payment = &Schema{
	fields: []string{"cardNumber", "cardName", "expiryDate", "cvv"},
	build: func(v map[string]string) any {
		return &domain.PaymentData{
			CardNumber: v["cardNumber"],
			CardName:   v["cardName"],
			ExpiryDate: v["expiryDate"],
			CVV:        v["cvv"],
		}
	},
}
