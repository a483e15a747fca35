package domain

// AccountData is the committed account step input.
type AccountData struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// ShippingData is the committed shipping step input. SelectedOption is
// empty while the address is being drafted and must reference a quoted
// option id at commit time.
type ShippingData struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required,len=2"`
	ZipCode        string `json:"zipCode" validate:"required,zipcode"`
	SelectedOption string `json:"selectedOption,omitempty" validate:"omitempty"`
}

// PaymentData is the committed payment step input. Values are stored
// sanitized (digits only for card number and CVV, MM/YY for expiry).
type PaymentData struct {
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	CardName   string `json:"cardName" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
}

// Snapshot is the persisted subset of a checkout session. The order id is
// deliberately absent: a reloaded session must never resurrect a stale
// order without a fresh placement.
type Snapshot struct {
	Account  *AccountData  `json:"account,omitempty"`
	Shipping *ShippingData `json:"shipping,omitempty"`
	Payment  *PaymentData  `json:"payment,omitempty"`
}
