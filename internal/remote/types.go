package remote

import (
	"context"

	"github.com/quickcart/checkout-wizard/domain"
)

// Backend is the boundary to the four remote checkout operations plus the
// optional session bootstrap. Implementations carry no business logic.
type Backend interface {
	CheckEmail(ctx context.Context, email string) (*EmailCheckResponse, error)
	QuoteShipping(ctx context.Context, req *ShippingQuoteRequest) (*ShippingQuoteResponse, error)
	AuthorizePayment(ctx context.Context, req *PaymentAuthRequest) (*PaymentAuthResponse, error)
	CreateOrder(ctx context.Context, req *OrderRequest) (*domain.Order, error)
	FetchSession(ctx context.Context) (*domain.Snapshot, error)
}

type EmailCheckRequest struct {
	Email string `json:"email"`
}

type EmailCheckResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type ShippingQuoteRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

type ShippingQuoteResponse struct {
	Options []domain.ShippingOption `json:"options"`
}

type PaymentAuthRequest struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type PaymentAuthResponse struct {
	Authorized    bool   `json:"authorized"`
	TransactionID string `json:"transactionId"`
}

type OrderRequest struct {
	Shipping     domain.ShippingData `json:"shipping"`
	Payment      domain.PaymentData  `json:"payment"`
	ShippingCost float64             `json:"shippingCost"`
}
