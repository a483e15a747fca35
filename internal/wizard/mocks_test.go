package wizard

import (
	"context"
	"sync"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/remote"
)

// mockBackend is a hand-rolled remote.Backend with per-call error
// injection and call counting.
type mockBackend struct {
	m sync.Mutex

	emailResp  *remote.EmailCheckResponse
	emailErr   error
	emailCalls int

	quoteResp  *remote.ShippingQuoteResponse
	quoteErr   error
	quoteCalls int

	authResp  *remote.PaymentAuthResponse
	authErr   error
	authCalls int

	orderResp  *domain.Order
	orderErr   error
	orderCalls int

	sessionSnap *domain.Snapshot
	sessionErr  error

	// emailGate and authGate, when set, block the corresponding call
	// until closed. Lets tests hold a request in flight.
	emailGate chan struct{}
	authGate  chan struct{}
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		emailResp: &remote.EmailCheckResponse{Available: true, Message: "Email is available"},
		quoteResp: &remote.ShippingQuoteResponse{Options: defaultOptions()},
		authResp:  &remote.PaymentAuthResponse{Authorized: true, TransactionID: "TXN-1"},
		orderResp: &domain.Order{OrderID: "ORD-ABC123XYZ", Status: "confirmed", Total: 105.99},
	}
}

func defaultOptions() []domain.ShippingOption {
	return []domain.ShippingOption{
		{ID: "standard", Name: "Standard Shipping", Price: 5.99, EstimatedDays: "5-7 business days"},
		{ID: "express", Name: "Express Shipping", Price: 12.99, EstimatedDays: "2-3 business days"},
		{ID: "overnight", Name: "Overnight Shipping", Price: 24.99, EstimatedDays: "Next business day"},
	}
}

func (b *mockBackend) CheckEmail(context.Context, string) (*remote.EmailCheckResponse, error) {
	b.m.Lock()
	gate := b.emailGate
	b.m.Unlock()
	if gate != nil {
		<-gate
	}

	b.m.Lock()
	defer b.m.Unlock()
	b.emailCalls++
	if b.emailErr != nil {
		return nil, b.emailErr
	}
	return b.emailResp, nil
}

func (b *mockBackend) QuoteShipping(context.Context, *remote.ShippingQuoteRequest) (*remote.ShippingQuoteResponse, error) {
	b.m.Lock()
	defer b.m.Unlock()
	b.quoteCalls++
	if b.quoteErr != nil {
		return nil, b.quoteErr
	}
	return b.quoteResp, nil
}

func (b *mockBackend) AuthorizePayment(context.Context, *remote.PaymentAuthRequest) (*remote.PaymentAuthResponse, error) {
	b.m.Lock()
	gate := b.authGate
	b.m.Unlock()
	if gate != nil {
		<-gate
	}

	b.m.Lock()
	defer b.m.Unlock()
	b.authCalls++
	if b.authErr != nil {
		return nil, b.authErr
	}
	return b.authResp, nil
}

func (b *mockBackend) CreateOrder(context.Context, *remote.OrderRequest) (*domain.Order, error) {
	b.m.Lock()
	defer b.m.Unlock()
	b.orderCalls++
	if b.orderErr != nil {
		return nil, b.orderErr
	}
	return b.orderResp, nil
}

func (b *mockBackend) FetchSession(context.Context) (*domain.Snapshot, error) {
	b.m.Lock()
	defer b.m.Unlock()
	if b.sessionErr != nil {
		return nil, b.sessionErr
	}
	if b.sessionSnap == nil {
		return &domain.Snapshot{}, nil
	}
	return b.sessionSnap, nil
}

func (b *mockBackend) setEmail(resp *remote.EmailCheckResponse, err error) {
	b.m.Lock()
	defer b.m.Unlock()
	b.emailResp = resp
	b.emailErr = err
}

func (b *mockBackend) setAuth(resp *remote.PaymentAuthResponse, err error) {
	b.m.Lock()
	defer b.m.Unlock()
	b.authResp = resp
	b.authErr = err
}

func (b *mockBackend) setQuote(resp *remote.ShippingQuoteResponse, err error) {
	b.m.Lock()
	defer b.m.Unlock()
	b.quoteResp = resp
	b.quoteErr = err
}

func (b *mockBackend) calls() (email, quote, auth, order int) {
	b.m.Lock()
	defer b.m.Unlock()
	return b.emailCalls, b.quoteCalls, b.authCalls, b.orderCalls
}
