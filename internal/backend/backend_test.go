package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/remote"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer().Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestValidateEmail_Available(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/validate-email",
		remote.EmailCheckRequest{Email: "new@example.com"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out remote.EmailCheckResponse
	decode(t, resp, &out)
	assert.True(t, out.Available)
	assert.Equal(t, "Email is available", out.Message)
}

func TestValidateEmail_Taken(t *testing.T) {
	srv := newTestServer(t)

	// Lookup is case-insensitive.
	resp := postJSON(t, srv.URL+"/api/auth/validate-email",
		remote.EmailCheckRequest{Email: "Taken@Example.com"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out remote.EmailCheckResponse
	decode(t, resp, &out)
	assert.False(t, out.Available)
	assert.Equal(t, "Email already in use", out.Message)
}

func TestValidateEmail_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/auth/validate-email", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShippingQuote_ReturnsOptions(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/shipping/quote", remote.ShippingQuoteRequest{
		Address: "123 Main St", City: "New York", State: "NY", ZipCode: "10001",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out remote.ShippingQuoteResponse
	decode(t, resp, &out)
	require.Len(t, out.Options, 3)
	assert.Equal(t, "standard", out.Options[0].ID)
	assert.Equal(t, 24.99, out.Options[2].Price)
}

func TestAuthorizePayment_InjectedFailure(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/payment/authorize?fail=payment",
		remote.PaymentAuthRequest{CardNumber: "4111111111111111"})

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var out map[string]string
	decode(t, resp, &out)
	assert.Equal(t, "Payment authorization failed. Please try again.", out["error"])
}

func TestCreateOrder(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", remote.OrderRequest{ShippingCost: 12.99})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out domain.Order
	decode(t, resp, &out)
	assert.True(t, strings.HasPrefix(out.OrderID, "ORD-"))
	assert.Len(t, out.OrderID, len("ORD-")+9)
	assert.Equal(t, "confirmed", out.Status)
	assert.Equal(t, 112.99, out.Total)
}

func TestSession_WrappedEnvelope(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/session")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]domain.Snapshot
	decode(t, resp, &out)
	_, ok := out["session"]
	assert.True(t, ok)
}
