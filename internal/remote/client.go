package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/quickcart/checkout-wizard/domain"
)

// Client talks JSON over HTTP to the checkout backend. All calls share a
// circuit breaker so a flapping backend fails fast instead of piling up
// in-flight requests.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group // Dedupes identical in-flight quote requests
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "checkout-backend",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

func (c *Client) CheckEmail(ctx context.Context, email string) (*EmailCheckResponse, error) {
	var out EmailCheckResponse
	err := c.post(ctx, "/api/auth/validate-email", &EmailCheckRequest{Email: email}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) QuoteShipping(ctx context.Context, req *ShippingQuoteRequest) (*ShippingQuoteResponse, error) {
	// Qualifying edits can re-fire quotes rapidly for the same address;
	// collapse concurrent duplicates into one request.
	key := fmt.Sprintf("%s|%s|%s|%s", req.Address, req.City, req.State, req.ZipCode)
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		var out ShippingQuoteResponse
		if err := c.post(ctx, "/api/shipping/quote", req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ShippingQuoteResponse), nil
}

func (c *Client) AuthorizePayment(ctx context.Context, req *PaymentAuthRequest) (*PaymentAuthResponse, error) {
	var out PaymentAuthResponse
	if err := c.post(ctx, "/api/payment/authorize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req *OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.post(ctx, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchSession(ctx context.Context) (*domain.Snapshot, error) {
	var out struct {
		Session domain.Snapshot `json:"session"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &out); err != nil {
		return nil, err
	}
	return &out.Session, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, serverError(resp)
		}

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return nil, fmt.Errorf("read response failed: %w", err)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// serverError extracts the server-supplied message from an error body of
// the form {"error": "..."} when present.
func serverError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
}
