package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NoBrokers(t *testing.T) {
	assert.Nil(t, NewPublisher("checkout-orders"))
}

func TestOrderPlaced_NilPublisherNoOp(t *testing.T) {
	var p *Publisher

	p.OrderPlaced(context.Background(), "ORD-ABC123XYZ", 105.99, 5.99)
	assert.NoError(t, p.Close())
}

func TestOrderPlaced_PublishFailureSwallowed(t *testing.T) {
	// Nothing listens on this address; the write fails once the context
	// gives up.
	p := NewPublisher("checkout-orders", "127.0.0.1:1")
	require.NotNil(t, p)
	t.Cleanup(func() { p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Must return normally; the failure is logged, never surfaced.
	p.OrderPlaced(ctx, "ORD-ABC123XYZ", 105.99, 5.99)
}
