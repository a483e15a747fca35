package wizard

import (
	"context"
	"errors"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/remote"
)

const placeOrderFailedMsg = "Failed to place order. Please try again."

// PlaceOrder runs the review step protocol: authorize the payment, then,
// only if authorized, create the order. The two calls are strictly
// sequential. Failure of either leaves the session untouched and moves
// the placement to FAILED with a human-readable message; a retry re-runs
// the whole sequence from scratch.
func (w *Wizard) PlaceOrder(ctx context.Context) (PlacementState, error) {
	w.mu.Lock()
	if !canPlace(w.placement.Status) {
		st := w.placement
		w.mu.Unlock()
		return st, ErrPlacementNotAllowed
	}
	shipping, okShipping := w.store.Shipping()
	payment, okPayment := w.store.Payment()
	if !okShipping || !okPayment {
		st := w.placement
		w.mu.Unlock()
		return st, ErrIncompleteSession
	}
	w.placement = PlacementState{Status: PlacementPlacing}
	seq := w.placeSeq
	w.mu.Unlock()

	shippingCost := domain.ShippingCost(shipping.SelectedOption)

	auth, err := w.backend.AuthorizePayment(ctx, &remote.PaymentAuthRequest{
		CardNumber: payment.CardNumber,
		CardName:   payment.CardName,
		ExpiryDate: payment.ExpiryDate,
		CVV:        payment.CVV,
	})
	if err != nil {
		return w.failPlacement(seq, err), nil
	}
	if !auth.Authorized {
		return w.failPlacementMsg(seq, placeOrderFailedMsg), nil
	}

	order, err := w.backend.CreateOrder(ctx, &remote.OrderRequest{
		Shipping:     shipping,
		Payment:      payment,
		ShippingCost: shippingCost,
	})
	if err != nil {
		return w.failPlacement(seq, err), nil
	}

	w.mu.Lock()
	if seq != w.placeSeq {
		// The session was reset while the calls were in flight; the
		// result belongs to an abandoned order.
		st := w.placement
		w.mu.Unlock()
		return st, nil
	}
	// The only path that sets the order id.
	w.store.SetOrderID(order.OrderID)
	w.placement = PlacementState{Status: PlacementSucceeded}
	st := w.placement
	w.mu.Unlock()

	w.events.OrderPlaced(ctx, order.OrderID, order.Total, shippingCost)
	return st, nil
}

// Placement returns the current placement state.
func (w *Wizard) Placement() PlacementState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placement
}

// failPlacement prefers the backend-supplied message and falls back to a
// generic one for transport errors.
func (w *Wizard) failPlacement(seq int, err error) PlacementState {
	msg := placeOrderFailedMsg
	var srvErr *remote.ServerError
	if errors.As(err, &srvErr) && srvErr.Message != "" {
		msg = srvErr.Message
	}
	return w.failPlacementMsg(seq, msg)
}

// failPlacementMsg records the failure unless the placement went stale
// (the session was reset mid-flight).
func (w *Wizard) failPlacementMsg(seq int, msg string) PlacementState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.placeSeq {
		return w.placement
	}
	w.placement = PlacementState{Status: PlacementFailed, Message: msg}
	return w.placement
}
