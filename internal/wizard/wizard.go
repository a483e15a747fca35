package wizard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/events"
	"github.com/quickcart/checkout-wizard/internal/forms"
	"github.com/quickcart/checkout-wizard/internal/remote"
	"github.com/quickcart/checkout-wizard/internal/session"
)

const remoteTimeout = 10 * time.Second

// Wizard drives one user's checkout through the ordered steps. It owns
// the active step's form, the transient async-check state, and the
// review-step placement protocol. All state behind the mutex; remote
// calls never run while it is held.
type Wizard struct {
	mu      sync.Mutex
	store   *session.Store
	backend remote.Backend
	events  *events.Publisher

	step domain.Step
	form *forms.Form

	// account step: async email availability check
	emailSeq    int
	emailStatus string
	emailErr    string

	// shipping step: quote state
	quoteSeq int
	options  []domain.ShippingOption
	selected string

	// review step: placement protocol. placeSeq gates in-flight
	// placements the same way emailSeq gates email checks.
	placement PlacementState
	placeSeq  int
}

func New(store *session.Store, backend remote.Backend, publisher *events.Publisher) *Wizard {
	return &Wizard{
		store:     store,
		backend:   backend,
		events:    publisher,
		placement: PlacementState{Status: PlacementIdle},
	}
}

// OpenStep mounts the given step, prefilling its form from the session.
// Transient state of the previously mounted step is discarded, and any
// in-flight async check result becomes stale.
func (w *Wizard) OpenStep(step domain.Step) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openStepLocked(step)
}

func (w *Wizard) openStepLocked(step domain.Step) {
	w.step = step
	w.emailSeq++
	w.quoteSeq++
	w.emailStatus = ""
	w.emailErr = ""
	w.options = nil
	w.selected = ""

	switch step {
	case domain.StepAccount:
		w.form = forms.New(forms.Account, w.accountInitial())
	case domain.StepShipping:
		w.form = forms.New(forms.Shipping, w.shippingInitial())
		if shipping, ok := w.store.Shipping(); ok {
			// A restored session keeps its option id even before any
			// quote has landed; a fresh quote that no longer offers it
			// clears the selection.
			w.selected = shipping.SelectedOption
		}
		w.maybeQuoteLocked()
	case domain.StepPayment:
		w.form = forms.New(forms.Payment, w.paymentInitial())
	case domain.StepReview:
		w.form = nil
		if w.placement.Status != PlacementPlacing {
			w.placement = PlacementState{Status: PlacementIdle}
		}
	}
}

// Step returns the currently mounted step.
func (w *Wizard) Step() domain.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Change applies one field edit: sanitizes step-specific input, updates
// the form and revalidates. An email edit invalidates any pending or
// displayed availability result.
func (w *Wizard) Change(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.form == nil {
		return ErrNoActiveForm
	}
	if !w.form.Has(field) {
		return ErrUnknownField
	}

	switch w.step {
	case domain.StepAccount:
		if field == "email" {
			w.emailSeq++ // any new edit invalidates a stale check
			w.emailStatus = ""
			w.emailErr = ""
		}
	case domain.StepShipping:
		if field == "state" {
			value = upper(value)
		}
	case domain.StepPayment:
		value = sanitizePayment(field, value)
	}

	w.form.Change(field, value)

	if w.step == domain.StepShipping {
		w.maybeQuoteLocked()
	}
	return nil
}

// Blur marks the field touched. On the account step an eligible email
// blur additionally kicks off the availability check.
func (w *Wizard) Blur(field string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.form == nil {
		return ErrNoActiveForm
	}
	if !w.form.Has(field) {
		return ErrUnknownField
	}
	w.form.Blur(field)

	if w.step == domain.StepAccount && field == "email" {
		w.maybeCheckEmailLocked()
	}
	return nil
}

// SubmitResult reports the outcome of a step submit. On success Next
// holds the newly mounted step, empty when the wizard was already on the
// last submitting step.
type SubmitResult struct {
	OK     bool              `json:"ok"`
	Errors map[string]string `json:"errors,omitempty"`
	Next   domain.Step       `json:"next,omitempty"`
}

// Submit validates and commits the current step, then advances.
func (w *Wizard) Submit(ctx context.Context) (*SubmitResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.form == nil {
		return nil, ErrNoActiveForm
	}

	switch w.step {
	case domain.StepAccount:
		return w.submitAccountLocked(ctx), nil
	case domain.StepShipping:
		return w.submitShippingLocked(ctx), nil
	case domain.StepPayment:
		return w.submitPaymentLocked(ctx), nil
	default:
		return nil, ErrNoActiveForm
	}
}

// advanceLocked mounts the next step after a successful commit.
func (w *Wizard) advanceLocked() domain.Step {
	next, ok := domain.NextStep(w.step)
	if !ok {
		return ""
	}
	w.openStepLocked(next)
	return next
}

// Reset starts a new order: session, snapshot and all wizard state.
func (w *Wizard) Reset(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store.Reset(ctx)
	w.placement = PlacementState{Status: PlacementIdle}
	w.placeSeq++ // an in-flight placement must not commit into the new session
	w.openStepLocked(domain.StepAccount)
}

// OrderID exposes the session's active order id. Empty until a placement
// succeeds; the success page guard relies on this.
func (w *Wizard) OrderID() string {
	return w.store.OrderID()
}

// Snapshot exposes the session's committed data.
func (w *Wizard) Snapshot() domain.Snapshot {
	return w.store.Snapshot()
}

// Bootstrap seeds an empty session from the remote session endpoint.
// Used only when nothing was restored from the local snapshot.
func (w *Wizard) Bootstrap(ctx context.Context) {
	snap := w.store.Snapshot()
	if snap.Account != nil || snap.Shipping != nil || snap.Payment != nil {
		return
	}
	remoteSnap, err := w.backend.FetchSession(ctx)
	if err != nil {
		log.Printf("session bootstrap failed: %v", err)
		return
	}
	if remoteSnap.Account != nil {
		w.store.SetAccount(ctx, *remoteSnap.Account)
	}
	if remoteSnap.Shipping != nil {
		w.store.SetShipping(ctx, *remoteSnap.Shipping)
	}
	if remoteSnap.Payment != nil {
		w.store.SetPayment(ctx, *remoteSnap.Payment)
	}
}

// State is the render-model of the wizard for the active step.
type State struct {
	Step           domain.Step             `json:"step"`
	StepNumber     int                     `json:"stepNumber"`
	Values         map[string]string       `json:"values,omitempty"`
	Errors         map[string]string       `json:"errors,omitempty"`
	EmailStatus    string                  `json:"emailStatus,omitempty"`
	Options        []domain.ShippingOption `json:"options,omitempty"`
	SelectedOption string                  `json:"selectedOption,omitempty"`
	ShippingCost   float64                 `json:"shippingCost,omitempty"`
	Placement      PlacementState          `json:"placement"`
	OrderID        string                  `json:"orderId,omitempty"`
}

// State returns the visible form state: values, touched-gated schema
// errors plus async errors, and the step-specific extras.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{
		Step:       w.step,
		StepNumber: domain.StepNumber(w.step),
		Placement:  w.placement,
		OrderID:    w.store.OrderID(),
	}
	if w.form != nil {
		st.Values = w.form.Values()
		st.Errors = w.form.VisibleErrors()
	}

	switch w.step {
	case domain.StepAccount:
		st.EmailStatus = w.emailStatus
		if w.emailErr != "" {
			if st.Errors == nil {
				st.Errors = make(map[string]string)
			}
			st.Errors["email"] = w.emailErr
		}
	case domain.StepShipping:
		st.Options = append([]domain.ShippingOption(nil), w.options...)
		st.SelectedOption = w.selected
	case domain.StepReview:
		if shipping, ok := w.store.Shipping(); ok {
			st.ShippingCost = domain.ShippingCost(shipping.SelectedOption)
		}
	}
	return st
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
