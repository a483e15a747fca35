package wizard

import (
	"context"
	"log"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/forms"
	"github.com/quickcart/checkout-wizard/internal/remote"
)

const selectOptionMsg = "Select a shipping option"

func (w *Wizard) shippingInitial() map[string]string {
	shipping, ok := w.store.Shipping()
	if !ok {
		return nil
	}
	return map[string]string{
		"firstName": shipping.FirstName,
		"lastName":  shipping.LastName,
		"address":   shipping.Address,
		"city":      shipping.City,
		"state":     shipping.State,
		"zipCode":   shipping.ZipCode,
	}
}

// maybeQuoteLocked requests a shipping quote whenever the address part of
// the form is complete and valid. Qualifying edits simply re-fire; the
// facade collapses concurrent duplicates.
func (w *Wizard) maybeQuoteLocked() {
	values := w.form.Values()
	if values["address"] == "" || values["city"] == "" ||
		values["state"] == "" || values["zipCode"] == "" {
		return
	}
	errs := forms.Shipping.Validate(values)
	for _, field := range []string{"address", "city", "state", "zipCode"} {
		if _, bad := errs[field]; bad {
			return
		}
	}

	w.quoteSeq++
	seq := w.quoteSeq
	req := &remote.ShippingQuoteRequest{
		FirstName: values["firstName"],
		LastName:  values["lastName"],
		Address:   values["address"],
		City:      values["city"],
		State:     values["state"],
		ZipCode:   values["zipCode"],
	}
	go w.fetchQuote(seq, req)
}

// fetchQuote replaces the offered options with the new quote. The
// previously chosen option survives only if the new quote still offers
// its id.
func (w *Wizard) fetchQuote(seq int, req *remote.ShippingQuoteRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	resp, err := w.backend.QuoteShipping(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.quoteSeq || w.step != domain.StepShipping {
		return // stale
	}
	if err != nil {
		log.Printf("failed to fetch shipping quote: %v", err)
		return
	}

	w.options = resp.Options
	if !offered(w.options, w.selected) {
		w.selected = ""
		if shipping, ok := w.store.Shipping(); ok && offered(w.options, shipping.SelectedOption) {
			w.selected = shipping.SelectedOption
		}
	}
}

// SelectOption picks one of the currently offered options.
func (w *Wizard) SelectOption(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != domain.StepShipping {
		return ErrNoActiveForm
	}
	if !offered(w.options, id) {
		return ErrUnknownOption
	}
	w.selected = id
	return nil
}

// Options returns the currently offered quote.
func (w *Wizard) Options() []domain.ShippingOption {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.ShippingOption(nil), w.options...)
}

// submitShippingLocked commits the address plus the chosen option. An
// option must be selected; a valid address alone does not enable the
// submit.
func (w *Wizard) submitShippingLocked(ctx context.Context) *SubmitResult {
	ok := w.form.Submit()
	errs := w.form.VisibleErrors()
	if w.selected == "" {
		errs["selectedOption"] = selectOptionMsg
		ok = false
	}
	if !ok {
		return &SubmitResult{OK: false, Errors: errs}
	}

	w.store.SetShipping(ctx, domain.ShippingData{
		FirstName:      w.form.Value("firstName"),
		LastName:       w.form.Value("lastName"),
		Address:        w.form.Value("address"),
		City:           w.form.Value("city"),
		State:          w.form.Value("state"),
		ZipCode:        w.form.Value("zipCode"),
		SelectedOption: w.selected,
	})
	return &SubmitResult{OK: true, Next: w.advanceLocked()}
}

func offered(options []domain.ShippingOption, id string) bool {
	if id == "" {
		return false
	}
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}
	return false
}
