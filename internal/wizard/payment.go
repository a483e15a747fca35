package wizard

import (
	"context"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/forms"
)

func (w *Wizard) paymentInitial() map[string]string {
	payment, ok := w.store.Payment()
	if !ok {
		return nil
	}
	return map[string]string{
		"cardNumber": payment.CardNumber,
		"cardName":   payment.CardName,
		"expiryDate": payment.ExpiryDate,
		"cvv":        payment.CVV,
	}
}

// sanitizePayment cleans card input as the user types instead of
// rejecting it: non-digits are stripped and the expiry gets its slash.
func sanitizePayment(field, value string) string {
	switch field {
	case "cardNumber":
		digits := forms.DigitsOnly(value)
		if len(digits) > 16 {
			digits = digits[:16]
		}
		return digits
	case "expiryDate":
		return forms.FormatExpiry(value)
	case "cvv":
		digits := forms.DigitsOnly(value)
		if len(digits) > 4 {
			digits = digits[:4]
		}
		return digits
	default:
		return value
	}
}

func (w *Wizard) submitPaymentLocked(ctx context.Context) *SubmitResult {
	if !w.form.Submit() {
		return &SubmitResult{OK: false, Errors: w.form.VisibleErrors()}
	}

	w.store.SetPayment(ctx, domain.PaymentData{
		CardNumber: w.form.Value("cardNumber"),
		CardName:   w.form.Value("cardName"),
		ExpiryDate: w.form.Value("expiryDate"),
		CVV:        w.form.Value("cvv"),
	})
	return &SubmitResult{OK: true, Next: w.advanceLocked()}
}
