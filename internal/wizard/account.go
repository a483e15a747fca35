package wizard

import (
	"context"

	"github.com/quickcart/checkout-wizard/domain"
)

const (
	emailCheckingStatus  = "Checking availability..."
	emailAvailableStatus = "Email is available"
	emailCheckFailedMsg  = "Failed to validate email. Please try again."
	emailTakenFallback   = "Email already in use"
)

func (w *Wizard) accountInitial() map[string]string {
	account, ok := w.store.Account()
	if !ok {
		return nil
	}
	return map[string]string{
		"email":    account.Email,
		"password": account.Password,
	}
}

// maybeCheckEmailLocked starts the availability check if the email field
// currently has a value and no local schema error. While the request is
// in flight a transient "checking" status is shown instead of an error.
func (w *Wizard) maybeCheckEmailLocked() {
	email := w.form.Value("email")
	if email == "" {
		return
	}
	if _, bad := w.form.Errors()["email"]; bad {
		return
	}

	w.emailSeq++
	seq := w.emailSeq
	w.emailStatus = emailCheckingStatus
	w.emailErr = ""

	go w.checkEmail(seq, email)
}

// checkEmail runs off the request goroutine; the sequence number gates
// the result so an answer that arrives after the user edited the email
// again, or left the step, is discarded.
func (w *Wizard) checkEmail(seq int, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	resp, err := w.backend.CheckEmail(ctx, email)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.emailSeq || w.step != domain.StepAccount {
		return // stale
	}

	if err != nil {
		w.emailErr = emailCheckFailedMsg
		w.emailStatus = ""
		return
	}
	if !resp.Available {
		w.emailErr = resp.Message
		if w.emailErr == "" {
			w.emailErr = emailTakenFallback
		}
		w.emailStatus = ""
		return
	}
	w.emailErr = ""
	w.emailStatus = emailAvailableStatus
}

// submitAccountLocked commits the account data unless a schema error or
// a still-standing availability error blocks it. A previously successful
// availability check is not re-verified here.
func (w *Wizard) submitAccountLocked(ctx context.Context) *SubmitResult {
	ok := w.form.Submit()
	errs := w.form.VisibleErrors()
	if w.emailErr != "" {
		errs["email"] = w.emailErr
		ok = false
	}
	if !ok {
		return &SubmitResult{OK: false, Errors: errs}
	}

	w.store.SetAccount(ctx, domain.AccountData{
		Email:    w.form.Value("email"),
		Password: w.form.Value("password"),
	})
	return &SubmitResult{OK: true, Next: w.advanceLocked()}
}
