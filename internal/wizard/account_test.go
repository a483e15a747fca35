package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/remote"
	"github.com/quickcart/checkout-wizard/internal/session"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func newTestWizard(backend remote.Backend) (*Wizard, *session.Store) {
	store := session.NewStore(nil, "test")
	w := New(store, backend, nil)
	w.OpenStep(domain.StepAccount)
	return w, store
}

func typeEmail(t *testing.T, w *Wizard, email string) {
	t.Helper()
	require.NoError(t, w.Change("email", email))
	require.NoError(t, w.Blur("email"))
}

func TestAccountBlur_EmailAvailable(t *testing.T) {
	backend := newMockBackend()
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "new@example.com")

	require.Eventually(t, func() bool {
		return w.State().EmailStatus == emailAvailableStatus
	}, waitFor, tick)
	assert.NotContains(t, w.State().Errors, "email")
}

func TestAccountBlur_EmailTaken(t *testing.T) {
	backend := newMockBackend()
	backend.setEmail(&remote.EmailCheckResponse{Available: false, Message: "Email already in use"}, nil)
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "taken@example.com")

	require.Eventually(t, func() bool {
		return w.State().Errors["email"] != ""
	}, waitFor, tick)
	st := w.State()
	assert.Contains(t, st.Errors["email"], "already in use")
	assert.Empty(t, st.EmailStatus, "error and checking status are mutually exclusive")
}

func TestAccountBlur_TransportFailure(t *testing.T) {
	backend := newMockBackend()
	backend.setEmail(nil, errors.New("connection refused"))
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "new@example.com")

	require.Eventually(t, func() bool {
		return w.State().Errors["email"] == emailCheckFailedMsg
	}, waitFor, tick)
}

func TestAccountBlur_SkippedWhenLocalError(t *testing.T) {
	backend := newMockBackend()
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "not-an-email")

	assert.Never(t, func() bool {
		email, _, _, _ := backend.calls()
		return email > 0
	}, 100*time.Millisecond, tick)
}

func TestAccountBlur_SkippedWhenEmpty(t *testing.T) {
	backend := newMockBackend()
	w, _ := newTestWizard(backend)

	require.NoError(t, w.Blur("email"))

	assert.Never(t, func() bool {
		email, _, _, _ := backend.calls()
		return email > 0
	}, 100*time.Millisecond, tick)
}

func TestAccountChange_ClearsAsyncState(t *testing.T) {
	backend := newMockBackend()
	backend.setEmail(&remote.EmailCheckResponse{Available: false, Message: "Email already in use"}, nil)
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "taken@example.com")
	require.Eventually(t, func() bool {
		return w.State().Errors["email"] != ""
	}, waitFor, tick)

	require.NoError(t, w.Change("email", "other@example.com"))

	st := w.State()
	assert.NotContains(t, st.Errors, "email")
	assert.Empty(t, st.EmailStatus)
}

func TestAccountChange_DiscardsStaleCheck(t *testing.T) {
	backend := newMockBackend()
	gate := make(chan struct{})
	backend.emailGate = gate
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "new@example.com")
	assert.Equal(t, emailCheckingStatus, w.State().EmailStatus)

	// The user edits before the response lands.
	require.NoError(t, w.Change("email", "changed@example.com"))
	close(gate)

	assert.Never(t, func() bool {
		st := w.State()
		return st.EmailStatus == emailAvailableStatus || st.Errors["email"] != ""
	}, 200*time.Millisecond, tick)
}

func TestAccountSubmit_BlockedByAsyncError(t *testing.T) {
	backend := newMockBackend()
	backend.setEmail(&remote.EmailCheckResponse{Available: false, Message: "Email already in use"}, nil)
	w, _ := newTestWizard(backend)

	typeEmail(t, w, "taken@example.com")
	require.NoError(t, w.Change("password", "Password1"))
	require.Eventually(t, func() bool {
		return w.State().Errors["email"] != ""
	}, waitFor, tick)

	result, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Errors["email"], "already in use")
	assert.Equal(t, domain.StepAccount, w.Step())
}

func TestAccountSubmit_InvalidMarksAllTouched(t *testing.T) {
	backend := newMockBackend()
	w, _ := newTestWizard(backend)

	result, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.False(t, result.OK)
	assert.NotEmpty(t, result.Errors["email"])
	assert.NotEmpty(t, result.Errors["password"], "unvisited fields surface errors after submit")
}

func TestAccountSubmit_CommitsAndAdvances(t *testing.T) {
	backend := newMockBackend()
	w, store := newTestWizard(backend)

	require.NoError(t, w.Change("email", "new@example.com"))
	require.NoError(t, w.Change("password", "Password1"))

	result, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, result.OK)
	assert.Equal(t, domain.StepShipping, result.Next)
	assert.Equal(t, domain.StepShipping, w.Step())

	account, ok := store.Account()
	require.True(t, ok)
	assert.Equal(t, "new@example.com", account.Email)
	assert.Equal(t, "Password1", account.Password)
}

func TestAccountOpen_PrefillsFromSession(t *testing.T) {
	backend := newMockBackend()
	w, store := newTestWizard(backend)

	store.SetAccount(context.Background(), domain.AccountData{Email: "a@b.com", Password: "Password1"})
	w.OpenStep(domain.StepAccount)

	assert.Equal(t, "a@b.com", w.State().Values["email"])
}
