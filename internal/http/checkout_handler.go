package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/wizard"
)

// SessionHeader carries the checkout session id. The handler issues a
// fresh id when the client does not send one and always echoes it back.
const SessionHeader = "X-Checkout-Session"

type CheckoutHandler struct {
	manager *Manager
}

func NewCheckoutHandler(manager *Manager) *CheckoutHandler {
	return &CheckoutHandler{manager: manager}
}

type ChangeRequestDTO struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type BlurRequestDTO struct {
	Field string `json:"field"`
}

type SelectOptionRequestDTO struct {
	OptionID string `json:"optionId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Routes mounts the checkout API.
func (h *CheckoutHandler) Routes(r chi.Router) {
	r.Route("/api/checkout", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/reset", h.Reset)
		r.Get("/success", h.Success)
		r.Route("/steps/{step}", func(r chi.Router) {
			r.Post("/open", h.OpenStep)
			r.Post("/change", h.Change)
			r.Post("/blur", h.Blur)
			r.Post("/submit", h.Submit)
		})
		r.Get("/shipping/options", h.ShippingOptions)
		r.Post("/shipping/select", h.SelectOption)
		r.Post("/review/place-order", h.PlaceOrder)
	})
}

// wizardFor resolves the session's wizard and echoes the session id.
func (h *CheckoutHandler) wizardFor(w http.ResponseWriter, r *http.Request) *wizard.Wizard {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(SessionHeader, id)
	return h.manager.Get(id)
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)
	respondJSON(w, http.StatusOK, map[string]any{
		"session": wiz.Snapshot(),
		"orderId": wiz.OrderID(),
		"step":    wiz.Step(),
	})
}

func (h *CheckoutHandler) OpenStep(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)
	step, ok := domain.ParseStep(chi.URLParam(r, "step"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_step", "no such checkout step")
		return
	}
	wiz.OpenStep(step)
	respondJSON(w, http.StatusOK, wiz.State())
}

func (h *CheckoutHandler) Change(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizardAtStep(w, r)
	if !ok {
		return
	}

	var req ChangeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := wiz.Change(req.Field, req.Value); err != nil {
		respondWizardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wiz.State())
}

func (h *CheckoutHandler) Blur(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizardAtStep(w, r)
	if !ok {
		return
	}

	var req BlurRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := wiz.Blur(req.Field); err != nil {
		respondWizardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wiz.State())
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wiz, ok := h.wizardAtStep(w, r)
	if !ok {
		return
	}

	result, err := wiz.Submit(r.Context())
	if err != nil {
		respondWizardError(w, err)
		return
	}
	if !result.OK {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) ShippingOptions(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)
	respondJSON(w, http.StatusOK, map[string]any{"options": wiz.Options()})
}

func (h *CheckoutHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)

	var req SelectOptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := wiz.SelectOption(req.OptionID); err != nil {
		respondWizardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wiz.State())
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)

	state, err := wiz.PlaceOrder(r.Context())
	if err != nil {
		respondWizardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"placement": state,
		"orderId":   wiz.OrderID(),
	})
}

// Success is the success page guard: without an order id the client is
// silently redirected back to the wizard start.
func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)
	orderID := wiz.OrderID()
	if orderID == "" {
		http.Redirect(w, r, domain.PathOf(domain.StepAccount), http.StatusSeeOther)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"orderId": orderID})
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizardFor(w, r)
	wiz.Reset(r.Context())
	respondJSON(w, http.StatusOK, wiz.State())
}

// wizardAtStep resolves the wizard and rejects requests whose step path
// does not match the currently mounted step.
func (h *CheckoutHandler) wizardAtStep(w http.ResponseWriter, r *http.Request) (*wizard.Wizard, bool) {
	wiz := h.wizardFor(w, r)
	step, ok := domain.ParseStep(chi.URLParam(r, "step"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_step", "no such checkout step")
		return nil, false
	}
	if wiz.Step() != step {
		respondError(w, http.StatusConflict, "step_not_mounted", "open the step before interacting with it")
		return nil, false
	}
	return wiz, true
}

func respondWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrNoActiveForm):
		respondError(w, http.StatusConflict, "no_active_form", err.Error())
	case errors.Is(err, wizard.ErrUnknownField):
		respondError(w, http.StatusBadRequest, "unknown_field", err.Error())
	case errors.Is(err, wizard.ErrUnknownOption):
		respondError(w, http.StatusUnprocessableEntity, "unknown_option", err.Error())
	case errors.Is(err, wizard.ErrIncompleteSession):
		respondError(w, http.StatusConflict, "incomplete_session", err.Error())
	case errors.Is(err, wizard.ErrPlacementNotAllowed):
		respondError(w, http.StatusConflict, "placement_not_allowed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
