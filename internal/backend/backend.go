// Package backend is a stand-in implementation of the remote checkout
// operations, used for local runs and tests. Failure modes are injected
// per request with the ?fail=<name> query parameter.
package backend

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/remote"
)

var takenEmails = map[string]bool{
	"taken@example.com": true,
	"admin@test.com":    true,
}

type Server struct{}

func NewServer() *Server {
	return &Server{}
}

// Routes mounts the backend endpoints on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/auth/validate-email", s.validateEmail)
	r.Post("/api/shipping/quote", s.shippingQuote)
	r.Post("/api/payment/authorize", s.authorizePayment)
	r.Post("/api/orders", s.createOrder)
	r.Get("/api/session", s.session)
	return r
}

func shouldFail(r *http.Request, name string) bool {
	return r.URL.Query().Get("fail") == name
}

func (s *Server) validateEmail(w http.ResponseWriter, r *http.Request) {
	if shouldFail(r, "email") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req remote.EmailCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if takenEmails[strings.ToLower(req.Email)] {
		respondJSON(w, http.StatusOK, remote.EmailCheckResponse{
			Available: false,
			Message:   "Email already in use",
		})
		return
	}
	respondJSON(w, http.StatusOK, remote.EmailCheckResponse{
		Available: true,
		Message:   "Email is available",
	})
}

func (s *Server) shippingQuote(w http.ResponseWriter, r *http.Request) {
	if shouldFail(r, "shipping") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req remote.ShippingQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	respondJSON(w, http.StatusOK, remote.ShippingQuoteResponse{Options: DefaultOptions()})
}

func (s *Server) authorizePayment(w http.ResponseWriter, r *http.Request) {
	if shouldFail(r, "payment") {
		respondError(w, http.StatusInternalServerError, "Payment authorization failed. Please try again.")
		return
	}

	var req remote.PaymentAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	respondJSON(w, http.StatusOK, remote.PaymentAuthResponse{
		Authorized:    true,
		TransactionID: fmt.Sprintf("TXN-%d", rand.Int63()),
	})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	if shouldFail(r, "order") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req remote.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	respondJSON(w, http.StatusCreated, domain.Order{
		OrderID: newOrderID(),
		Status:  "confirmed",
		Total:   100.00 + req.ShippingCost,
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	if shouldFail(r, "session") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]domain.Snapshot{"session": {}})
}

// DefaultOptions is the canned shipping quote.
func DefaultOptions() []domain.ShippingOption {
	return []domain.ShippingOption{
		{ID: "standard", Name: "Standard Shipping", Price: 5.99, EstimatedDays: "5-7 business days"},
		{ID: "express", Name: "Express Shipping", Price: 12.99, EstimatedDays: "2-3 business days"},
		{ID: "overnight", Name: "Overnight Shipping", Price: 24.99, EstimatedDays: "Next business day"},
	}
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newOrderID() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return "ORD-" + string(b)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
