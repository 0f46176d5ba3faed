// Command paymentd is a local stand-in for the remote payment processor,
// for development and manual testing only. It speaks the same wire contract:
// POST / with {credit_card, amount_charged}, answering either
// {credit_card, transaction} or an error envelope.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Charges above this amount (in cents) are declined, so the decline path can
// be exercised locally without a real processor account.
const declineLimit = 100000

type chargeRequest struct {
	CreditCard    map[string]any `json:"credit_card"`
	AmountCharged int64          `json:"amount_charged"`
}

type processor struct {
	mu           sync.Mutex
	transactions map[string]int64
}

func main() {
	addr := getEnv("PAYMENTD_LISTEN_ADDR", ":8090")

	p := &processor{transactions: make(map[string]int64)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /", p.charge)

	log.Printf("paymentd (stand-in processor) running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func (p *processor) charge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "incorrect-number", "Le numéro de la carte de crédit est invalide")
		return
	}

	number := cardNumber(req.CreditCard)
	if number == "" {
		writeError(w, http.StatusUnprocessableEntity, "incorrect-number", "Le numéro de la carte de crédit est invalide")
		return
	}

	// The well-known test decline number.
	if number == "4000000000000002" {
		writeError(w, http.StatusUnprocessableEntity, "card-declined", "La carte de crédit a été déclinée")
		return
	}

	if req.AmountCharged > declineLimit {
		writeError(w, http.StatusUnprocessableEntity, "card-declined", "La carte de crédit a été déclinée")
		return
	}

	transactionID := uuid.NewString()

	p.mu.Lock()
	p.transactions[transactionID] = req.AmountCharged
	p.mu.Unlock()

	log.Printf("[paymentd] charge approved: %s for %d cents", transactionID, req.AmountCharged)

	writeJSON(w, http.StatusOK, map[string]any{
		"credit_card": echoCard(req.CreditCard, number),
		"transaction": map[string]any{
			"id":             transactionID,
			"success":        true,
			"amount_charged": req.AmountCharged,
		},
	})
}

// echoCard returns the redacted card echo: first and last digits only, never
// the full number.
func echoCard(card map[string]any, number string) map[string]any {
	echo := map[string]any{
		"name":             card["name"],
		"expiration_month": card["expiration_month"],
		"expiration_year":  card["expiration_year"],
	}
	if len(number) >= 4 {
		echo["first_digits"] = number[:4]
		echo["last_digits"] = number[len(number)-4:]
	}
	return echo
}

func cardNumber(card map[string]any) string {
	number, _ := card["number"].(string)
	return strings.ReplaceAll(number, " ", "")
}

func writeError(w http.ResponseWriter, status int, code, name string) {
	writeJSON(w, status, map[string]any{
		"errors": map[string]any{
			"credit_card": map[string]any{"code": code, "name": name},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "encode response:", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
