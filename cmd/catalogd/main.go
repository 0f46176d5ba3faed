// Command catalogd is a local stand-in for the remote catalog source, for
// development against the storefront without the remote shop. It serves a
// fixed product list with the price-format variety seen in the real catalog
// (plain cents, decimal numbers, comma-decimal strings).
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

var products = []map[string]any{
	{"id": 1, "name": "Brown eggs", "description": "Raw organic brown eggs in a basket", "price": 2810, "weight": 400, "in_stock": true, "image": "0.jpg"},
	{"id": 2, "name": "Sweet fresh stawberry", "description": "Sweet fresh stawberry on the wooden table", "price": "29,45", "weight": 299, "in_stock": true, "image": "1.jpg"},
	{"id": 3, "name": "Asparagus", "description": "Fresh green asparagus", "price": 23.45, "weight": 1500, "in_stock": false, "image": "2.jpg"},
	{"id": 4, "name": "Green smoothie", "description": "Glass of green smoothie with spinach", "price": 17.68, "weight": 700, "in_stock": true, "image": "3.jpg"},
	{"id": 5, "name": "Raw legums", "description": "Raw legums on the wooden table", "price": 1750, "weight": 2100, "in_stock": true, "image": "4.jpg"},
}

func main() {
	addr := getEnv("CATALOGD_LISTEN_ADDR", ":8091")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"products": products}); err != nil {
			log.Printf("encode catalog: %v", err)
		}
	})

	log.Printf("catalogd (stand-in catalog) running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
