// Package config collects the environment-driven settings of the storefront
// API. Every value has a built-in default so the binary runs with no
// environment at all.
package config

import "os"

const (
	defaultListenAddr  = ":8080"
	defaultDBPath      = "./storefront.db"
	defaultProductsURL = "http://dimensweb.uqac.ca/~jgnault/shops/products/"
	defaultPaymentURL  = "https://dimensweb.uqac.ca/~jgnault/shops/pay/"
)

type Config struct {
	// ListenAddr is the HTTP listen address of the API.
	ListenAddr string

	// DBPath is the SQLite database file location.
	DBPath string

	// ProductsURL is the remote catalog source, fetched once at startup.
	ProductsURL string

	// PaymentURL is the remote payment processor endpoint.
	PaymentURL string

	// RedisAddr enables the redis-backed product-list cache when non-empty;
	// otherwise an in-process cache is used.
	RedisAddr string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		ListenAddr:  getEnv("STOREFRONT_LISTEN_ADDR", defaultListenAddr),
		DBPath:      getEnv("STOREFRONT_DB_PATH", defaultDBPath),
		ProductsURL: getEnv("STOREFRONT_PRODUCTS_URL", defaultProductsURL),
		PaymentURL:  getEnv("STOREFRONT_PAYMENT_URL", defaultPaymentURL),
		RedisAddr:   os.Getenv("STOREFRONT_REDIS_ADDR"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
