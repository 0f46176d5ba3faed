// Package catalog fetches the authoritative product list from the remote
// shop and normalizes its price field into cents.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
)

// Source is the HTTP implementation of ports.CatalogSource.
type Source struct {
	url    string
	client *http.Client
}

// NewSource returns a catalog source reading from the given URL.
func NewSource(url string) *Source {
	return &Source{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// rawProduct mirrors the remote catalog wire format. The price field arrives
// as either a number or a string depending on the entry, hence `any`.
type rawProduct struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       any     `json:"price"`
	Weight      int64   `json:"weight"`
	InStock     bool    `json:"in_stock"`
	Image       *string `json:"image"`
}

type catalogResponse struct {
	Products []rawProduct `json:"products"`
}

// Fetch performs the one-shot catalog download. Any transport error, non-200
// status or malformed body is returned as an error; the caller treats it as
// fatal at startup.
func (s *Source) Fetch(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	var body catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}

	products := make([]entity.Product, 0, len(body.Products))
	for _, raw := range body.Products {
		products = append(products, entity.Product{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: deref(raw.Description),
			Price:       toCents(raw.Price),
			Weight:      raw.Weight,
			InStock:     raw.InStock,
			Image:       deref(raw.Image),
		})
	}
	return products, nil
}

// toCents normalizes a price of unknown unit into cents.
//
// Heuristic inherited from the upstream catalog contract: small values
// (e.g. 28 or "29,45") are decimal-currency amounts to multiply by 100,
// large values (e.g. 2810) are already cents. Values in [1000, 10000) that
// are genuinely decimal amounts are misread — known limitation, kept to
// match the reference data. Unparseable input normalizes to 0.
func toCents(value any) int64 {
	if value == nil {
		return 0
	}

	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if f < 1000 {
		return int64(math.Round(f * 100))
	}
	return int64(math.Round(f))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
