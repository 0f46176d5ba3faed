package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jcmexdev/storefront-api/internal/pkg/cache"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/service"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/httpx/middlewares"
)

// Handler handles incoming HTTP requests for the storefront.
type Handler struct {
	service *service.OrderService
	cache   cache.Cache
}

// NewHandler initializes the handler with the order service and the
// product-list cache.
func NewHandler(s *service.OrderService, c cache.Cache) *Handler {
	return &Handler{service: s, cache: c}
}

// ListProducts returns the whole catalog. The serialized response is cached:
// the catalog never changes after startup, so the entry never goes stale.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := h.cache.GenerateKey("products", "all")

	if cached, err := h.cache.Get(ctx, key); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := productsResponse{Products: make([]productResponse, 0, len(products))}
	for _, p := range products {
		response.Products = append(response.Products, mapProductToResponse(p))
	}

	if payload, err := json.Marshal(response); err == nil {
		if err := h.cache.Set(ctx, key, string(payload), 0); err != nil {
			slog.WarnContext(ctx, "product list cache write failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// CreateOrder opens a new order for a product and quantity. The response is
// a redirect-style 302 pointing at the created resource, with no body.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payload := decodePayload(r.Body)

	productID, quantity, ok := parseProductRef(payload["product"])
	if !ok {
		writeRequestError(w, apperrors.MissingProductFields())
		return
	}

	requestID, _ := r.Context().Value(middlewares.ContextKeyRequestID).(string)
	slog.InfoContext(r.Context(), "creating order", "request_id", requestID, "product_id", productID)

	order, err := h.service.CreateOrder(r.Context(), productID, quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/order/%d", order.ID))
	w.WriteHeader(http.StatusFound)
}

// GetOrder returns a single order, totals freshly recomputed.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromURL(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderEnvelope{Order: mapOrderToResponse(order)})
}

// UpdateOrder applies either a customer-information payload or a credit-card
// payload to an order. The two are mutually exclusive in one request:
// customer information must be set in a prior, separate call.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromURL(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// The order must exist before any payload validation, so an unknown id
	// always answers 404 regardless of the body.
	if _, err := h.service.GetOrder(r.Context(), orderID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	payload := decodePayload(r.Body)
	infoRaw, hasInfo := payload["order"]
	cardRaw, hasCard := payload["credit_card"]

	if hasInfo && hasCard {
		writeRequestError(w, apperrors.CustomerInfoRequired())
		return
	}

	switch {
	case hasInfo:
		h.attachCustomerInfo(w, r, orderID, infoRaw)
	case hasCard:
		h.attachPayment(w, r, orderID, cardRaw)
	default:
		writeRequestError(w, apperrors.MissingOrderFields())
	}
}

func (h *Handler) attachCustomerInfo(w http.ResponseWriter, r *http.Request, orderID int64, raw json.RawMessage) {
	var info customerInfoPayload
	// Invalid or null values fall through as empty fields.
	_ = json.Unmarshal(raw, &info)

	order, err := h.service.AttachCustomerInfo(r.Context(), orderID, info.Email, entity.ShippingInfo{
		Country:    info.ShippingInformation.Country,
		Address:    info.ShippingInformation.Address,
		PostalCode: info.ShippingInformation.PostalCode,
		City:       info.ShippingInformation.City,
		Province:   info.ShippingInformation.Province,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderEnvelope{Order: mapOrderToResponse(order)})
}

func (h *Handler) attachPayment(w http.ResponseWriter, r *http.Request, orderID int64, raw json.RawMessage) {
	var card map[string]any
	_ = json.Unmarshal(raw, &card)
	if card == nil {
		card = map[string]any{}
	}

	requestID, _ := r.Context().Value(middlewares.ContextKeyRequestID).(string)
	slog.InfoContext(r.Context(), "submitting payment", "request_id", requestID, "order_id", orderID)

	order, err := h.service.AttachPayment(r.Context(), orderID, card)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderEnvelope{Order: mapOrderToResponse(order)})
}

// orderIDFromURL parses the {id} URL parameter. Non-numeric ids answer 404,
// the same as unknown ones.
func orderIDFromURL(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
