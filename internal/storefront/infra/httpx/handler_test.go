package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront-api/internal/pkg/cache"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront-api/internal/storefront/core/service"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/adapters/sqlite"
)

type stubCatalog struct {
	products []entity.Product
}

func (s *stubCatalog) Fetch(ctx context.Context) ([]entity.Product, error) {
	return s.products, nil
}

type stubGateway struct {
	status int
	body   map[string]any
	calls  int
}

func (s *stubGateway) Charge(ctx context.Context, creditCard map[string]any, amountCharged int64) (int, map[string]any, error) {
	s.calls++
	return s.status, s.body, nil
}

func approvedBody() map[string]any {
	return map[string]any{
		"credit_card": map[string]any{"first_digits": "4242", "last_digits": "4242"},
		"transaction": map[string]any{"id": "wgEQ4zAm", "success": true},
	}
}

func setupRouter(t *testing.T, gateway *stubGateway) http.Handler {
	t.Helper()
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	source := &stubCatalog{products: []entity.Product{
		{ID: 1, Name: "Brown eggs", Description: "Raw organic", Price: 1000, Weight: 400, InStock: true, Image: "0.jpg"},
		{ID: 2, Name: "Asparagus", Price: 2345, Weight: 1500, InStock: false},
	}}

	svc := service.New(repo, repo, source, gateway)
	require.NoError(t, svc.LoadCatalog(context.Background()))

	return NewRouter(NewHandler(svc, cache.NewMemoryCache("test")))
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func assertErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder, scope, code string) {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	body := decodeBody(t, recorder)
	detail, ok := body["errors"].(map[string]any)[scope].(map[string]any)
	require.True(t, ok, "expected error scope %q in %v", scope, body)
	assert.Equal(t, code, detail["code"])
	assert.NotEmpty(t, detail["name"])
}

// createOrder posts a valid creation and follows the Location header.
func createOrder(t *testing.T, router http.Handler) string {
	t.Helper()
	recorder := doRequest(t, router, http.MethodPost, "/order", `{"product": {"id": 1, "quantity": 2}}`)
	require.Equal(t, http.StatusFound, recorder.Code)
	location := recorder.Header().Get("Location")
	require.NotEmpty(t, location)
	return location
}

func TestListProducts(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	recorder := doRequest(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	products := body["products"].([]any)
	require.Len(t, products, 2)

	first := products[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Brown eggs", first["name"])
	assert.Equal(t, true, first["in_stock"])
	assert.Equal(t, float64(1000), first["price"])
	assert.Equal(t, float64(400), first["weight"])
	assert.Equal(t, "Raw organic", first["description"])
	assert.Equal(t, "0.jpg", first["image"])

	second := products[1].(map[string]any)
	assert.Equal(t, false, second["in_stock"])
	assert.Nil(t, second["description"])

	// The cached second response is byte-identical.
	again := doRequest(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, again.Code)
	assert.JSONEq(t, recorder.Body.String(), again.Body.String())
}

func TestCreateOrder_RedirectsToOrder(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	location := createOrder(t, router)
	assert.Regexp(t, `^/order/\d+$`, location)

	recorder := doRequest(t, router, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	order := decodeBody(t, recorder)["order"].(map[string]any)
	assert.Equal(t, float64(2000), order["total_price"])
	assert.Equal(t, float64(1000), order["shipping_price"])
	assert.Equal(t, float64(2000), order["total_price_tax"])
	assert.Equal(t, false, order["paid"])
	assert.Nil(t, order["email"])
	assert.Equal(t, map[string]any{}, order["shipping_information"])
	assert.Equal(t, map[string]any{}, order["credit_card"])
	assert.Equal(t, map[string]any{}, order["transaction"])

	product := order["product"].(map[string]any)
	assert.Equal(t, float64(1), product["id"])
	assert.Equal(t, float64(2), product["quantity"])
}

func TestCreateOrder_IDsIncrease(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	first := createOrder(t, router)
	second := createOrder(t, router)
	assert.NotEqual(t, first, second)

	var firstID, secondID int64
	_, err := fmt.Sscanf(first, "/order/%d", &firstID)
	require.NoError(t, err)
	_, err = fmt.Sscanf(second, "/order/%d", &secondID)
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)
}

func TestCreateOrder_MissingFields(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	tests := []struct {
		name string
		body string
	}{
		{"empty payload", `{}`},
		{"product not an object", `{"product": 12}`},
		{"missing quantity", `{"product": {"id": 1}}`},
		{"missing id", `{"product": {"quantity": 2}}`},
		{"non-numeric id", `{"product": {"id": "abc", "quantity": 2}}`},
		{"zero quantity", `{"product": {"id": 1, "quantity": 0}}`},
		{"malformed json", `{"product": `},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, router, http.MethodPost, "/order", tt.body)
			assertErrorResponse(t, recorder, "product", "missing-fields")
		})
	}
}

func TestCreateOrder_OutOfInventory(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	recorder := doRequest(t, router, http.MethodPost, "/order", `{"product": {"id": 2, "quantity": 1}}`)
	assertErrorResponse(t, recorder, "product", "out-of-inventory")

	recorder = doRequest(t, router, http.MethodPost, "/order", `{"product": {"id": 99, "quantity": 1}}`)
	assertErrorResponse(t, recorder, "product", "out-of-inventory")
}

func TestGetOrder_NotFound(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	recorder := doRequest(t, router, http.MethodGet, "/order/999", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Empty(t, recorder.Body.String())

	recorder = doRequest(t, router, http.MethodGet, "/order/abc", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

const customerInfoPayloadJSON = `{
	"order": {
		"email": "jgnault@uqac.ca",
		"shipping_information": {
			"country": "Canada",
			"address": "201, rue Président-Kennedy",
			"postal_code": "G7X 3Y7",
			"city": "Chicoutimi",
			"province": "QC"
		}
	}
}`

func TestUpdateOrder_CustomerInfo(t *testing.T) {
	router := setupRouter(t, &stubGateway{})
	location := createOrder(t, router)

	recorder := doRequest(t, router, http.MethodPut, location, customerInfoPayloadJSON)
	require.Equal(t, http.StatusOK, recorder.Code)

	order := decodeBody(t, recorder)["order"].(map[string]any)
	assert.Equal(t, "jgnault@uqac.ca", order["email"])
	assert.Equal(t, float64(2300), order["total_price_tax"])
	assert.Equal(t, float64(1000), order["shipping_price"])

	shipping := order["shipping_information"].(map[string]any)
	assert.Equal(t, "QC", shipping["province"])
	assert.Equal(t, "Chicoutimi", shipping["city"])
}

func TestUpdateOrder_IncompleteCustomerInfo(t *testing.T) {
	router := setupRouter(t, &stubGateway{})
	location := createOrder(t, router)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"order": {"shipping_information": {"country": "Canada", "address": "a", "postal_code": "b", "city": "c", "province": "QC"}}}`},
		{"missing city", `{"order": {"email": "a@b.c", "shipping_information": {"country": "Canada", "address": "a", "postal_code": "b", "province": "QC"}}}`},
		{"empty province", `{"order": {"email": "a@b.c", "shipping_information": {"country": "Canada", "address": "a", "postal_code": "b", "city": "c", "province": ""}}}`},
		{"null order", `{"order": null}`},
		{"unrecognized payload", `{}`},
		{"malformed json", `{"order": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, router, http.MethodPut, location, tt.body)
			assertErrorResponse(t, recorder, "order", "missing-fields")
		})
	}
}

func TestUpdateOrder_PaymentFlow(t *testing.T) {
	gateway := &stubGateway{status: 200, body: approvedBody()}
	router := setupRouter(t, gateway)
	location := createOrder(t, router)

	recorder := doRequest(t, router, http.MethodPut, location, customerInfoPayloadJSON)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(t, router, http.MethodPut, location,
		`{"credit_card": {"number": "4242 4242 4242 4242", "name": "John Doe", "expiration_month": 9, "expiration_year": 2029, "cvv": "123"}}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	order := decodeBody(t, recorder)["order"].(map[string]any)
	assert.Equal(t, true, order["paid"])
	assert.Equal(t, "wgEQ4zAm", order["transaction"].(map[string]any)["id"])
	assert.Equal(t, "4242", order["credit_card"].(map[string]any)["last_digits"])
	assert.Equal(t, 1, gateway.calls)
}

func TestUpdateOrder_PaymentBeforeCustomerInfo(t *testing.T) {
	gateway := &stubGateway{status: 200, body: approvedBody()}
	router := setupRouter(t, gateway)
	location := createOrder(t, router)

	recorder := doRequest(t, router, http.MethodPut, location, `{"credit_card": {"number": "4242 4242 4242 4242"}}`)
	assertErrorResponse(t, recorder, "order", "missing-fields")
	assert.Zero(t, gateway.calls)
}

func TestUpdateOrder_BothPayloads(t *testing.T) {
	gateway := &stubGateway{status: 200, body: approvedBody()}
	router := setupRouter(t, gateway)
	location := createOrder(t, router)

	payload := `{
		"order": {"email": "a@b.c", "shipping_information": {"country": "Canada", "address": "a", "postal_code": "b", "city": "c", "province": "QC"}},
		"credit_card": {"number": "4242 4242 4242 4242"}
	}`
	recorder := doRequest(t, router, http.MethodPut, location, payload)
	assertErrorResponse(t, recorder, "order", "missing-fields")
	assert.Zero(t, gateway.calls)
}

func TestUpdateOrder_AlreadyPaid(t *testing.T) {
	gateway := &stubGateway{status: 200, body: approvedBody()}
	router := setupRouter(t, gateway)
	location := createOrder(t, router)

	doRequest(t, router, http.MethodPut, location, customerInfoPayloadJSON)
	first := doRequest(t, router, http.MethodPut, location, `{"credit_card": {"number": "4242 4242 4242 4242"}}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, router, http.MethodPut, location, `{"credit_card": {"number": "4242 4242 4242 4242"}}`)
	assertErrorResponse(t, second, "order", "already-paid")
	assert.Equal(t, 1, gateway.calls)

	// The settled order still serves the first attempt's transaction.
	recorder := doRequest(t, router, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	order := decodeBody(t, recorder)["order"].(map[string]any)
	assert.Equal(t, true, order["paid"])
	assert.Equal(t, "wgEQ4zAm", order["transaction"].(map[string]any)["id"])
}

func TestUpdateOrder_GatewayDeclinePassthrough(t *testing.T) {
	declineBody := map[string]any{
		"errors": map[string]any{
			"credit_card": map[string]any{"code": "card-declined", "name": "La carte de crédit a été déclinée"},
		},
	}
	gateway := &stubGateway{status: 422, body: declineBody}
	router := setupRouter(t, gateway)
	location := createOrder(t, router)

	doRequest(t, router, http.MethodPut, location, customerInfoPayloadJSON)
	recorder := doRequest(t, router, http.MethodPut, location, `{"credit_card": {"number": "4000 0000 0000 0002"}}`)

	// The processor's status and body come back untouched.
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	expected, err := json.Marshal(declineBody)
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), recorder.Body.String())

	// The order stays unpaid and payable.
	get := doRequest(t, router, http.MethodGet, location, "")
	order := decodeBody(t, get)["order"].(map[string]any)
	assert.Equal(t, false, order["paid"])
}

func TestUpdateOrder_UnknownOrder(t *testing.T) {
	router := setupRouter(t, &stubGateway{})

	recorder := doRequest(t, router, http.MethodPut, "/order/999", customerInfoPayloadJSON)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}
