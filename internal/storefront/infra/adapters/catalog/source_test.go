package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected int64
	}{
		{"nil", nil, 0},
		{"small number is decimal currency", float64(28), 2800},
		{"decimal number", 29.45, 2945},
		{"comma decimal string", "29,45", 2945},
		{"dot decimal string", "17.68", 1768},
		{"padded string", " 28 ", 2800},
		{"large number already cents", float64(2810), 2810},
		{"large string already cents", "1750", 1750},
		{"just below the threshold", 999.99, 99999},
		{"exactly at the threshold", float64(1000), 1000},
		{"unparseable string", "abc", 0},
		{"unsupported type", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toCents(tt.value))
		})
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [
			{"id": 1, "name": "Brown eggs", "description": "Raw organic brown eggs", "price": 2810, "weight": 400, "in_stock": true, "image": "0.jpg"},
			{"id": 2, "name": "Stawberry", "description": null, "price": "29,45", "weight": 299, "in_stock": false, "image": null}
		]}`))
	}))
	defer srv.Close()

	products, err := NewSource(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Brown eggs", products[0].Name)
	assert.Equal(t, int64(2810), products[0].Price)
	assert.Equal(t, int64(400), products[0].Weight)
	assert.True(t, products[0].InStock)
	assert.Equal(t, "0.jpg", products[0].Image)

	assert.Equal(t, int64(2945), products[1].Price)
	assert.False(t, products[1].InStock)
	assert.Empty(t, products[1].Description)
	assert.Empty(t, products[1].Image)
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetch_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewSource(srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}
