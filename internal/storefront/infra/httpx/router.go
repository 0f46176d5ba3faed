package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jcmexdev/storefront-api/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", handler.ListProducts)
	r.Post("/order", handler.CreateOrder)
	r.Get("/order/{id}", handler.GetOrder)
	r.Put("/order/{id}", handler.UpdateOrder)
	return r
}
