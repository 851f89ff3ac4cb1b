package transport

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ecomcore/order-service/internal/handler"
	"github.com/ecomcore/order-service/internal/order"
)

func NewRouter(svc order.Service, probe handler.HealthProbe) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health(probe))

	h := handler.NewOrderHandler(svc)
	h.RegisterRoutes(r)

	return r
}
