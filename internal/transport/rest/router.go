package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/nhatminh-dev/drinkstore/internal/cart"
	"github.com/nhatminh-dev/drinkstore/internal/catalog"
	"github.com/nhatminh-dev/drinkstore/internal/order"
	"github.com/nhatminh-dev/drinkstore/internal/payment"
	"github.com/nhatminh-dev/drinkstore/internal/transport/middleware"
	"github.com/nhatminh-dev/drinkstore/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, redisClient *redis.Client, catalogHandler *catalog.Handler, cartHandler *cart.Handler, orderHandler *order.Handler, paymentHandler *payment.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, redisClient)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if catalogHandler != nil {
			r.Route("/products", func(pr chi.Router) {
				pr.Get("/", catalogHandler.ListProducts)
				pr.Get("/{id}", catalogHandler.GetProduct)
			})
		}

		if cartHandler != nil {
			r.Route("/carts/{customerID}", func(cr chi.Router) {
				cr.Get("/", cartHandler.GetCart)
				cr.Post("/items", cartHandler.AddItem)
				cr.Delete("/items", cartHandler.ClearCart)
			})
		}

		if orderHandler != nil {
			r.Route("/orders", func(or chi.Router) {
				or.Post("/", orderHandler.CreateOrder)
				or.Get("/", orderHandler.ListOrders)
				or.Get("/{id}", orderHandler.GetOrder)
				or.Patch("/{id}/status", orderHandler.UpdateStatus)
			})
		}

		if paymentHandler != nil {
			r.Route("/payments", func(pr chi.Router) {
				// The gateway calls return and ipn; they stay outside
				// the idempotency layer so the code contract decides.
				pr.Get("/return", paymentHandler.Return)
				pr.Get("/ipn", paymentHandler.IPN)

				pr.Group(func(cr chi.Router) {
					if redisClient != nil {
						cr.Use(middleware.IdempotencyMiddleware(redisClient))
					}
					cr.Post("/create", paymentHandler.CreatePayment)
				})
			})
		}
	})
}
