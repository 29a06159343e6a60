package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lunchdesk/api/internal/config"
	"github.com/lunchdesk/api/internal/enum"
	"github.com/lunchdesk/api/internal/handler"
	mw "github.com/lunchdesk/api/internal/middleware"
	"github.com/lunchdesk/api/internal/service"
	"github.com/lunchdesk/api/internal/upstream"
	"github.com/lunchdesk/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, client *upstream.Client, svc *service.OrderService, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // frontend dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(cfg.JWTSecret, cfg.AdminPasswordHash)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/kitchens/{kid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.UserRoleAdmin))

		orderHandler := handler.NewOrderHandler(svc, hub)
		r.Route("/orders", orderHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(svc)
		r.Route("/products", productHandler.RegisterRoutes)

		locationHandler := handler.NewLocationHandler(client)
		r.Route("/locations", locationHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
