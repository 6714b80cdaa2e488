package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-salesdesk/internal/config"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/middleware"
)

type routerDeps struct {
	cfg          *config.Config
	health       *handlers.HealthHandler
	webhook      *handlers.WebhookHandler
	sales        *handlers.SaleHandler
	clients      *handlers.ClientHandler
	tickets      *handlers.TicketHandler
	admin        *handlers.AdminHandler
	auth         *handlers.AuthHandler
	authenticate middleware.Authenticator
	loginLimiter *handlers.RateLimiter
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if d.cfg.Server.TrustedProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Webhook-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", d.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Called by the payment provider, authenticated by the optional shared token.
		r.Post("/webhook/sales", d.webhook.Handle)

		r.With(d.loginLimiter.Limit).Post("/login", d.auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.authenticate))

			r.Post("/logout", d.auth.Logout)
			r.Put("/change-password", d.auth.ChangePassword)
			r.Get("/me", d.auth.Me)

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", d.sales.List)
				r.Post("/", d.sales.Create)
				r.Get("/metrics", d.sales.Metrics)
				r.Get("/charts", d.sales.Charts)
				r.Get("/{id}", d.sales.Get)
				r.Put("/{id}", d.sales.Update)
				r.Delete("/{id}", d.sales.Delete)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", d.clients.List)
				r.Post("/", d.clients.Create)
				r.Get("/{id}", d.clients.Get)
				r.Put("/{id}", d.clients.Update)
				r.Delete("/{id}", d.clients.Delete)
			})

			r.Route("/support/tickets", func(r chi.Router) {
				r.Get("/", d.tickets.List)
				r.Post("/", d.tickets.Create)
				r.Get("/{id}", d.tickets.Get)
				r.Put("/{id}", d.tickets.Update)
				r.Delete("/{id}", d.tickets.Delete)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				d.admin.Routes(r)
			})
		})
	})

	return r
}
