package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/arcagent/arcagent/internal/api/docs"
	"github.com/arcagent/arcagent/internal/api/handler"
	mw "github.com/arcagent/arcagent/internal/api/middleware"
	"github.com/arcagent/arcagent/internal/config"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/messaging"
)

// ReadyCheck reports whether a dependency is usable.
type ReadyCheck func(ctx context.Context) error

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	cfg      *config.Config
	services *core.Services
	catalog  *messaging.Catalog
	rdb      redis.UniversalClient
	mcp      http.Handler
	checks   map[string]ReadyCheck
}

// NewServer builds the HTTP surface. rdb and mcp may be nil.
func NewServer(
	logger zerolog.Logger,
	cfg *config.Config,
	services *core.Services,
	catalog *messaging.Catalog,
	rdb redis.UniversalClient,
	mcp http.Handler,
	checks map[string]ReadyCheck,
) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		cfg:      cfg,
		services: services,
		catalog:  catalog,
		rdb:      rdb,
		mcp:      mcp,
		checks:   checks,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// API documentation (no auth required)
	s.router.Get("/docs/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
	})
	s.router.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(scalarHTML))
	})

	// The PIN setup link is the credential for these two.
	registration := handler.NewRegistration(s.services.Registration)
	s.router.Get("/setup-pin", handler.PINSetupPage)
	s.router.Post("/registrations/{phone}/pin", registration.SetPIN)

	// The provider authenticates with a request signature, not the API key.
	webhook := handler.NewWebhook(
		s.services.Chat,
		mw.NewRateLimiter(s.rdb, "webhook", s.cfg.WebhookRateLimit, s.cfg.WebhookRateWindow),
		s.catalog,
		handler.WebhookOptions{AuthToken: s.cfg.TwilioAuthToken, PublicURL: s.cfg.PublicWebhookURL},
	)
	s.router.Post("/webhooks/twilio/incoming", webhook.Incoming)

	if s.mcp != nil {
		s.router.Route("/mcp", func(r chi.Router) {
			r.Use(mw.Auth(s.cfg.BackendAPIKey))
			r.Mount("/", s.mcp)
		})
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.cfg.BackendAPIKey))

		// Registrations
		r.Post("/registrations", registration.Start)
		r.Get("/registrations/{phone}", registration.Status)
		r.Post("/registrations/{phone}/verify-code", registration.VerifyCode)
		r.Post("/registrations/{phone}/pin", registration.SetPIN)

		// Payments
		payment := handler.NewPayment(s.services.Payment)
		r.Post("/payments", payment.Start)
		r.Get("/payments/{workflowID}", payment.Status)
		r.Post("/payments/{workflowID}/confirm", payment.Confirm)
		r.Post("/payments/{workflowID}/cancel", payment.Cancel)
		r.Get("/payments/{workflowID}/watch", payment.Watch)

		// Users
		account := handler.NewAccount(s.services.Account)
		r.Get("/users/{phone}/balance", account.Balance)
		r.Get("/users/{phone}/transactions", account.Transactions)
		r.Get("/users/{phone}/summary", account.Summary)
		r.Post("/users/{phone}/pin/verify", account.VerifyPIN)

		// Messages
		message := handler.NewMessage(s.services.Chat)
		r.Post("/messages", message.Send)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	results := map[string]string{}
	healthy := true

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
		} else {
			results[name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(results)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const scalarHTML = `<!DOCTYPE html>
<html>
<head>
  <title>ArcAgent API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/docs/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
