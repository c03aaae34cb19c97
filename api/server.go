/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/clients/*          Client management
  /api/policies/*         Policy management and calculators
  /api/global-policies/*  Template catalog
  /api/tasks/*            Task management
  /api/dashboard/*        KPIs, projections, renewal alerts
  /api/pipeline           Pipeline stage grouping
  /api/settings           Advisor settings
  /api/scenarios/*        Demo scenarios
  /api/reset              Database reset (dev only)

SECURITY NOTE:
  Single-tenant deployment. No authentication middleware; the server is
  meant to sit behind the advisor's own machine or a private network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// frontendOrigin is added to the CORS allow list alongside localhost.
func NewRouter(h *Handler, frontendOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	origins := []string{"http://localhost:5173", "http://localhost:8080"}
	if frontendOrigin != "" {
		origins = append(origins, frontendOrigin)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Client routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
			r.Get("/{id}/policies", h.ListClientPolicies)
			r.Get("/{id}/tasks", h.ListClientTasks)
		})

		// Policy routes
		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.ListPolicies)
			r.Post("/", h.CreatePolicy)
			r.Post("/from-global", h.CreatePolicyFromGlobal)
			r.Post("/derive", h.DerivePolicyFields)
			r.Get("/{id}", h.GetPolicy)
			r.Put("/{id}", h.UpdatePolicy)
			r.Delete("/{id}", h.DeletePolicy)
			r.Get("/{id}/commission", h.GetPolicyCommission)
			r.Get("/{id}/renewal", h.GetPolicyRenewal)
		})

		// Template catalog routes
		r.Route("/global-policies", func(r chi.Router) {
			r.Get("/", h.ListGlobalPolicies)
			r.Post("/", h.CreateGlobalPolicy)
			r.Get("/{id}", h.GetGlobalPolicy)
			r.Put("/{id}", h.UpdateGlobalPolicy)
			r.Delete("/{id}", h.DeleteGlobalPolicy)
		})

		// Task routes
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Put("/{id}", h.UpdateTask)
			r.Post("/{id}/complete", h.CompleteTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		// Dashboard routes
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.GetDashboard)
			r.Get("/yearly-commissions", h.GetYearlyCommissions)
			r.Get("/renewals", h.GetUpcomingRenewals)
		})

		r.Get("/pipeline", h.GetPipeline)

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.SaveSettings)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Landing page for a browser hitting the bare server.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Advisor Wealth Hub</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Advisor Wealth Hub API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/clients">/api/clients</a> - List clients</li>
<li><a href="/api/policies">/api/policies</a> - List policies</li>
<li><a href="/api/global-policies">/api/global-policies</a> - Template catalog</li>
<li><a href="/api/dashboard">/api/dashboard</a> - Dashboard KPIs</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
