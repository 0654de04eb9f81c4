package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kmccarty/tradeops/internal/auth"
	authapi "github.com/kmccarty/tradeops/internal/http/auth"
	"github.com/kmccarty/tradeops/internal/http/catalog"
	"github.com/kmccarty/tradeops/internal/http/customer"
	"github.com/kmccarty/tradeops/internal/http/dashboard"
	"github.com/kmccarty/tradeops/internal/http/followup"
	"github.com/kmccarty/tradeops/internal/http/job"
	"github.com/kmccarty/tradeops/internal/http/quote"
)

func New(
	tokens *auth.Service,
	authV1 *authapi.Handler,
	customersV1 *customer.Handler,
	catalogV1 *catalog.Handler,
	quotesV1 *quote.Handler,
	jobsV1 *job.Handler,
	followupsV1 *followup.Handler,
	dashboardV1 *dashboard.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Everything below requires a session token.
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware)

			r.Route("/customers", func(r chi.Router) {
				customersV1.Routes(r)
			})

			r.Route("/catalog", catalogV1.Routes)

			r.Route("/quotes", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				quotesV1.Routes(r)
			})

			r.Route("/jobs", func(r chi.Router) {
				jobsV1.Routes(r)
			})

			r.Route("/followups", func(r chi.Router) {
				followupsV1.Routes(r)
			})

			r.Route("/dashboard", dashboardV1.Routes)
		})
	})

	return router
}
