package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oscarfh/bizdesk/internal/auth"
	analyticsHandler "github.com/oscarfh/bizdesk/internal/http/analytics"
	catalogHandler "github.com/oscarfh/bizdesk/internal/http/catalog"
	documentHandler "github.com/oscarfh/bizdesk/internal/http/document"
	partyHandler "github.com/oscarfh/bizdesk/internal/http/party"
)

func New(
	secret string,
	documentsV1 *documentHandler.Handler,
	partiesV1 *partyHandler.Handler,
	catalogV1 *catalogHandler.Handler,
	analyticsV1 *analyticsHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(secret))

		r.Route("/documents", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			documentsV1.Routes(r)
		})

		r.Route("/parties", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			partiesV1.Routes(r)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			catalogV1.Routes(r)
		})

		r.Route("/analytics", analyticsV1.Routes)
	})

	return router
}
