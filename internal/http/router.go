package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocket/internal/http/export"
	"github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pocket/internal/http/matching"
	"github.com/MrJamesThe3rd/pocket/internal/http/records"
	"github.com/MrJamesThe3rd/pocket/internal/http/stats"
	"github.com/MrJamesThe3rd/pocket/internal/http/taxonomy"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

type Handlers struct {
	Records  *records.Handler
	Stats    *stats.Handler
	Taxonomy *taxonomy.Handler
	Import   *importcsv.Handler
	Matching *matching.Handler
	Export   *export.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Records.Routes(r)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Stats.Routes(r)
		})

		r.Route("/categories", h.Taxonomy.CategoryRoutes)
		r.Route("/accounts", h.Taxonomy.AccountRoutes)

		r.Route("/import", h.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			h.Matching.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
