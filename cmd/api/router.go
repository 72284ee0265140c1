package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/secretsanta/internal/docs"
	"github.com/fkhayef/secretsanta/internal/metrics"
	mw "github.com/fkhayef/secretsanta/pkg/middleware"
)

type routesProvider interface {
	Routes() chi.Router
}

type routerDeps struct {
	logger   *slog.Logger
	sessions mw.SessionResolver
	metrics  *metrics.Metrics
	auth     routesProvider
	users    routesProvider
	groups   routesProvider
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(deps.logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.Authenticate(deps.sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", deps.metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Mount feature routers
	r.Mount("/auth", deps.auth.Routes())
	r.Mount("/me", deps.users.Routes())
	r.Mount("/groups", deps.groups.Routes())

	return r
}
