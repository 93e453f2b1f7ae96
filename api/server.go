package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
}

func NewServer(cfg config.Config, database database.Database) (Server, error) {
	// Capture startup time
	startupTime := time.Now()

	router := newRouter(database,
		withOrigins(cfg.Origins()),
		withMaxBodyBytes(cfg.MaxBodyBytes),
		withStartupTime(startupTime),
	)

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server}, nil
}

type router struct {
	origins      []string
	maxBodyBytes int64
	startupTime  time.Time
}

func withOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.origins = origins
	}
}

func withMaxBodyBytes(maxBodyBytes int64) func(*router) {
	return func(r *router) {
		if maxBodyBytes > 0 {
			r.maxBodyBytes = maxBodyBytes
		}
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{
		origins:      []string{"*"},
		maxBodyBytes: config.Default().MaxBodyBytes,
		startupTime:  time.Now(),
	}
	for _, opt := range opts {
		opt(&router)
	}

	metrics := newHTTPMetrics()
	responder := NewResponder(log.With().Str("handlerName", "router").Logger())

	chiRouter := chi.NewRouter()
	chiRouter.Use(requestID)
	chiRouter.Use(logRequests)
	chiRouter.Use(metrics.middleware)
	chiRouter.Use(recoverPanics)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewRouteNotFoundError(r.URL.Path))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewMethodNotAllowedError(r.Method, r.URL.Path))
	})

	// Initialize all handlers
	handlers := initializeHandlers(database, router.maxBodyBytes, router.startupTime)

	setupRoutes(chiRouter, handlers, metrics)

	return chiRouter
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
