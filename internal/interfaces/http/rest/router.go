// Package rest exposes the item service over HTTP/JSON.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	// Registers the OpenAPI document served at /swagger/doc.json.
	_ "github.com/novacaap/java-sample-docker/docs"
	"github.com/novacaap/java-sample-docker/internal/config"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/observability"
	"github.com/novacaap/java-sample-docker/internal/interfaces/http/rest/handlers"
	"github.com/novacaap/java-sample-docker/internal/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	items          *handlers.ItemHandler
	greeting       *handlers.GreetingHandler
	metrics        *observability.Collector
	tracer         trace.Tracer
	cors           config.CORSConfig
	requestTimeout time.Duration
	logger         *zap.Logger
}

// NewRouter creates a new router instance. A nil collector disables request
// metrics and the /metrics endpoint.
func NewRouter(
	items *handlers.ItemHandler,
	greeting *handlers.GreetingHandler,
	metrics *observability.Collector,
	tracer trace.Tracer,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		items:          items,
		greeting:       greeting,
		metrics:        metrics,
		tracer:         tracer,
		cors:           cfg.CORS,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.tracer != nil {
		router.Use(middleware.Tracing(rt.tracer))
	}
	router.Use(middleware.Recovery(rt.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cors.AllowedOrigins,
		AllowedMethods:   rt.cors.AllowedMethods,
		AllowedHeaders:   rt.cors.AllowedHeaders,
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: rt.cors.AllowCredentials,
		MaxAge:           rt.cors.MaxAge,
	}))

	router.Get("/", handlers.Root)
	router.Get("/swagger/doc.json", handlers.SwaggerDoc)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if rt.requestTimeout > 0 {
			r.Use(middleware.Timeout(rt.requestTimeout, rt.logger))
		}

		r.Get("/hello", rt.greeting.Hello)
		r.Get("/health", rt.greeting.Health)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", rt.items.List)
			r.Post("/", rt.items.Create)
			r.Get("/{id}", rt.items.Get)
			r.Delete("/{id}", rt.items.Delete)
		})
	})

	return router
}
