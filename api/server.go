package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Aidin1998/itemsvc/common/apiutil"
	_ "github.com/Aidin1998/itemsvc/docs"
	"github.com/Aidin1998/itemsvc/internal/items"
	"github.com/Aidin1998/itemsvc/pkg/metrics"
	"github.com/Aidin1998/itemsvc/pkg/validation"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	limiter "github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Options tunes the router. The zero value gives a working server with
// metrics on a private registry and no /metrics route.
type Options struct {
	// ServiceName names the otelgin spans
	ServiceName string
	// Registry receives the Prometheus collectors; nil means a private one
	Registry *prometheus.Registry
	// MetricsPath mounts promhttp when non-empty
	MetricsPath string
	// AllowOrigins for CORS; ["*"] or empty allows every origin
	AllowOrigins []string
	CORSMaxAge   time.Duration
	// RateLimit is a limiter formatted rate ("100-S"); empty disables it
	RateLimit string
	// SanitizeNames strips markup from item names
	SanitizeNames bool
	// Docs mounts Swagger UI at /docs
	Docs bool
	// MaxBodyBytes caps request bodies; 0 disables the cap
	MaxBodyBytes int64
}

// Server represents the API server
type Server struct {
	router    *gin.Engine
	logger    *zap.Logger
	store     items.Store
	validator *validation.Validator
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	opts      Options
}

// NewServer creates a new API server around an injected item store
func NewServer(logger *zap.Logger, store items.Store, opts Options) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "itemsvc"
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	server := &Server{
		logger:    logger,
		store:     store,
		validator: validation.NewValidator(logger, opts.SanitizeNames),
		registry:  opts.Registry,
		opts:      opts,
	}
	server.metrics = metrics.New(opts.Registry, server.storedItems)

	// Create router
	router := gin.New()

	// Add middleware
	router.Use(apiutil.TraceIDMiddleware())
	router.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("trace_id", apiutil.GetTraceID(c))}
		},
	}))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware(opts.ServiceName))
	router.Use(cors.New(corsConfig(opts)))
	router.Use(apiutil.MetricsMiddleware(server.metrics))
	router.Use(validation.BodyLimitMiddleware(logger, opts.MaxBodyBytes))

	server.router = router
	if err := server.registerRoutes(); err != nil {
		return nil, err
	}
	return server, nil
}

func corsConfig(opts Options) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", apiutil.TraceIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.TraceIDHeader},
		MaxAge:        opts.CORSMaxAge,
	}
	if len(opts.AllowOrigins) == 0 || (len(opts.AllowOrigins) == 1 && opts.AllowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = opts.AllowOrigins
	}
	return cfg
}

// Handler returns the router as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Metrics exposes the server's collectors
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Server) storedItems() float64 {
	return float64(s.store.Len(context.Background()))
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() error {
	// Liveness
	s.router.GET("/ping", s.ping)

	if s.opts.MetricsPath != "" {
		s.router.GET(s.opts.MetricsPath, gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	if s.opts.Docs {
		s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	itemsGroup := s.router.Group("/items")
	if s.opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(s.opts.RateLimit)
		if err != nil {
			return fmt.Errorf("invalid rate limit %q: %w", s.opts.RateLimit, err)
		}
		itemsGroup.Use(ginlimiter.NewMiddleware(limiter.New(memory.NewStore(), rate)))
	}
	{
		itemsGroup.GET("", s.listItems)
		itemsGroup.POST("", s.createItem)
		itemsGroup.GET("/:id", s.getItem)
		itemsGroup.PUT("/:id", s.updateItem)
		itemsGroup.DELETE("/:id", s.deleteItem)
	}

	return nil
}
