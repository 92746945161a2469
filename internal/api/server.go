package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ServerConfig holds server configuration options
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RateLimit is the sustained number of requests per second; zero or
	// less disables limiting.
	RateLimit float64
	RateBurst int
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:         "",
		Port:         "8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		RateLimit:    50,
		RateBurst:    100,
	}
}

// Addr is the listen address.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, cfg *ServerConfig, log logrus.FieldLogger) *gin.Engine {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.Use(gin.Recovery())
	if cfg.RateLimit > 0 {
		r.Use(RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))))
	}

	setupRoutes(r, handler)
	return r
}

// NewHTTPServer wraps the engine with CORS handling for browser-based
// display clients.
func NewHTTPServer(engine *gin.Engine, cfg *ServerConfig) *http.Server {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      c.Handler(engine),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.HealthCheck)

	v1 := r.Group("/v1")
	{
		v1.POST("/format/title", handler.FormatTitle)
		v1.POST("/format/description", handler.FormatDescription)
		v1.POST("/clean", handler.Clean)
		v1.POST("/special", handler.SpecialContent)
		v1.POST("/highlight", handler.Highlight)
		v1.POST("/links", handler.Links)
		v1.POST("/advanced", handler.Advanced)
		v1.POST("/batch", handler.Batch)
		v1.POST("/overflow", handler.Overflow)
		v1.POST("/suggestions", handler.Suggestions)
		v1.GET("/stats", handler.Stats)
		v1.DELETE("/cache", handler.ClearCache)
		v1.GET("/viewport", handler.GetViewport)
		v1.POST("/viewport", handler.PostViewport)
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start),
		})
		if len(c.Errors) > 0 {
			entry.WithField("error", c.Errors.String()).Warn("Request failed")
			return
		}
		entry.Info("Request served")
	}
}

// RateLimit rejects requests beyond the limiter's rate with 429.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
