package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/server/endpoint"
	"github.com/kbukum/voicenotes/server/middleware"
)

// Server is the local control server: a Gin engine behind a net/http
// middleware chain, served over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	middleware []middleware.Middleware
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. No middleware is applied until ApplyMiddleware.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Use appends net/http middleware around the whole engine. The first added
// is the outermost.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.middleware = append(s.middleware, mws...)
}

// Handler returns the full handler chain: middleware, then h2c, then Gin.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.engine
	if len(s.middleware) > 0 {
		h = middleware.Chain(s.middleware...)(h)
	}
	return h2c.NewHandler(h, &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(s.config.IdleTimeout) * time.Second,
	})
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.httpServer.Handler = s.Handler()

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("control server listening", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("control server stopped")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// ApplyMiddleware installs the standard stack: request id, request logging,
// CORS and the body size limit around the engine, panic recovery and the
// optional bearer token inside it.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.RequestID(),
		middleware.RequestLogger(s.log),
		middleware.CORS(&s.config.CORS),
		middleware.BodySizeLimit(s.config.MaxBodySize),
	)
	s.engine.Use(middleware.Recovery(s.log))
	if s.config.Token != "" {
		s.engine.Use(middleware.TokenAuth(middleware.AuthConfig{
			Token:     s.config.Token,
			SkipPaths: []string{"/health", "/info"},
		}))
	}
}

// RegisterDefaultEndpoints registers /health, /info and /metrics.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info())
	s.engine.GET("/metrics", endpoint.Metrics())
}

// ApplyDefaults applies the standard middleware and registers the default endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker) {
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(serviceName, checker)
}

// CommandLimiter returns the per-client command rate limiter, or a no-op
// when the limit is disabled.
func (s *Server) CommandLimiter() gin.HandlerFunc {
	if s.config.CommandsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: s.config.CommandsPerMinute})
}
