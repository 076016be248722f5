package server

import (
	"context"
	"errors"
	"net/http"

	ginhandler "user-rest-service/internal/adapter/gin/handler"
	ginmiddleware "user-rest-service/internal/adapter/gin/middleware"
	"user-rest-service/internal/config"
	redisclient "user-rest-service/pkg/redis"

	"go.uber.org/zap"
)

// Server holds the HTTP server exposing the REST API
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	handler *ginhandler.UserHandler,
	rateLimit *ginmiddleware.RateLimiterConfig,
	redisClient *redisclient.Client,
) *Server {
	s := &Server{Config: cfg, Logger: l}
	s.HTTP = SetupHTTPServer(handler, rateLimit, redisClient, s.httpAddress(), cfg.Logger.ServiceName, l)
	return s
}

// httpAddress returns the REST API listen address
func (s *Server) httpAddress() string {
	return ":" + s.Config.App.HTTPPort
}

// Start serves HTTP requests until the server is shut down. A clean
// shutdown is not reported as an error.
func (s *Server) Start() error {
	s.Logger.Info("REST API running", zap.String("address", s.httpAddress()))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting new requests and drains in-flight ones until
// the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.HTTP == nil {
		return nil
	}
	return s.HTTP.Shutdown(ctx)
}
