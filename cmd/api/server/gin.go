package server

import (
	"net/http"
	"time"

	ginhandler "user-rest-service/internal/adapter/gin/handler"
	ginmiddleware "user-rest-service/internal/adapter/gin/middleware"
	ginrouter "user-rest-service/internal/adapter/gin/router"
	redisclient "user-rest-service/pkg/redis"

	"go.uber.org/zap"
)

// SetupHTTPServer configures the Gin engine and wraps it in an
// http.Server with timeouts suitable for a public endpoint.
func SetupHTTPServer(
	handler *ginhandler.UserHandler,
	rateLimit *ginmiddleware.RateLimiterConfig,
	redisClient *redisclient.Client,
	addr string,
	serviceName string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, rateLimit, redisClient, serviceName, l)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
