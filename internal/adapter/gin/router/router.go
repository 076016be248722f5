package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-rest-service/internal/adapter/gin/handler"
	"user-rest-service/internal/adapter/gin/middleware"
	redisclient "user-rest-service/pkg/redis"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. Rate limiting is mounted only when both a configuration
// and a Redis client are provided.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimit *middleware.RateLimiterConfig,
	redisClient *redisclient.Client,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	if rateLimit != nil && redisClient != nil {
		router.Use(middleware.RateLimiter(*rateLimit, redisClient.Client, log))
	}

	// Health check endpoint. When caching is enabled the response also
	// reflects whether Redis is reachable.
	router.GET("/health", func(c *gin.Context) {
		resp := gin.H{
			"status":  "healthy",
			"service": serviceName,
		}
		if redisClient != nil {
			if err := redisClient.HealthCheck(c.Request.Context()); err != nil {
				resp["status"] = "degraded"
				resp["cache"] = "unreachable"
			} else {
				resp["cache"] = "ok"
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	// Plain-text greeting
	router.GET("/hello", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello world")
	})

	// User CRUD routes. Update and delete accept the target ID either as
	// a path parameter or as an id query parameter.
	users := router.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("", userHandler.UpdateUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("", userHandler.DeleteUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// Swagger UI backed by the static OpenAPI document. A single wildcard
	// route serves both the UI assets and the document itself.
	swaggerUI := httpSwagger.Handler(httpSwagger.URL("/swagger/users.swagger.json"))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/users.swagger.json" {
			c.File("./api/swagger/users.swagger.json")
			return
		}
		swaggerUI.ServeHTTP(c.Writer, c.Request)
	})

	// Unknown routes answer with the standard JSON error body
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "route not found",
		})
	})

	return router
}
