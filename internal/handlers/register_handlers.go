package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SscSPs/family_finance_agent/cmd/docs"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/middleware"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	apiLimiter, err := middleware.NewMemoryLimiter(cfg.APIRateLimit)
	if err != nil {
		return fmt.Errorf("api rate limit: %w", err)
	}
	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}

	v1 := r.Group("/api/v1", middleware.RateLimit(apiLimiter))
	registerAuthRoutes(v1, services.Auth, services.Sessions, middleware.NewKeyedLimiter(loginLimiter, "login:"))
	setupAPIV1Routes(v1, services)

	// The gateway is called by chat sessions from inside the process, so it sits
	// outside the per-IP limiter.
	gateway := r.Group("/gateway/v1", middleware.AuthMiddleware(services.Auth))
	registerGatewayRoutes(gateway, services.Gateway)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes registers the routes that need an authenticated member.
func setupAPIV1Routes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	authed := v1.Group("", middleware.AuthMiddleware(services.Auth))

	registerChatRoutes(authed, services.Sessions)
	registerFinanceRoutes(authed, services.Finance, DefaultKeepAlive)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
