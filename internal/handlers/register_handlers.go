package handlers

import (
	"github.com/SscSPs/benefit_accounts_app/cmd/docs"
	portssvc "github.com/SscSPs/benefit_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/benefit_accounts_app/internal/middleware"
	"github.com/SscSPs/benefit_accounts_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	useJSONFieldNames()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")
	protect := middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)

	accounts := v1.Group("/accounts")
	registerAccountRoutes(accounts, services.Account, protect)
	registerTransferRoutes(accounts, services.Transfer, protect)
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
