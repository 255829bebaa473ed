package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saltscope/internal/domain"
	"saltscope/internal/handler"
	"saltscope/internal/middleware"
	"saltscope/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	analysisH *handler.AnalysisHandler,
	resultH *handler.ResultHandler,
	vdaH *handler.VDAHandler,
	jurisdictionH *handler.JurisdictionHandler,
	tenantH *handler.TenantHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), fileH.Delete)

	// Analysis routes
	analyses := protected.Group("/analyses")
	analyses.POST("", analysisH.Create)
	analyses.GET("", analysisH.List)
	analyses.GET("/:id", analysisH.GetByID)
	analyses.PUT("/:id", analysisH.Update)
	analyses.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), analysisH.Delete)
	analyses.POST("/:id/import", analysisH.Import)
	analyses.POST("/:id/run", analysisH.Run)
	analyses.POST("/:id/physical-nexus", analysisH.AddPhysicalNexus)
	analyses.GET("/:id/physical-nexus", analysisH.ListPhysicalNexus)
	analyses.DELETE("/:id/physical-nexus/:recordId", analysisH.DeletePhysicalNexus)
	analyses.GET("/:id/results", resultH.List)
	analyses.GET("/:id/results/export", resultH.ExportCSV)
	analyses.POST("/:id/vda-scenarios", vdaH.Create)
	analyses.GET("/:id/vda-scenarios", vdaH.List)
	analyses.GET("/:id/vda-scenarios/:scenarioId", vdaH.GetByID)
	analyses.DELETE("/:id/vda-scenarios/:scenarioId", vdaH.Delete)

	// Jurisdiction catalog (read-only for all authenticated users)
	jurisdictions := protected.Group("/jurisdictions")
	jurisdictions.GET("", jurisdictionH.List)
	jurisdictions.GET("/:code/config", jurisdictionH.GetConfig)

	// Tenant self-view
	protected.GET("/tenants/me", tenantH.GetCurrent)

	// User management (tenant-scoped)
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Update)

	// Admin routes - tenant management and tax configuration
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/tenants", tenantH.List)
	admin.GET("/tenants/:id", tenantH.GetByID)
	admin.PUT("/tenants/:id", tenantH.Update)
	admin.PUT("/jurisdictions/:code", jurisdictionH.UpsertJurisdiction)
	admin.PUT("/jurisdictions/:code/threshold", jurisdictionH.UpsertThresholdRule)
	admin.PUT("/jurisdictions/:code/rate", jurisdictionH.UpsertTaxRate)
	admin.PUT("/jurisdictions/:code/marketplace", jurisdictionH.UpsertMarketplaceRule)
	admin.PUT("/jurisdictions/:code/interest-penalty", jurisdictionH.UpsertInterestPenaltyConfig)
	admin.PUT("/jurisdictions/:code/vda-program", jurisdictionH.UpsertVDAProgramRules)

	return r
}
