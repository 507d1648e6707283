package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/internal/config"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	domainRepo "github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/handler"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/middleware"
	"github.com/sangkips/rajtiles-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Item      *handler.ItemHandler
	Quotation *handler.QuotationHandler
	Document  *handler.DocumentHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Current user
	protected.GET("/me", h.Auth.Me)
	protected.PUT("/me/password", h.Auth.ChangePassword)

	// Users and roles (admin)
	registerUserRoutes(protected, h)

	// Catalog items
	registerItemRoutes(protected, h)

	// Quotations and their documents
	registerQuotationRoutes(protected, h, deps)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(entity.PermissionManageUsers))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission(entity.PermissionManageUsers))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerItemRoutes(protected *gin.RouterGroup, h *Handlers) {
	items := protected.Group("/items")
	items.Use(middleware.RequirePermission(entity.PermissionManageItems))
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/:id", h.Item.Get)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", h.Item.Delete)
		items.POST("/:id/image", h.Item.UploadImage)
	}
}

func registerQuotationRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	quotations := protected.Group("/quotations")
	quotations.Use(middleware.RequirePermission(entity.PermissionManageQuotations))
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Quotation.Create)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.GET("/:id/pdf", h.Document.QuotationPDF)
	}
}
