package router

import (
	"github.com/gin-gonic/gin"

	"opsboard/internal/domain"
	"opsboard/internal/handler"
	"opsboard/internal/middleware"
	"opsboard/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	screenH *handler.ScreenHandler,
	uploadH *handler.UploadHandler,
	adminH *handler.AdminHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
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

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Screen lifecycle and list queries
	screens := protected.Group("/screens/:screen")
	screens.POST("/mount", screenH.Mount)
	screens.POST("/unmount", screenH.Unmount)
	screens.PUT("/filter", screenH.Filter)
	screens.POST("/search", screenH.Search)
	screens.PUT("/page", screenH.Page)
	screens.PUT("/page-size", screenH.PageSize)
	screens.PUT("/sort", screenH.Sort)
	screens.GET("/export", screenH.Export)
	screens.PUT("/columns", screenH.SaveColumns)

	// Record CRUD through the screen's save/delete procedures
	screens.POST("/records", screenH.SaveRecord)
	screens.DELETE("/records/:id", screenH.DeleteRecord)

	// Document slots (upload-enabled screens only)
	screens.GET("/records/:id/slots", uploadH.OpenForm)
	screens.GET("/slots", uploadH.Slots)
	screens.PUT("/slots/:slot/number", uploadH.SetNumber)
	screens.POST("/slots/:slot/file", uploadH.Upload)
	screens.GET("/slots/:slot/file", uploadH.FileURL)
	screens.DELETE("/slots/:slot/file", uploadH.Remove)
	screens.POST("/slots/save", uploadH.SaveForm)

	// Grant administration is restricted to admins regardless of
	// screen-level permissions.
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.PUT("/permissions", adminH.UpdateGrants)

	return r
}
