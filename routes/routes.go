package routes

import (
	"net/http"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/config"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/admin"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/notification"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/payment"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/reports"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/userprofile"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	_ "github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the shared clients built in main. Redis, Kafka and Gateway
// may be nil; the matching features fall back or switch off.
type Deps struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Kafka         *kafka.Writer
	Notifications notification.Service
	Gateway       payment.Gateway
}

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) error {
	if err := event.RegisterValidators(); err != nil {
		return err
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Eco-Tourism API is running",
			"timestamp": time.Now().UTC(),
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit, err := middleware.RateLimiter(cfg.RateLimit, deps.Redis)
	if err != nil {
		return err
	}

	api := r.Group("/api")
	api.Use(limit)                        // per-IP request budget
	api.Use(middleware.AuditMiddleware()) // Audit middleware to capture IP

	// ========== Audit Logs ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(deps.DB))
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	var denylist auth.Denylist
	if deps.Redis != nil {
		denylist = auth.NewRedisDenylist(deps.Redis)
	}
	authRepo := auth.NewRepository(deps.DB)
	authSvc := auth.NewService(authRepo, cfg, denylist)
	authHandler := auth.NewHandler(authSvc)

	requireAuth := middleware.AuthMiddleware(authSvc)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	userOnly := middleware.RequireRole(auth.RoleUser)

	// ========== Domain services ==========
	eventRepo := event.NewRepository(deps.DB)
	eventSvc := event.NewService(eventRepo, auditSvc)

	regRepo := registration.NewRepository(deps.DB)
	regSvc := registration.NewService(regRepo, eventRepo, auditSvc, notification.NewPublisher(deps.Kafka, deps.Notifications))

	eventHandler := event.NewHandler(eventSvc, regSvc)
	regHandler := registration.NewHandler(regSvc)
	paymentHandler := payment.NewHandler(payment.NewService(regSvc, deps.Gateway, cfg.RazorpayKey, cfg.RazorpaySecret, auditSvc))
	reportsHandler := reports.NewHandler(reports.NewService(regSvc, reports.NewExporter(), auditSvc))
	notificationHandler := notification.NewHandler(deps.Notifications)
	profileHandler := userprofile.NewHandler(userprofile.NewService(authSvc, regSvc))
	adminHandler := admin.NewHandler(admin.NewService(authRepo, regRepo, auditSvc))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)

		authGroup.POST("/admin/signup", requireAuth, adminOnly, authHandler.AdminSignup)
		authGroup.GET("/profile", requireAuth, authHandler.GetProfile)
		authGroup.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		authGroup.PUT("/change-password", requireAuth, authHandler.ChangePassword)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
	}

	// ========== Public catalog ==========
	events := api.Group("/events")
	{
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", middleware.OptionalAuth(authSvc), eventHandler.GetEvent)
		events.POST("/:id/register", requireAuth, userOnly, regHandler.Register)
		events.DELETE("/:id/register", requireAuth, userOnly, regHandler.CancelRegistration)
	}

	// ========== User area ==========
	user := api.Group("/user")
	user.Use(requireAuth, userOnly)
	{
		user.GET("/dashboard", profileHandler.Dashboard)
		user.GET("/profile", authHandler.GetProfile)
		user.PUT("/profile", authHandler.UpdateProfile)
		user.PUT("/change-password", authHandler.ChangePassword)
		user.PATCH("/deactivate", authHandler.Deactivate)

		user.GET("/registrations", regHandler.ListMine)
		user.POST("/registrations/payment/verify", paymentHandler.Verify)
		user.GET("/registrations/:rid", regHandler.GetMine)
		user.GET("/registrations/:rid/ticket", reportsHandler.DownloadTicket)
		user.POST("/registrations/:rid/payment/order", paymentHandler.CreateOrder)

		user.GET("/notifications", notificationHandler.GetMyInApp)
		user.GET("/notifications/stream", notificationHandler.StreamInApp)
		user.PATCH("/notifications/:nid/read", notificationHandler.MarkInAppRead)
	}

	// ========== Admin ==========
	adminGroup := api.Group("/admin")
	adminGroup.Use(requireAuth, adminOnly)
	{
		adminGroup.GET("/dashboard", adminHandler.Dashboard)
		adminGroup.GET("/users", adminHandler.GetUsers)
		adminGroup.GET("/users/:id", adminHandler.GetUserByID)
		adminGroup.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
		adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)

		adminGroup.GET("/audit-logs", auditHandler.GetAuditLogs)
		adminGroup.GET("/audit-logs/:id", auditHandler.GetAuditLogByID)

		adminEvents := adminGroup.Group("/events")
		adminEvents.GET("/dashboard", eventHandler.Dashboard)
		adminEvents.GET("", eventHandler.ListOwned)
		adminEvents.POST("", eventHandler.CreateEvent)
		adminEvents.GET("/:id", eventHandler.GetOwned)
		adminEvents.PUT("/:id", eventHandler.UpdateEvent)
		adminEvents.DELETE("/:id", eventHandler.DeleteEvent)
		adminEvents.PATCH("/:id/progress", eventHandler.UpdateProgress)
		adminEvents.PATCH("/:id/status", eventHandler.UpdateStatus)

		adminEvents.GET("/:id/registrations", regHandler.ListForEvent)
		adminEvents.GET("/:id/registrations/export", reportsHandler.ExportRegistrations)
		adminEvents.PATCH("/:id/registrations/:rid", regHandler.UpdateRegistration)
		adminEvents.POST("/:id/registrations/:rid/confirm", regHandler.ConfirmRegistration)
		adminEvents.POST("/:id/registrations/:rid/complete", regHandler.CompleteRegistration)
		adminEvents.PATCH("/:id/registrations/:rid/payment", regHandler.UpdatePayment)
	}

	return nil
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
