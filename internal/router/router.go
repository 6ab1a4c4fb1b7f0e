// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/handlers"
	"github.com/nightpulse/backend/internal/middleware"
	"github.com/nightpulse/backend/internal/realtime"
	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

// Services bundles everything the HTTP layer and the job scheduler share.
type Services struct {
	Auth    *services.AuthService
	Users   *services.UserService
	Events  *services.EventService
	Tickets *services.TicketService
	Rewards *services.RewardsService
	Payment *services.PaymentService
	Connect *services.ConnectService
	Scanner *services.ScanService
	Admin   *services.AdminService
	Storage *services.StorageService
}

// BuildServices wires the service graph in dependency order.
func BuildServices(db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) *Services {
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	rewardsService := services.NewRewardsService(db, notificationService)
	ticketService := services.NewTicketService(db, cfg, rewardsService, publisher)
	paymentService := services.NewPaymentService(db, cfg, ticketService, rewardsService, notificationService, publisher)

	return &Services{
		Auth:    services.NewAuthService(db, cfg),
		Users:   services.NewUserService(db, storageService),
		Events:  services.NewEventService(db, publisher),
		Tickets: ticketService,
		Rewards: rewardsService,
		Payment: paymentService,
		Connect: services.NewConnectService(db, cfg, notificationService),
		Scanner: services.NewScanService(ticketService),
		Admin:   services.NewAdminService(db, notificationService),
		Storage: storageService,
	}
}

func Initialize(db *gorm.DB, cfg *config.Config, svcs *Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svcs.Auth)
	userHandler := handlers.NewUserHandler(svcs.Users)
	eventHandler := handlers.NewEventHandler(svcs.Events, svcs.Storage)
	ticketHandler := handlers.NewTicketHandler(svcs.Tickets)
	paymentHandler := handlers.NewPaymentHandler(svcs.Payment)
	connectHandler := handlers.NewConnectHandler(svcs.Connect)
	scannerHandler := handlers.NewScannerHandler(svcs.Scanner)
	rewardsHandler := handlers.NewRewardsHandler(svcs.Rewards)
	adminHandler := handlers.NewAdminHandler(svcs.Admin)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.POST("/avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
			users.GET("/notifications", userHandler.GetNotifications)
			users.POST("/notifications/:id/read", userHandler.MarkNotificationRead)
		}

		events := v1.Group("/events")
		{
			events.GET("", middleware.OptionalAuth(), eventHandler.ListEvents)
			events.GET("/:id", eventHandler.GetEvent)

			protected := events.Group("")
			protected.Use(middleware.AuthRequired(), middleware.ProfessionalRequired())
			{
				protected.POST("", eventHandler.CreateEvent)
				protected.PUT("/:id", eventHandler.UpdateEvent)
				protected.POST("/:id/publish", eventHandler.PublishEvent)
				protected.POST("/:id/cancel", eventHandler.CancelEvent)
				protected.DELETE("/:id", eventHandler.DeleteEvent)
				protected.POST("/:id/flyer", middleware.UploadRateLimit(), eventHandler.UploadFlyer)
			}
		}

		tickets := v1.Group("/tickets")
		tickets.Use(middleware.AuthRequired())
		{
			tickets.GET("", ticketHandler.GetMyTickets)
			tickets.POST("/:id/share", ticketHandler.ShareTicket)
			tickets.POST("/:id/share-social", ticketHandler.ShareSocial)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("/quote", paymentHandler.GetQuote)

			protected := payments.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/intent", paymentHandler.CreatePurchaseIntent)
				protected.POST("/confirm", paymentHandler.ConfirmPayment)
				protected.GET("/history", paymentHandler.GetPaymentHistory)
			}
		}

		connect := v1.Group("/connect")
		connect.Use(middleware.AuthRequired(), middleware.ProfessionalRequired())
		{
			connect.POST("/accounts", connectHandler.CreateAccount)
			connect.POST("/account-links", connectHandler.CreateAccountLink)
			connect.GET("/status", connectHandler.GetAccountStatus)
		}

		scanner := v1.Group("/scanner")
		scanner.Use(middleware.AuthRequired(), middleware.ProfessionalRequired(), middleware.ScanRateLimit())
		{
			scanner.POST("/sessions", scannerHandler.OpenSession)
			scanner.GET("/sessions/:id", scannerHandler.GetSession)
			scanner.POST("/sessions/:id/scan", scannerHandler.Scan)
			scanner.DELETE("/sessions/:id", scannerHandler.CloseSession)
		}

		rewards := v1.Group("/rewards")
		{
			rewards.GET("/tiers", rewardsHandler.ListTiers)
			rewards.GET("/me", middleware.AuthRequired(), rewardsHandler.GetMyRewards)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			admin.GET("/transactions", adminHandler.GetTransactions)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
