package router

import (
	"github.com/bloodbank/backend/internal/domain/identity"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/bloodbank/backend/internal/infrastructure/logger"
	"github.com/bloodbank/backend/internal/interfaces/http/handler"
	"github.com/bloodbank/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the handlers wired into the router
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	BloodType *handler.BloodTypeHandler
	Inventory *handler.InventoryHandler
	Donation  *handler.DonationHandler
	Request   *handler.RequestHandler
	Center    *handler.CenterHandler
}

// New builds the gin engine with all routes and middleware wired
func New(cfg *config.Config, handlers Handlers, validator middleware.TokenValidator, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS(cfg.HTTP))

	engine.GET("/health", handlers.System.Health)
	engine.GET("/ready", handlers.System.Ready)

	v1 := engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
	}

	// Everything below requires a valid access token
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(validator))

	authedAuth := authed.Group("/auth")
	{
		authedAuth.GET("/me", handlers.Auth.Me)
		authedAuth.POST("/change-password", handlers.Auth.ChangePassword)
	}

	bloodTypes := authed.Group("/blood-types")
	{
		bloodTypes.GET("", handlers.BloodType.ListBloodTypes)
		bloodTypes.GET("/:name/compatibility", handlers.BloodType.GetCompatibility)
	}

	staffOnly := middleware.RequireRoles(identity.RoleAdmin, identity.RoleStaff)
	adminOnly := middleware.RequireRoles(identity.RoleAdmin)

	donors := authed.Group("/donors")
	{
		donors.POST("", handlers.Donation.RegisterDonor)
		donors.GET("", staffOnly, handlers.Donation.ListDonors)
		donors.GET("/available", staffOnly, handlers.Donation.FindAvailableDonors)
		donors.GET("/:id", handlers.Donation.GetDonor)
		donors.GET("/:id/eligibility", handlers.Donation.CheckEligibility)
		donors.PUT("/:id/availability", handlers.Donation.SetAvailability)
		donors.GET("/:id/appointments", handlers.Donation.ListDonorAppointments)
	}

	appointments := authed.Group("/appointments")
	{
		appointments.POST("", handlers.Donation.BookAppointment)
		appointments.POST("/:id/confirm", staffOnly, handlers.Donation.ConfirmAppointment)
		appointments.POST("/:id/reject", staffOnly, handlers.Donation.RejectAppointment)
		appointments.POST("/:id/cancel", handlers.Donation.CancelAppointment)
		appointments.POST("/:id/no-show", staffOnly, handlers.Donation.MarkNoShow)
		appointments.POST("/:id/complete", staffOnly, handlers.Donation.CompleteAppointment)
	}

	inventory := authed.Group("/inventory", staffOnly)
	{
		inventory.POST("/units", handlers.Inventory.RegisterUnit)
		inventory.GET("/units", handlers.Inventory.ListUnits)
		inventory.GET("/units/batch/:batch", handlers.Inventory.GetUnitByBatch)
		inventory.GET("/units/:id", handlers.Inventory.GetUnit)
		inventory.POST("/units/:id/testing", handlers.Inventory.CompleteTesting)
		inventory.POST("/units/:id/reserve", handlers.Inventory.ReserveUnit)
		inventory.POST("/units/:id/cancel-reservation", handlers.Inventory.CancelReservation)
		inventory.POST("/units/:id/use", handlers.Inventory.MarkAsUsed)
		inventory.POST("/compatible", handlers.Inventory.FindCompatible)
		inventory.GET("/statistics", handlers.Inventory.GetStatistics)
		inventory.GET("/expiring", handlers.Inventory.GetExpiringSoon)
		inventory.GET("/low-stock", handlers.Inventory.GetLowStock)
		inventory.POST("/sweep", adminOnly, handlers.Inventory.SweepExpired)
	}

	requests := authed.Group("/requests", staffOnly)
	{
		requests.POST("", handlers.Request.CreateRequest)
		requests.GET("", handlers.Request.ListRequests)
		requests.GET("/:id", handlers.Request.GetRequest)
		requests.POST("/:id/approve", handlers.Request.ApproveRequest)
		requests.POST("/:id/reject", handlers.Request.RejectRequest)
		requests.POST("/:id/fulfill", handlers.Request.FulfillRequest)
		requests.POST("/:id/cancel", handlers.Request.CancelRequest)
	}

	centers := authed.Group("/centers")
	{
		centers.GET("", handlers.Center.ListCenters)
		centers.GET("/active", handlers.Center.ListActiveCenters)
		centers.GET("/:id", handlers.Center.GetCenter)
		centers.GET("/:id/appointments", staffOnly, handlers.Donation.ListCenterAppointments)
		centers.POST("", adminOnly, handlers.Center.CreateCenter)
		centers.PUT("/:id", adminOnly, handlers.Center.UpdateCenter)
		centers.POST("/:id/activate", adminOnly, handlers.Center.ActivateCenter)
		centers.POST("/:id/deactivate", adminOnly, handlers.Center.DeactivateCenter)
	}

	return engine
}
