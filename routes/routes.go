package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-admin/controllers"
	"hotel-admin/middleware"
	"hotel-admin/permissions"
	"hotel-admin/realtime"
	"hotel-admin/services"
	"hotel-admin/utils"
)

// Handlers groups everything SetupRouter wires onto the engine.
type Handlers struct {
	Auth        *controllers.AuthController
	Rooms       *controllers.RoomController
	Bookings    *controllers.BookingController
	Maintenance *controllers.MaintenanceController
	Staff       *controllers.StaffController
	Users       *controllers.UserController
	Dashboard   *controllers.DashboardController
	Settings    *controllers.SettingsController

	Hub    *realtime.Hub
	Tokens *utils.TokenIssuer
	Access *services.AccessService
}

type Options struct {
	CORSOrigins []string
	UploadDir   string // served under /uploads when set
}

func SetupRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	allow := middleware.RequireCapability

	api := r.Group("/api")
	{
		api.GET("/amenities", controllers.GetAmenities)
		api.POST("/auth/login", h.Auth.Login)

		authed := api.Group("", middleware.Auth(h.Tokens, h.Access))

		auth := authed.Group("/auth")
		{
			auth.GET("/me", h.Auth.Me)
			auth.POST("/check", h.Auth.CheckPermission)
		}

		if h.Hub != nil {
			authed.GET("/ws", h.Hub.Handle)
		}
		authed.GET("/dashboard", h.Dashboard.GetStats)

		rooms := authed.Group("/rooms")
		{
			rooms.GET("", h.Rooms.GetRooms)
			rooms.GET("/:id", h.Rooms.GetRoom)
			rooms.GET("/:id/bookings", allow(permissions.CanViewBookings), h.Rooms.GetRoomBookings)
			rooms.GET("/:id/maintenance", allow(permissions.CanManageRooms), h.Rooms.GetRoomMaintenance)

			manage := rooms.Group("", allow(permissions.CanManageRooms))
			manage.POST("", h.Rooms.CreateRoom)
			manage.PATCH("/:id", h.Rooms.UpdateRoom)
			manage.PATCH("/:id/status", h.Rooms.UpdateRoomStatus)
			manage.PUT("/:id/images", h.Rooms.ReplaceImages)
			manage.POST("/:id/images", h.Rooms.AddImage)
			manage.DELETE("/:id", h.Rooms.DeleteRoom)
		}

		bookings := authed.Group("/bookings")
		{
			view := bookings.Group("", allow(permissions.CanViewBookings))
			// /range must be registered before /:id
			view.GET("/range", h.Bookings.GetBookingsByDateRange)
			view.GET("", h.Bookings.GetBookings)
			view.GET("/:id", h.Bookings.GetBooking)
			view.GET("/:id/history", h.Bookings.GetBookingHistory)

			edit := bookings.Group("", allow(permissions.CanEditBookings))
			edit.POST("", h.Bookings.CreateBooking)
			edit.PATCH("/:id", h.Bookings.UpdateBooking)
			edit.POST("/:id/sync-room", h.Bookings.SyncRoom)

			bookings.DELETE("/:id", allow(permissions.CanDeleteBookings), h.Bookings.DeleteBooking)
		}

		maintenance := authed.Group("/maintenance", allow(permissions.CanManageRooms))
		{
			maintenance.GET("/range", h.Maintenance.GetMaintenanceByDateRange)
			maintenance.GET("", h.Maintenance.GetMaintenance)
			maintenance.GET("/:id", h.Maintenance.GetMaintenanceRecord)
			maintenance.POST("", h.Maintenance.ScheduleMaintenance)
			maintenance.PATCH("/:id", h.Maintenance.UpdateMaintenance)
			maintenance.POST("/:id/sync-room", h.Maintenance.SyncRoom)
			maintenance.DELETE("/:id", h.Maintenance.DeleteMaintenance)
		}

		staff := authed.Group("/staff", allow(permissions.CanManageStaff))
		{
			staff.GET("", h.Staff.GetStaff)
			staff.GET("/:id", h.Staff.GetStaffMember)
			staff.POST("", h.Staff.CreateStaff)
			staff.PATCH("/:id", h.Staff.UpdateStaff)
			staff.DELETE("/:id", h.Staff.DeleteStaff)
		}

		users := authed.Group("/users")
		{
			users.GET("", allow(permissions.CanViewUsers), h.Users.GetUsers)
			users.GET("/:id", allow(permissions.CanViewUsers), h.Users.GetUser)
			users.POST("", allow(permissions.CanEditUsers), h.Users.CreateUser)
			users.PATCH("/:id", allow(permissions.CanEditUsers), h.Users.UpdateUser)
			users.DELETE("/:id", allow(permissions.CanDeleteUsers), h.Users.DeleteUser)
			users.PATCH("/:id/status", allow(permissions.CanToggleUserStatus), h.Users.ToggleUserStatus)
			users.PATCH("/:id/role", allow(permissions.CanManageRoles), h.Users.UpdateUserRole)
		}

		settings := authed.Group("/settings", allow(permissions.CanAccessSettings))
		{
			settings.GET("/hotel", h.Settings.GetHotelSettings)
			settings.PUT("/hotel", h.Settings.UpdateHotelSettings)
			settings.POST("/password", h.Settings.ChangePassword)
		}
	}

	return r
}
