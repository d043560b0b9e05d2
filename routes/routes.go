package routes

import (
	"net/http"
	"time"

	"salonflow/handlers"
	"salonflow/middleware"
	"salonflow/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handler sets the router wires up.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Appointment  *handlers.AppointmentHandler
	Staff        *handlers.StaffHandler
}

// RegisterRoutes wires every endpoint onto the engine.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	registerAvailabilityRoutes(r, hb)
	registerBookingRoutes(r, hb)
	registerAppointmentRoutes(r, hb)
	registerStaffRoutes(r, hb)
}

func registerAvailabilityRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.GET("/:stylistID/:date", hb.Availability.GetBookableSlots)
		api.GET("/:stylistID/:date/schedule", hb.Availability.GetDaySchedule)
	}
}

func registerBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/session", hb.Booking.StartSession)
		booking.PUT("/session/:sessionID", hb.Booking.UpdateSession)
		booking.POST("/session/:sessionID/confirm", hb.Booking.ConfirmSession)
		booking.DELETE("/session/:sessionID", hb.Booking.CancelSession)
	}
}

func registerAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		// Public lookup via the tokenized link on the confirmation page.
		api.GET("/token/:token", hb.Appointment.GetAppointmentByToken)

		// Staff-only lifecycle operations.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthStaffMiddleware())
		protected.GET("/:id", hb.Appointment.GetAppointment)
		protected.GET("/stylist/:stylistID/date/:date", hb.Appointment.ListByStylistAndDate)
		protected.POST("/:id/confirm", hb.Appointment.Confirm)
		protected.POST("/:id/complete", hb.Appointment.Complete)
		protected.POST("/:id/cancel", hb.Appointment.Cancel)
		protected.POST("/:id/no-show", hb.Appointment.MarkNoShow)
		protected.POST("/:id/reschedule", hb.Appointment.Reschedule)
	}
}

func registerStaffRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/staff")
	{
		api.GET("/services", hb.Staff.ListServices)
		api.GET("/:stylistID/working-hours", hb.Staff.GetWorkingHours)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthStaffMiddleware())
		protected.PUT("/:stylistID/working-hours", hb.Staff.SetWorkingHours)
	}
}
