package routes

import (
	"time"

	"concierge/handlers"
	"concierge/middleware"
	"concierge/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers routed by the server.
type HandlerBundle struct {
	Chat    *handlers.ChatHandler
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
	Rooms   *handlers.RoomsHandler
	User    *handlers.UserHandler
	Review  *handlers.ReviewHandler
}

// RegisterChatRoutes registers the conversation endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/chat", hb.Chat.HandleChat)
		api.GET("/conversations/:userId", hb.Chat.GetConversation)
		api.DELETE("/conversations/:userId", hb.Chat.ResetConversation)
	}
}

// RegisterBookingRoutes registers the booking and payment endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/rooms", hb.Rooms.ListRooms)
		api.POST("/book", hb.Booking.Book)
		api.POST("/process-payment", hb.Payment.ProcessPayment)
		api.POST("/cancel-booking", hb.Booking.CancelBooking)
		api.GET("/bookings/:userId", hb.Booking.GetBookingsByUser)
		api.GET("/bookings-by-room/:roomId", hb.Booking.GetBookingsByRoom)
		api.GET("/bookings-in-range", hb.Booking.GetBookingsInRange)
		api.GET("/booking-details/:bookingId", hb.Booking.GetBookingDetails)
		api.PUT("/update-booking/:bookingId", hb.Booking.UpdateBooking)
		api.DELETE("/delete-booking/:bookingId", hb.Booking.DeleteBooking)
	}
}

// RegisterUserRoutes registers guest record endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterUser)
		api.GET("/:id", hb.User.GetUserByID)
	}
}

// RegisterReviewRoutes registers feedback endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.POST("", hb.Review.CreateReview)
		api.GET("/booking/:bookingId", hb.Review.GetReviewsByBooking)
		api.GET("/user/:userId", hb.Review.GetReviewsByUser)
		api.DELETE("/:id", hb.Review.DeleteReview)
	}
}

// RegisterStaffRoutes sets up endpoints for staff operations.
func RegisterStaffRoutes(r *gin.Engine, hb *HandlerBundle) {
	staff := r.Group("/api/staff")
	{
		staff.Use(middleware.JWTAuthStaffMiddleware())
		staff.GET("/users", hb.User.GetAllUsers)
		staff.GET("/bookings", hb.Booking.GetBookingsInRange)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", utils.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterStaffRoutes(r, hb)
	RegisterHealthRoute(r)
}
