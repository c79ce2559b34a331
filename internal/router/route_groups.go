package router

import (
	"karting_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := apiGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.GET("/rut/:rut", clientHandler.GetClientByRUT)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupBookingRoutes sets up the booking routes, including the per-booking voucher endpoints.
func SetupBookingRoutes(apiGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler, voucherHandler *handlers.VoucherHandler) {
	bookingRoutes := apiGroup.Group("/bookings")
	{
		bookingRoutes.POST("", bookingHandler.CreateBooking)
		bookingRoutes.GET("", bookingHandler.GetBookings)
		bookingRoutes.GET("/:id", bookingHandler.GetBookingByID)
		bookingRoutes.PUT("/:id", bookingHandler.UpdateBooking)
		bookingRoutes.DELETE("/:id", bookingHandler.DeleteBooking)

		bookingRoutes.GET("/:id/voucher", voucherHandler.ComputeVoucher)
		bookingRoutes.POST("/:id/voucher", voucherHandler.IssueVoucher)
		bookingRoutes.GET("/:id/vouchers", voucherHandler.GetIssuedVouchers)
	}
}

// SetupVoucherRoutes sets up voucher verification and the public fee table.
func SetupVoucherRoutes(apiGroup *gin.RouterGroup, voucherHandler *handlers.VoucherHandler) {
	apiGroup.GET("/vouchers/verify", voucherHandler.VerifyVoucher)
	apiGroup.GET("/fees", voucherHandler.GetFeeSchedule)
}

// SetupKartRoutes sets up the kart fleet routes.
func SetupKartRoutes(apiGroup *gin.RouterGroup, kartHandler *handlers.KartHandler) {
	kartRoutes := apiGroup.Group("/karts")
	{
		kartRoutes.GET("", kartHandler.GetKarts)
		kartRoutes.PATCH("/:id/state", kartHandler.UpdateKartState)
	}
}
