package router

import (
	"database/sql"

	"karting_backend/internal/handlers"
	"karting_backend/internal/pricing"
	"karting_backend/internal/repositories"
	"karting_backend/internal/services"
	"karting_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	Client  *handlers.ClientHandler
	Booking *handlers.BookingHandler
	Voucher *handlers.VoucherHandler
	Kart    *handlers.KartHandler
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, pricingEngine *pricing.Engine, signer *utils.VoucherSigner) {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	voucherRepo := repositories.NewVoucherRepository(db)
	kartRepo := repositories.NewKartRepository(db)

	// Initialize Services
	clientService := services.NewClientService(clientRepo, db)
	bookingService := services.NewBookingService(bookingRepo, clientRepo, pricingEngine, db)
	voucherService := services.NewVoucherService(bookingRepo, clientRepo, voucherRepo, pricingEngine, signer, db)
	kartService := services.NewKartService(kartRepo, db)

	// Initialize Handlers
	h := Handlers{
		Client:  handlers.NewClientHandler(clientService),
		Booking: handlers.NewBookingHandler(bookingService),
		Voucher: handlers.NewVoucherHandler(voucherService),
		Kart:    handlers.NewKartHandler(kartService),
	}

	RegisterRoutes(engine.Group("/api/v1"), h)
	utils.LogInfo("Routes registered", map[string]interface{}{"pricing_version": pricingEngine.Version()})
}

// RegisterRoutes mounts every route group on apiV1.
func RegisterRoutes(apiV1 *gin.RouterGroup, h Handlers) {
	SetupClientRoutes(apiV1, h.Client)
	SetupBookingRoutes(apiV1, h.Booking, h.Voucher)
	SetupVoucherRoutes(apiV1, h.Voucher)
	SetupKartRoutes(apiV1, h.Kart)
}
