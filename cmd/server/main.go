package main

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"karting_backend/internal/database"
	"karting_backend/internal/middleware"
	"karting_backend/internal/pricing"
	"karting_backend/internal/router"
	"karting_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func fatal(err error, message string) {
	utils.LogError(err, message)
	os.Exit(1)
}

func main() {
	// A missing .env is fine; the process environment still applies.
	envErr := godotenv.Load()

	// Initialize Logger
	utils.InitLogger(utils.Getenv("LOG_LEVEL", "info"), utils.Getenv("LOG_FORMAT", "console"))
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		utils.LogError(envErr, "Failed to load .env file")
	}

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "karting_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "karting_password")
	dbName := utils.Getenv("DB_NAME", "karting_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	if err := database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath); err != nil {
		fatal(err, "Failed to initialize database")
	}

	pricingConfig, err := pricing.LoadConfig(utils.Getenv("PRICING_CONFIG_PATH", ""))
	if err != nil {
		fatal(err, "Failed to load pricing config")
	}
	pricingEngine, err := pricing.NewEngine(pricingConfig)
	if err != nil {
		fatal(err, "Invalid pricing config")
	}
	utils.LogInfo("Pricing engine ready", map[string]interface{}{
		"version":  pricingEngine.Version(),
		"tax_rate": pricingEngine.TaxRate().String(),
	})

	signer, err := utils.NewVoucherSigner(os.Getenv("VOUCHER_SIGNING_KEY"))
	if err != nil {
		fatal(err, "VOUCHER_SIGNING_KEY must be set")
	}

	if utils.Getenv("GIN_MODE", "") == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(utils.GinLogger())

	// CORS configuration
	config := cors.DefaultConfig()
	config.AllowOrigins = utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"})
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router.Setup(engine, database.GetDB(), pricingEngine, signer)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})
	if err := engine.Run(":" + port); err != nil {
		fatal(err, "Failed to start server")
	}
}
