package main

import (
	"os"
	"strconv"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/database"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/handler"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/logger"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/middleware"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/rates"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/service"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           PayBoard API
// @version         1.0
// @description     Personal finance backend: bills, transactions and Argentine tax calculation with live currency rates.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logger.L.Info("no configs/.env file found")
	}
	logger.Init(os.Getenv("LOG_LEVEL"))

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "payboard")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logger.L.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	logger.L.Info("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	billRepo := repository.NewBillRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	taxRuleRepo := repository.NewTaxRuleRepository(db)
	rateQuoteRepo := repository.NewRateQuoteRepository(db)
	calcLogRepo := repository.NewCalculationLogRepository(db)
	txManager := repository.NewTransactionManager(db)

	rateProvider := rates.NewDolarAPIProvider(envOr("RATE_PROVIDER_URL", rates.DefaultProviderURL))
	quoteCache := rates.NewQuoteCache(rateTTL())

	userService := service.NewUserService(userRepo)
	billService := service.NewBillService(billRepo, transactionRepo, txManager)
	transactionService := service.NewTransactionService(transactionRepo)
	taxRuleService := service.NewTaxRuleService(taxRuleRepo)
	ratesService := service.NewRatesService(rateProvider, quoteCache, rateQuoteRepo, nil)
	taxCalcService := service.NewTaxCalculationService(taxRuleService, ratesService, calcLogRepo, db, wsHub)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	billHandler := handler.NewBillHandler(billService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	taxRuleHandler := handler.NewTaxRuleHandler(taxRuleService)
	taxCalcHandler := handler.NewTaxCalculationHandler(taxCalcService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// API Routing
	userHandler.RegisterRoutes(router.Group(""))
	billHandler.RegisterRoutes(router.Group(""))
	transactionHandler.RegisterRoutes(router.Group(""))
	taxRuleHandler.RegisterRoutes(router.Group(""))
	taxCalcHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	logger.L.Info("server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		logger.L.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func rateTTL() time.Duration {
	raw := os.Getenv("RATE_TTL_SECONDS")
	if raw == "" {
		return rates.DefaultTTL
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		logger.L.Warn("invalid RATE_TTL_SECONDS, using default", "value", raw)
		return rates.DefaultTTL
	}
	return time.Duration(seconds) * time.Second
}
