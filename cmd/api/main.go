package main

import (
	"fmt"
	"net/http"
	"os"

	"pocketplan/internal/config"
	"pocketplan/internal/database"
	"pocketplan/internal/handlers"
	"pocketplan/internal/logger"
	"pocketplan/internal/middleware"
	"pocketplan/internal/services"
	"pocketplan/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validation tags
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	recalcService := services.NewRecalcService()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	budgetService := services.NewBudgetService(db, recalcService)
	transactionService := services.NewTransactionService(db, recalcService)
	goalService := services.NewGoalService(db)
	monthEndService := services.NewMonthEndService(db, recalcService)
	shoppingService := services.NewShoppingService(db, transactionService)
	oracleService := services.NewOracleService(db, userService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	monthEndHandler := handlers.NewMonthEndHandler(monthEndService, auditService)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, auditService)
	aiHandler := handlers.NewAIHandler(oracleService, budgetService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and settings
	protected.GET("/me", authHandler.Me)
	protected.PATCH("/me/settings", authHandler.UpdateSettings)

	// Budget routes
	budget := protected.Group("/budget")
	budget.POST("/setup", budgetHandler.Setup)
	budget.GET("/current", budgetHandler.GetCurrentBudget)
	budget.GET("/:month", budgetHandler.GetBudgetByMonth)
	budget.PATCH("", budgetHandler.UpdateBudget)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", budgetHandler.CreateCategory)
	categories.PUT("/:id", budgetHandler.UpdateCategory)
	categories.DELETE("/:id", budgetHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)

	// Month-end routes
	monthEnd := protected.Group("/month-end")
	monthEnd.GET("/summary", monthEndHandler.Summary)
	monthEnd.POST("/sweep", monthEndHandler.Sweep)
	monthEnd.POST("/finalize", monthEndHandler.Finalize)

	// Shopping list routes
	shopping := protected.Group("/shopping-lists")
	shopping.POST("", shoppingHandler.CreateList)
	shopping.GET("", shoppingHandler.GetLists)
	shopping.GET("/:id", shoppingHandler.GetList)
	shopping.PUT("/:id", shoppingHandler.UpdateList)
	shopping.DELETE("/:id", shoppingHandler.DeleteList)
	shopping.POST("/:id/checkout", shoppingHandler.Checkout)

	// Assistant routes
	ai := protected.Group("/ai")
	ai.POST("/categorize", aiHandler.Categorize)
	ai.POST("/insights", aiHandler.Insights)
	ai.POST("/predict-status", aiHandler.PredictStatus)

	log.Infof("Starting PocketPlan backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
