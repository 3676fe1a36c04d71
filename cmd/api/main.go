package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/handler"
	"github.com/E7itism/stockerflow-sub001/internal/lock"
	"github.com/E7itism/stockerflow-sub001/internal/middleware"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
	"github.com/E7itism/stockerflow-sub001/internal/service"
	"github.com/E7itism/stockerflow-sub001/internal/ws"
	"github.com/E7itism/stockerflow-sub001/pkg/database"
	"github.com/E7itism/stockerflow-sub001/pkg/logger"
)

func main() {
	// .env is optional; environment variables may come from the host.
	_ = godotenv.Load()

	log := logger.Must(logger.New(os.Getenv("APP_ENV")))
	defer log.Sync()

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.Transaction{},
		&model.User{},
	); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	seedAdmin(db, log)

	wsHub := ws.NewHub(log.Named("ws"))
	go wsHub.Run()

	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)

	locks := lock.NewProductLocker()

	ledgerService := service.NewLedgerService(productRepo, txRepo, db, locks, wsHub, log.Named("ledger"))
	stockService := service.NewStockService(productRepo, txRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, supplierRepo, wsHub, log.Named("catalog"))
	dashService := service.NewDashboardService(txRepo, stockService)
	authService := service.NewAuthService(userRepo, log.Named("auth"))
	userService := service.NewUserService(userRepo)

	invHandler := handler.NewInventoryHandler(ledgerService, stockService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		AppName: "Stockerflow v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Everything below requires an authenticated principal.
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Ledger + derived stock
	protected.Get("/transactions", middleware.RequireCapability(model.CapTransactionView), invHandler.GetTransactions)
	protected.Get("/transactions/recent", middleware.RequireCapability(model.CapTransactionView), invHandler.GetRecentTransactions)
	protected.Get("/transactions/:id", middleware.RequireCapability(model.CapTransactionView), invHandler.GetTransaction)
	protected.Post("/transactions", middleware.RequireCapability(model.CapTransactionWrite), invHandler.CreateTransaction)
	protected.Delete("/transactions/:id", middleware.RequireCapability(model.CapTransactionDelete), invHandler.DeleteTransaction)

	protected.Get("/stock", middleware.RequireCapability(model.CapTransactionView), invHandler.GetAllStock)
	protected.Get("/stock/low", middleware.RequireCapability(model.CapTransactionView), invHandler.GetLowStock)
	protected.Get("/products/:id/stock", middleware.RequireCapability(model.CapTransactionView), invHandler.GetProductStock)
	protected.Get("/products/:id/transactions", middleware.RequireCapability(model.CapTransactionView), invHandler.GetProductTransactions)

	// Catalog
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequireCapability(model.CapProductWrite), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireCapability(model.CapProductWrite), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireCapability(model.CapProductWrite), catalogHandler.DeleteProduct)

	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequireCapability(model.CapProductWrite), catalogHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequireCapability(model.CapProductWrite), catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequireCapability(model.CapProductWrite), catalogHandler.DeleteCategory)

	protected.Get("/suppliers", catalogHandler.GetSuppliers)
	protected.Post("/suppliers", middleware.RequireCapability(model.CapProductWrite), catalogHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequireCapability(model.CapProductWrite), catalogHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequireCapability(model.CapProductWrite), catalogHandler.DeleteSupplier)

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// User management
	protected.Get("/users", middleware.RequireCapability(model.CapUserManage), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequireCapability(model.CapUserManage), userHandler.GetUser)
	protected.Post("/users", middleware.RequireCapability(model.CapUserManage), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequireCapability(model.CapUserManage), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequireCapability(model.CapUserManage), userHandler.DeleteUser)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// seedAdmin creates the bootstrap admin account when no user exists yet.
func seedAdmin(db *gorm.DB, log *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", email))
}
