package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"restaurant-manager/internal/config"
	"restaurant-manager/internal/handlers"
	"restaurant-manager/internal/kafka"
	"restaurant-manager/internal/logger"
	"restaurant-manager/internal/middleware"
	"restaurant-manager/internal/models"
	rediscache "restaurant-manager/internal/redis"
	"restaurant-manager/internal/services"
	"restaurant-manager/internal/storage"

	"github.com/gin-gonic/gin"
)

// Global logger instance
var log *logger.Logger

func main() {
	log = logger.NewLogger()
	defer log.Close()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("ENV", "Error loading .env file, using environment variables")
	}

	log.LogProcess("STARTUP", "Restaurant Manager starting up...")
	log.Info("SYSTEM", "Initializing components...")

	cfg := config.Load()
	log.Info("CONFIG", "Configuration loaded successfully")

	var store storage.Store
	if cfg.Database.Driver == "memory" {
		store = storage.NewInMemoryStore()
		log.LogDatabase("INIT", "memory", "In-memory storage initialized (development mode)")
	} else {
		log.LogProcess("DATABASE", "Initializing MySQL database...")
		mysqlStore, err := storage.NewMySQLStore(cfg.Database, log)
		if err != nil {
			log.Fatal("DATABASE", "Failed to initialize MySQL: "+err.Error())
		}
		store = mysqlStore
		log.LogDatabase("INIT", "mysql", "MySQL storage initialized successfully")
	}
	defer store.Close()

	log.LogProcess("KAFKA", "Initializing Kafka producer...")
	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode, log)
	if err != nil {
		log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
	}
	defer kafkaProducer.Close()
	log.LogKafka("INIT", "producer", "Kafka producer initialized successfully")

	// Initialize services
	tableService := services.NewTableService(store, log)
	orderService := services.NewOrderService(store, tableService, kafkaProducer, log)
	reservationService := services.NewReservationService(store, kafkaProducer, log)
	groceryService := services.NewGroceryService(store, log)
	log.LogProcess("SERVICE", "All services initialized")

	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr: cfg.Redis.Addr,
		})
		tableService.SetCache(rediscache.NewCache(redisClient))
		log.LogProcess("SERVICE", "Redis table cache enabled")
	}

	// Initialize handlers
	tableHandler := handlers.NewTableHandler(tableService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	groceryHandler := handlers.NewGroceryHandler(groceryService)
	log.LogProcess("HANDLER", "All handlers initialized")

	// Start the kitchen consumer in the background. Mock mode means the
	// kitchen display falls back to polling the API, so skip it.
	if !cfg.Kafka.MockMode {
		kitchenConsumer, err := kafka.NewKitchenConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
		if err != nil {
			log.Fatal("KAFKA", "Failed to create kitchen consumer: "+err.Error())
		}
		defer kitchenConsumer.Close()

		go func() {
			log.LogKafka("START", "consumer", "Starting kitchen consumer goroutine")
			if err := kitchenConsumer.ConsumeOrders(context.Background(), func(event *models.OrderEvent) error {
				log.LogKafka("KITCHEN", event.Type, fmt.Sprintf("Order %s for kitchen display", event.OrderID))
				return nil
			}); err != nil {
				log.Error("KAFKA", "Consumer error: "+err.Error())
			}
		}()
	}

	router := setupRouter(tableHandler, orderHandler, reservationHandler, groceryHandler, store)
	log.LogProcess("ROUTER", "HTTP router configured")

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on "+cfg.Server.Port)
		log.Info("STARTUP", "Restaurant Manager is ready to accept requests")
		log.Info("STARTUP", "Health check available at: http://localhost"+cfg.Server.Port+"/health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("SHUTDOWN", "Server forced to shutdown: "+err.Error())
	}

	log.Info("SHUTDOWN", "Restaurant Manager shutdown completed successfully")
}

func setupRouter(
	tableHandler *handlers.TableHandler,
	orderHandler *handlers.OrderHandler,
	reservationHandler *handlers.ReservationHandler,
	groceryHandler *handlers.GroceryHandler,
	store storage.Store,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.EnhancedLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(log))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := store.HealthCheck(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "restaurant-manager",
			"version":   "1.0.0",
		})
	})

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity(log))
	{
		tables := v1.Group("/tables")
		{
			tables.GET("", tableHandler.List)
			tables.GET("/:id", tableHandler.Get)
			tables.POST("", tableHandler.Create)
			tables.PUT("/:id", tableHandler.Update)
			tables.DELETE("/:id", tableHandler.Delete)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.GET("/kitchen", orderHandler.Kitchen)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("", orderHandler.Create)
			orders.PUT("/:id", orderHandler.Update)
			orders.DELETE("/:id", orderHandler.Delete)
		}

		reservations := v1.Group("/reservations")
		{
			reservations.GET("", reservationHandler.List)
			reservations.GET("/available-tables", reservationHandler.AvailableTables)
			reservations.GET("/:id", reservationHandler.Get)
			reservations.POST("", reservationHandler.Create)
			reservations.PUT("/:id", reservationHandler.Update)
			reservations.DELETE("/:id", reservationHandler.Delete)
		}

		groceries := v1.Group("/groceries")
		{
			groceries.GET("", groceryHandler.List)
			groceries.GET("/low-stock", groceryHandler.LowStock)
			groceries.GET("/:id", groceryHandler.Get)
			groceries.POST("", groceryHandler.Create)
			groceries.PUT("/:id", groceryHandler.Update)
			groceries.DELETE("/:id", groceryHandler.Delete)
		}
	}

	log.LogProcess("ROUTER", "All routes registered successfully")
	return router
}
