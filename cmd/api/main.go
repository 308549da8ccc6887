package main

import (
	"context"
	"log"
	"time"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/core/config"
	"repair-shop/internal/core/database"
	"repair-shop/internal/core/events"
	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	cartadapter "repair-shop/internal/features/cart/adapters"
	carthandler "repair-shop/internal/features/cart/handler"
	cartservice "repair-shop/internal/features/cart/service"
	catalogadapter "repair-shop/internal/features/catalog/adapters"
	cataloghandler "repair-shop/internal/features/catalog/handler"
	catalogports "repair-shop/internal/features/catalog/ports"
	catalogservice "repair-shop/internal/features/catalog/service"
	customeradapter "repair-shop/internal/features/customers/adapters"
	customerhandler "repair-shop/internal/features/customers/handler"
	customerservice "repair-shop/internal/features/customers/service"
	dashboardhandler "repair-shop/internal/features/dashboard/handler"
	dashboardservice "repair-shop/internal/features/dashboard/service"
	inferenceadapter "repair-shop/internal/features/inference/adapters"
	inferencehandler "repair-shop/internal/features/inference/handler"
	inferenceports "repair-shop/internal/features/inference/ports"
	inferenceservice "repair-shop/internal/features/inference/service"
	noticeadapter "repair-shop/internal/features/notices/adapters"
	noticehandler "repair-shop/internal/features/notices/handler"
	noticeservice "repair-shop/internal/features/notices/service"
	orderadapter "repair-shop/internal/features/orders/adapters"
	orderhandler "repair-shop/internal/features/orders/handler"
	orderservice "repair-shop/internal/features/orders/service"
	ticketadapter "repair-shop/internal/features/tickets/adapters"
	tickets "repair-shop/internal/features/tickets/domain"
	tickethandler "repair-shop/internal/features/tickets/handler"
	ticketservice "repair-shop/internal/features/tickets/service"

	"go.uber.org/zap"
)

const (
	inferenceRateMax    = 10
	inferenceRateWindow = time.Minute
)

// @title Repair Shop API
// @version 1.0
// @description Storefront cart, SAT repair tickets, AI damage triage and the admin panel of a device repair shop.
// @contact.name API Support
// @contact.email soporte@repairshop.uy
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey AdminToken
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_provider", cfg.DataProvider),
	)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		l.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	redis, err := cache.NewRedisAdapter(cfg.Cart.RedisURL)
	if err != nil {
		l.Fatal("Failed to create redis client", zap.Error(err))
	}
	defer redis.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redis.Ping(pingCtx); err != nil {
		l.Warn("Redis not reachable, carts will fail until it is", zap.Error(err))
	}
	cancel()

	var publisher events.Publisher = events.NewLogPublisher(logger.Named("events"))
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)
		if err != nil {
			l.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
		l.Info("Publishing events to broker", zap.String("queue", cfg.Events.Queue))
	}
	defer publisher.Close()

	// Catalog
	// The fixture catalog accepts admin edits but keeps them in memory only.
	var products catalogports.ProductRepository
	if cfg.DataProvider == "fixture" {
		products = catalogadapter.NewFixtureProvider()
	} else {
		products = catalogadapter.NewSQLiteProductRepository(db)
	}
	catalogSvc := catalogservice.NewCatalogService(products)
	catalogHdl := cataloghandler.NewCatalogHandler(catalogSvc)

	// Customers, orders
	customerSvc := customerservice.NewCustomerService(customeradapter.NewSQLiteCustomerRepository(db))
	customerHdl := customerhandler.NewCustomerHandler(customerSvc)

	orderSvc := orderservice.NewOrderService(orderadapter.NewSQLiteOrderRepository(db), publisher)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	// Cart
	cartStorage := cartadapter.NewCacheCartStorage(redis, cfg.Cart.KeyPrefix, time.Duration(cfg.Cart.TTLHours)*time.Hour)
	cartSvc := cartservice.NewCartService(cartStorage, products, orderSvc, customerSvc)
	cartHdl := carthandler.NewCartHandler(cartSvc)

	// Tickets
	policy := tickets.PolicyFor(cfg.Tickets.StrictTransitions)
	ticketSvc := ticketservice.NewTicketService(ticketadapter.NewSQLiteTicketRepository(db), customerSvc, publisher, policy)
	ticketHdl := tickethandler.NewTicketHandler(ticketSvc)

	// Inference
	var analyzer inferenceports.Analyzer
	if cfg.Inference.APIKey != "" {
		analyzer = inferenceadapter.NewGeminiAnalyzer(
			cfg.Inference.URL,
			cfg.Inference.APIKey,
			cfg.Inference.Model,
			time.Duration(cfg.Inference.TimeoutSeconds)*time.Second,
		)
		l.Info("Inference backend configured", zap.String("model", cfg.Inference.Model))
	} else {
		analyzer = inferenceadapter.NewDemoAnalyzer()
		l.Warn("GEMINI_API_KEY not set, serving demo inference payloads")
	}
	inferenceHdl := inferencehandler.NewInferenceHandler(inferenceservice.NewInferenceService(analyzer))

	// Notices, dashboard
	noticeHdl := noticehandler.NewNoticeHandler(noticeservice.NewNoticeService(noticeadapter.NewCacheNoticeRepository(redis)))
	dashboardHdl := dashboardhandler.NewDashboardHandler(dashboardservice.NewDashboardService(ticketSvc, catalogSvc, orderSvc))

	srv := server.New(cfg)
	app := srv.App

	// Storefront
	app.Get("/products", catalogHdl.ListProducts)
	app.Get("/products/suggested", catalogHdl.GetSuggested)
	app.Get("/products/:id", catalogHdl.GetProduct)
	app.Get("/notice", noticeHdl.GetNotice)
	app.Post("/customers", customerHdl.RegisterContact)

	cart := app.Group("/cart/:session")
	cart.Get("", cartHdl.GetCart)
	cart.Delete("", cartHdl.Clear)
	cart.Post("/items", cartHdl.AddItem)
	cart.Patch("/items/:productId", cartHdl.UpdateQuantity)
	cart.Delete("/items/:productId", cartHdl.RemoveItem)
	cart.Post("/open", cartHdl.Open)
	cart.Post("/close", cartHdl.Close)
	cart.Post("/checkout", cartHdl.Checkout)

	app.Post("/tickets", ticketHdl.CreateTicket)
	app.Get("/tickets/statuses", ticketHdl.ListStatuses)
	app.Get("/tickets/track/:number", ticketHdl.TrackTicket)

	ai := app.Group("/ai", server.RateLimit(inferenceRateMax, inferenceRateWindow))
	ai.Post("/analyze-damage", inferenceHdl.AnalyzeDamage)
	ai.Post("/specs", inferenceHdl.LookupSpecs)

	// Admin
	admin := app.Group("/admin", server.AdminGuard(cfg.AdminToken))
	admin.Get("/dashboard", dashboardHdl.GetDashboard)
	admin.Get("/tickets", ticketHdl.ListTickets)
	admin.Get("/tickets/:id", ticketHdl.GetTicket)
	admin.Patch("/tickets/:id/status", ticketHdl.UpdateStatus)
	admin.Patch("/tickets/:id/diagnosis", ticketHdl.SetDiagnosis)
	admin.Post("/tickets/:id/photos", ticketHdl.AddPhotos)
	admin.Post("/tickets/:id/signature", ticketHdl.Sign)
	admin.Get("/customers", customerHdl.ListCustomers)
	admin.Get("/customers/:id", customerHdl.GetCustomer)
	admin.Get("/orders", orderHdl.ListOrders)
	admin.Get("/orders/:id", orderHdl.GetOrder)
	admin.Put("/notice", noticeHdl.SetNotice)
	admin.Delete("/notice", noticeHdl.RemoveNotice)
	admin.Put("/products/:id", catalogHdl.UpsertProduct)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
