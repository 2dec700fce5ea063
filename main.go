package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/cron"
	"concierge/database"
	"concierge/database/repository"
	"concierge/handlers"
	"concierge/middleware"
	"concierge/routes"
	"concierge/services/booking"
	"concierge/services/chat"
	"concierge/services/inventory"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := repository.NewMongoUserRepo()
	convRepo := repository.NewMongoConversationRepo()
	bookingRepo := repository.NewMongoBookingRepo()
	reviewRepo := repository.NewMongoReviewRepo()
	attemptRepo := repository.NewMongoPaymentAttemptRepo()

	// external collaborators.
	inventoryClient := inventory.NewHTTPClient(config.AppConfig.InventoryBaseURL, logger)

	var gateway booking.Gateway
	if config.AppConfig.StripeKey != "" {
		gateway = &booking.StripeGateway{Currency: config.AppConfig.PaymentCurrency}
	} else {
		logger.Sugar().Warn("main: no Stripe key configured, using simulated payment gateway")
		gateway = booking.NewSimulatedGateway()
	}

	// services.
	reminderScheduler := cron.NewReminderScheduler(
		time.Duration(config.AppConfig.PaymentReminderMins) * time.Minute)

	bookingService := &booking.DefaultBookingService{
		Inventory: inventoryClient,
		Repo:      bookingRepo,
		Reminders: reminderScheduler,
		Logger:    logger,
	}
	paymentService := &booking.DefaultPaymentService{
		Repo:     bookingRepo,
		Attempts: attemptRepo,
		Gateway:  gateway,
		Logger:   logger,
	}

	dispatcher := &chat.Dispatcher{
		Inventory: inventoryClient,
		Bookings:  bookingService,
		Payments:  paymentService,
		Logger:    logger,
	}
	llm := chat.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	transcriptCache := chat.NewTranscriptCache(utils.GetCacheClient(),
		time.Duration(config.AppConfig.ConversationTTLMins)*time.Minute)
	chatService := chat.NewDefaultChatService(userRepo, convRepo, llm, dispatcher, transcriptCache, logger)

	cron.InitPaymentReminderWorker(bookingRepo, chatService)

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Chat:    handlers.NewChatHandler(chatService),
		Booking: handlers.NewBookingHandler(bookingService),
		Payment: handlers.NewPaymentHandler(paymentService),
		Rooms:   handlers.NewRoomsHandler(inventoryClient),
		User:    handlers.NewUserHandler(userRepo),
		Review:  handlers.NewReviewHandler(reviewRepo, bookingRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
