package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shinely/config"
	"shinely/cron"
	"shinely/database"
	appointmentRepo "shinely/database/repository/appointment"
	providerRepo "shinely/database/repository/provider"
	"shinely/handlers"
	"shinely/metrics"
	"shinely/middleware"
	"shinely/routes"
	"shinely/services/booking"
	"shinely/services/notification"
	"shinely/services/payment"
	"shinely/services/provider"
	"shinely/services/route"
	"shinely/services/tasks"
	"shinely/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	engine := config.AppConfig.Engine()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	engineMetrics := metrics.NewEngineMetrics(nil)

	// repositories.
	provRepo := providerRepo.NewMongoProviderRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// background reminders.
	asynqClient := asynq.NewClient(tasks.RedisOpt())
	reminders := &tasks.ReminderScheduler{
		Client:    asynqClient,
		Providers: provRepo,
		Lead:      engine.ReminderLead,
		Logger:    logger,
	}
	reminderServer := cron.InitReminderWorker(&cron.ReminderWorker{
		Appointments: apptRepo,
		Notifier:     &notification.LogNotificationService{Logger: logger},
		Logger:       logger,
	})

	// services.
	var locker booking.Locker = booking.NewLocalLocker()
	if config.AppConfig.UseRedisLocks {
		locker = booking.NewRedisLocker(utils.GetLockClient(), engine.LockTTL)
	}

	availability := &booking.DefaultAvailabilityCalculator{
		Providers:    provRepo,
		Appointments: apptRepo,
		Granularity:  engine.SlotGranularity,
		Metrics:      engineMetrics,
		Logger:       logger,
	}
	schedulingService := &booking.DefaultSchedulingService{
		Providers:    provRepo,
		Appointments: apptRepo,
		Availability: availability,
		Locker:       locker,
		Reminders:    reminders,
		Policy:       booking.ReschedulePolicy{MaxReschedules: engine.MaxReschedules},
		Metrics:      engineMetrics,
		Logger:       logger,
	}

	var intents payment.IntentCreator
	if config.AppConfig.StripeKey != "" {
		intents = payment.StripeIntents{}
	} else {
		logger.Warn("STRIPE_KEY is not set; payment intents are disabled")
	}
	paymentService := &payment.DefaultPaymentService{
		Quotes:  schedulingService,
		Intents: intents,
		Logger:  logger,
	}

	providerService, err := provider.NewDefaultProviderService(provRepo)
	if err != nil {
		logger.Fatal("main: failed to initialize provider service", zap.Error(err))
	}

	var directions route.DirectionsClient
	if config.AppConfig.GoogleAPIKey != "" {
		directions = route.NewCachedDirections(
			route.NewGoogleDirectionsClient(config.AppConfig.GoogleAPIKey),
			utils.GetCacheClient(),
			engine.DirectionsTTL,
		)
	} else {
		logger.Warn("GOOGLE_API_KEY is not set; routes are returned without drive times")
	}
	sequencer := &route.Sequencer{
		Providers:      provRepo,
		Appointments:   apptRepo,
		Directions:     directions,
		Timeout:        engine.DirectionsTimeout,
		ArrivalRadiusM: engine.ArrivalRadiusM,
		Metrics:        engineMetrics,
		Logger:         logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Scheduling: &handlers.SchedulingHandler{
			Availability: availability,
			Scheduling:   schedulingService,
			Payments:     paymentService,
		},
		Route: &handlers.RouteHandler{
			Sequencer: sequencer,
			Tracker:   route.NewTracker(sequencer),
		},
		Provider:       &handlers.ProviderHandler{Service: providerService},
		MetricsHandler: gin.WrapH(promhttp.Handler()),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	healthCtx, stopHealth := context.WithCancel(context.Background())
	redisClients := map[string]*redis.Client{"cache": utils.GetCacheClient()}
	if config.AppConfig.UseRedisLocks {
		redisClients["locks"] = utils.GetLockClient()
	}
	utils.StartHealthMonitor(healthCtx, 30*time.Second, redisClients, database.MongoClient)

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
	stopHealth()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	reminderServer.Shutdown()
	if err := asynqClient.Close(); err != nil {
		logger.Warn("main: failed to close reminder queue client", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
