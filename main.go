package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonflow/config"
	"salonflow/cron"
	"salonflow/database"
	appointmentRepo "salonflow/database/repository/appointment"
	staffRepo "salonflow/database/repository/staff"
	"salonflow/handlers"
	"salonflow/middleware"
	"salonflow/routes"
	"salonflow/services/notification"
	"salonflow/services/scheduling"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	staffRepository := staffRepo.NewMongoStaffRepo()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(staffRepository, nil)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	holdManager := scheduling.NewHoldManager(time.Duration(config.AppConfig.HoldTTLMin) * time.Minute)
	taskClient := cron.NewTaskClient()
	defer taskClient.Close()

	engine := &scheduling.Engine{
		Appointments:    apptRepo,
		Staff:           staffRepository,
		Holds:           holdManager,
		Granularity:     config.AppConfig.SlotGranularityMin,
		TaskClient:      taskClient,
		Notifier:        notificationService,
		ReminderLeadMin: config.AppConfig.ReminderLeadMin,
	}

	sessionService := &scheduling.DefaultBookingSessionService{
		Engine: engine,
		TTL:    time.Duration(config.AppConfig.HoldTTLMin) * time.Minute,
	}

	// Background worker: reminder pushes and the periodic hold sweep.
	cron.InitSchedulerWorker(holdManager, apptRepo, notificationService)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		database.MongoClient,
	)

	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(engine, logger),
		Booking:      handlers.NewBookingHandler(sessionService, logger),
		Appointment:  handlers.NewAppointmentHandler(engine, apptRepo, logger),
		Staff:        handlers.NewStaffHandler(staffRepository),
	}
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("salonflow listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
}
