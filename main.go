// File: tasknotify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasknotify/config"
	"tasknotify/cron"
	"tasknotify/database"
	taskRepoPkg "tasknotify/database/repository/task"
	userRepoPkg "tasknotify/database/repository/user"
	"tasknotify/handlers"
	"tasknotify/middleware"
	"tasknotify/routes"
	"tasknotify/services/dispatch"
	"tasknotify/services/push"
	"tasknotify/services/reminder"
	"tasknotify/utils"
	"tasknotify/watcher"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := database.Connect(rootCtx)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	dedupClient, err := utils.NewRedisClient(config.AppConfig.RedisDedupDB)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	fcmClient, err := utils.FirebaseMessaging(rootCtx, config.AppConfig.FirebaseCredentialsFile)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo(mongoClient)
	taskRepo := taskRepoPkg.NewMongoTaskRepo(mongoClient)

	// services.
	sender, err := push.NewFCMSender(fcmClient)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	scheduler := reminder.NewAsynqScheduler(asynqClient)

	dispatcher, err := dispatch.NewDefaultDispatchService(userRepo, taskRepo, sender, scheduler, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Reminder worker.
	worker := &cron.ReminderWorker{
		Users:  userRepo,
		Tasks:  taskRepo,
		Sender: sender,
		Logger: logger,
	}
	worker.Start()

	// Change-stream watcher, the trigger binding for task documents.
	taskWatcher := watcher.New(mongoClient, dispatcher, logger)
	go func() {
		if err := taskWatcher.Run(rootCtx); err != nil && rootCtx.Err() == nil {
			logger.Sugar().Fatalf("main: watcher stopped: %v", err)
		}
	}()

	utils.StartHealthMonitor(dedupClient, mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	triggerHandler := handlers.NewTriggerHandler(dispatcher, dedupClient)
	routes.RegisterRoutes(router, triggerHandler)

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
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
