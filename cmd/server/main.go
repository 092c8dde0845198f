package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardmatch/backend/internal/auth"
	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/config"
	"boardmatch/backend/internal/database"
	"boardmatch/backend/internal/handler"
	"boardmatch/backend/internal/push"
	"boardmatch/backend/internal/service"
	"boardmatch/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const changefeedChannel = "boardmatch:changefeed"

// @title           Boardmatch API
// @version         1.0
// @description     Session matchmaking API for the Boardmatch PWA.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	log.Info("database connected and migrated")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores
	users := store.NewUsers(db)
	sessions := store.NewSessions(db)
	swipes := store.NewSwipes(db)
	feedback := store.NewFeedback(db)
	notifications := store.NewNotifications(db)
	games := store.NewGames(db)

	// Change feed: Redis pub/sub fanned out to SSE clients through the hub.
	hub := changefeed.NewHub()
	var feed changefeed.Publisher = changefeed.Nop{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("parse redis url", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		feed = changefeed.NewRedisPublisher(rdb, changefeedChannel, log)
		go changefeed.Bridge(ctx, rdb, changefeedChannel, hub, log)
		log.Info("change feed enabled", "channel", changefeedChannel)
	} else {
		log.Warn("REDIS_URL not set, change feed disabled")
	}

	// Services
	profileSvc := service.NewProfileService(users, feed, log)
	sessionSvc := service.NewSessionService(sessions, users, swipes, notifications, feed, log)
	swipeSvc := service.NewSwipeService(swipes, sessions, feed, log)
	feedbackSvc := service.NewFeedbackService(feedback, sessions, feed, log)
	notificationSvc := service.NewNotificationService(notifications, feed, log)
	catalogSvc := service.NewCatalogService(games, log)

	// Notification dispatcher
	sender := push.NewWebPushSender(cfg.PushSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	dispatcher := service.NewDispatcher(
		notifications, users, sender,
		service.MaxAttempts(cfg.MaxDeliveryAttempts),
		feed, cfg.DispatchInterval, log,
	)
	go dispatcher.Run(ctx)

	handler.RegisterValidators()
	h := handler.New(profileSvc, sessionSvc, swipeSvc, feedbackSvc, notificationSvc, catalogSvc, hub, cfg.JWTSecret)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/discord", h.ExchangeIdentity)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			userRoutes.GET("/me", h.GetMe)
			userRoutes.PUT("/me/library", h.UpdateLibrary)
			userRoutes.PUT("/me/availability", h.UpdateAvailability)
			userRoutes.PUT("/me/push-subscription", h.SetPushSubscription)
			userRoutes.DELETE("/me/push-subscription", h.RemovePushSubscription)
			userRoutes.GET("/me/swipes", h.ListMySwipes)
			userRoutes.GET("/me/feedback", h.ListMyFeedback)
			userRoutes.GET("/:id", h.GetUserByID)
		}

		// Session routes (protected)
		sessionRoutes := apiV1.Group("/sessions")
		sessionRoutes.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			sessionRoutes.POST("", h.CreateSession)
			sessionRoutes.GET("", h.ListSessions)
			sessionRoutes.GET("/discover", h.DiscoverSessions) // Must be before /:id
			sessionRoutes.GET("/:id", h.GetSessionByID)
			sessionRoutes.PUT("/:id", h.UpdateSession)
			sessionRoutes.POST("/:id/status", h.TransitionSession)
			sessionRoutes.POST("/:id/join", h.JoinSession)
			sessionRoutes.POST("/:id/leave", h.LeaveSession)
			sessionRoutes.POST("/:id/swipe", h.RecordSwipe)
			sessionRoutes.GET("/:id/swipes", h.ListSessionSwipes)
			sessionRoutes.PUT("/:id/feedback", h.SubmitFeedback)
			sessionRoutes.GET("/:id/feedback", h.ListSessionFeedback)
		}

		// Game catalog routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			gameRoutes.GET("", h.SearchGames)
			gameRoutes.GET("/:bggID", h.GetGameByBGGID)
		}

		// Notification routes (protected)
		notificationRoutes := apiV1.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			notificationRoutes.GET("", h.ListMyNotifications)
			notificationRoutes.POST("/:id/cancel", h.CancelNotification)
		}

		// Change feed (protected)
		apiV1.GET("/events", auth.AuthMiddleware(cfg.JWTSecret), h.StreamEvents)

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.AdminMiddleware(users))
		{
			adminRoutes.POST("/games", h.ImportGame)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
