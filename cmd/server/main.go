package main

import (
	"database/sql"
	"net/http"

	"kedai-be/internal/catalog"
	"kedai-be/internal/config"
	"kedai-be/internal/db"
	"kedai-be/internal/handler"
	"kedai-be/internal/logger"
	"kedai-be/internal/middleware"
	"kedai-be/internal/notify"
	"kedai-be/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := newDatabaseFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	router := newServer(cfg, database)

	logger.L().Info("server starting", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, router)
}

// Swappable in tests.
var (
	newDatabaseFunc = db.NewDatabase
	startServerFunc = func(addr string, h http.Handler) error {
		return http.ListenAndServe(addr, h)
	}
)

func newServer(cfg *config.Config, database *sql.DB) *gin.Engine {
	catalogRepo := catalog.NewRepository(database)
	orderRepo := order.NewRepository(database)
	notifier := notify.NewLogNotifier()
	orderSvc := order.NewService(orderRepo, catalogRepo, notifier)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		logger.RequestIDMiddleware(),
		logger.LoggingMiddleware(),
		middleware.AuthMiddleware([]byte(cfg.JWTSecret)),
		middleware.RateLimitMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	handler.NewOrderHandler(orderSvc).RegisterRoutes(router)

	return router
}
