package main

import (
	"os"

	"github.com/dnachavez/ecowaste-sub001/internal/config"
	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/middleware"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
	"github.com/dnachavez/ecowaste-sub001/internal/routes"
	"github.com/dnachavez/ecowaste-sub001/internal/services"
	"github.com/dnachavez/ecowaste-sub001/pkg/logger"
	"github.com/dnachavez/ecowaste-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting EcoWaste Engine...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database
	database.Connect()
	database.InitRedis()

	// 2. Migrations
	logger.Info().Msg("Running database migrations...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.Task{},
		&models.Progress{},
		&models.Grant{},
		&models.UserBadge{},
		&models.Notification{},
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	logger.Info().Msg("Database migrations complete")

	// 3. Metrics + Scheduler
	utils.InitMetrics()
	services.StartScheduler()

	// 4. Socket bridge for the fan-out layer
	socketServer := realtime.InitSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error().Err(err).Msg("socket server stopped")
		}
	}()
	defer socketServer.Close()

	// 5. Router
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// Exempt /socket.io and /metrics from rate limiting
	r.Use(func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/metrics" || len(p) >= 11 && p[:11] == "/socket.io/" {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	r.GET("/socket.io/*any", gin.WrapH(socketServer))
	r.POST("/socket.io/*any", gin.WrapH(socketServer))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	routes.RegisterEngineRoutes(api)

	port := config.AppConfig.Port
	logger.Info().Str("port", port).Msg("Engine listening")
	if err := r.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("Server exited")
	}
}
