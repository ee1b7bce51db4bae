package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"record_service/internal/config"
	"record_service/internal/logging"
	"record_service/internal/middleware"
)

// NewRouter wires middleware and routes around h.
func NewRouter(h *RecordHandler, cfg config.Server, logger *zap.Logger) *gin.Engine {
	logger = logging.OrNop(logger)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		middleware.UserIdxHeader,
		middleware.GatewayKeyHeader,
		middleware.RequestIDHeader,
	)
	router.Use(cors.New(corsConfig))

	router.GET("/health", Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	records := router.Group("/records")
	records.Use(
		middleware.GatewayKeyMiddleware(cfg.GatewayKey),
		middleware.UserIdxMiddleware(),
		middleware.RateLimitMiddleware(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	)
	{
		records.POST("/test/auth", h.TestAuth)
		records.POST("/input", h.Input)
		records.GET("/unchecked", h.GetUnchecked)
		records.GET("/unchecked/stream", h.StreamUnchecked)
		records.GET("/device-type/date", h.GetByDeviceTypeAndDate)
		records.POST("/:recordIdx/checked", h.UpdateChecked)
	}

	return router
}

// Health godoc
// @Summary      헬스 체크
// @Tags         System
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
