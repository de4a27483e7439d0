package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/internal/config"
	"github.com/jengzang/smartcity-backend-go/internal/handler"
	"github.com/jengzang/smartcity-backend-go/internal/metrics"
	"github.com/jengzang/smartcity-backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Complaints *handler.ComplaintHandler
	Stats      *handler.StatsHandler
	Admin      *handler.AdminHandler
}

// SetupRouter 设置路由
func SetupRouter(ctx context.Context, cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	// CORS 中间件
	r.Use(cors(cfg.CORSOrigins))

	// 健康检查
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Smart City Shymkent API",
		})
	}
	r.GET("/", health)
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	complaints := r.Group("/complaints")
	{
		complaints.POST("", middleware.RateLimit(ctx, cfg.RateLimit, time.Minute), h.Complaints.Create)
		complaints.GET("", h.Complaints.List)
		complaints.GET("/:id", h.Complaints.Get)
		complaints.PATCH("/:id", h.Complaints.Patch)
		complaints.POST("/:id/after_photo", h.Complaints.AfterPhoto)
	}

	stats := r.Group("/stats")
	{
		stats.GET("/summary", h.Stats.Summary)
		stats.GET("/trends", h.Stats.Trends)
		stats.GET("/heatmap", h.Stats.Heatmap)
	}

	admin := r.Group("/admin", middleware.RequireRole(cfg.JWTSecret, middleware.RoleAdmin))
	{
		admin.POST("/akimat/prepare/:id", h.Admin.Prepare)
		admin.GET("/akimat/payload/:id", h.Admin.Payload)
		admin.POST("/akimat/send/:id", h.Admin.Send)
		admin.POST("/complaints/:id/after_photo", h.Complaints.AfterPhoto)
	}

	return r
}

func cors(origins []string) gin.HandlerFunc {
	anyOrigin := slices.Contains(origins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (anyOrigin || slices.Contains(origins, origin)) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
