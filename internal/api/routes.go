package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuetouch/internal/api/handlers"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/game"
	"github.com/playpool/cuetouch/internal/middleware"
	"github.com/playpool/cuetouch/internal/ws"
)

// SetupRoutes configures all API routes. Tables created over HTTP live as long as appCtx.
func SetupRoutes(appCtx context.Context, router *gin.Engine, tm *game.TableManager, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))
		v1.GET("/layout", handlers.GetLayout)

		tables := v1.Group("/tables")
		{
			tables.POST("", handlers.CreateTable(appCtx, tm, cfg))
			tables.GET("/:id", handlers.GetTable(tm, hub))
			tables.DELETE("/:id", handlers.DeleteTable(tm))
			tables.GET("/:id/snapshot", handlers.GetSnapshot(tm))
			tables.GET("/:id/shots", handlers.ListShots(tm))
			tables.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTableWebSocket(hub))
		}
	}

	if cfg.StaticDir != "" {
		files := http.FileServer(gin.Dir(cfg.StaticDir, false))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
		log.Printf("[STATIC] Serving client from %s", cfg.StaticDir)
	}
}
