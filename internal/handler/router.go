package handler

import (
	"net/http"

	"github.com/CageChen/spaceinspect/internal/logging"
	"github.com/CageChen/spaceinspect/internal/metrics"
	"github.com/gin-gonic/gin"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Static serves the web UI for unmatched routes when set.
	Static http.FileSystem
	// Metrics mounts /metrics.
	Metrics bool
	// Watch enables directory change notifications for WebSocket sessions.
	Watch bool
}

// NewRouter wires every route onto a gin engine.
func NewRouter(api *APIHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(api.Log))
	if opts.Metrics {
		r.Use(metrics.Middleware())
	}
	r.Use(corsMiddleware())

	ws := NewWSHandler(api, opts.Watch)

	g := r.Group("/api")
	{
		g.GET("/config", api.GetConfig)
		g.GET("/list", api.List)
		g.GET("/file", api.File)
		g.GET("/highlight.css", api.HighlightCSS)
		g.POST("/nav", api.Navigate)
		g.GET("/snapshot/:kind", api.Snapshot)
		g.GET("/ws", ws.HandleWS)
	}

	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if opts.Static != nil {
		r.NoRoute(gin.WrapH(http.FileServer(opts.Static)))
	}
	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+logging.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
