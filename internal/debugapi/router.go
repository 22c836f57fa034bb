// Package debugapi exposes a small, read-only JSON surface for operational
// visibility (liveness + key/connection counters) on a port separate from
// the RESP command server. It never mutates server state.
package debugapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/respkv/respkv/internal/kvindex"
)

// Router builds the gin engine for the debug/stats surface.
func Router(log *zap.Logger, idx *kvindex.Index, conns activeConns) *gin.Engine {
	log = log.Named("debugapi")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(zapLogger(log))

	cache := newStatsCache(idx, conns, 250*time.Millisecond)

	r.GET("/debug/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, cache.Get(c.Request.Context()))
	})

	return r
}
