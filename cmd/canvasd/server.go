package main

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// newRouter builds the gin engine and registers every v1 route plus the
// websocket stream and health check, mirroring the teacher's
// RegisterRoutes(rg, handlers) grouping convention.
func newRouter(h *Handlers, ws *hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("canvasd"))

	r.GET("/healthz", h.HandleHealth)

	v1 := r.Group("/v1")
	registerRoutes(v1, h, ws)

	return r
}

// registerRoutes registers all /v1/* endpoints with rg.
//
//	POST /v1/apply            - apply one EditIntent
//	GET  /v1/render           - current full projection (polling fallback)
//	GET  /v1/stream           - websocket feed of every render after a commit
//	POST /v1/snapshot         - capture and persist the live canvas
//	POST /v1/snapshot/restore - restore the last persisted snapshot
func registerRoutes(rg *gin.RouterGroup, h *Handlers, ws *hub) {
	rg.POST("/apply", h.HandleApply)
	rg.GET("/render", h.HandleRender)
	rg.GET("/stream", ws.HandleWebSocket)
	rg.POST("/snapshot", h.HandleSnapshotSave)
	rg.POST("/snapshot/restore", h.HandleSnapshotRestore)
}
