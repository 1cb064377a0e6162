package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Ingest    *IngestHandler
	Documents *DocumentHandler
	Extract   *ExtractHandler
	Ask       *AskHandler
	Audit     *AuditHandler
	Stats     *StatsHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/ingest", deps.Ingest.Ingest)
	api.POST("/extract", deps.Extract.Extract)
	api.POST("/ask", deps.Ask.Ask)
	api.POST("/audit", deps.Audit.Audit)

	api.GET("/documents", deps.Documents.List)
	api.GET("/documents/:id", deps.Documents.Get)
	api.DELETE("/documents/:id", deps.Documents.Delete)

	api.GET("/health", deps.Stats.Health)
	api.GET("/metrics", deps.Stats.Metrics)
}
