// Package router provides chatrag service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/rigel-labs/chatrag/internal/chatrag/handler"
)

// Register registers the chatrag service routes on the engine.
func Register(engine *gin.Engine, docHandler *handler.DocumentHandler, queryHandler *handler.QueryHandler) {
	logger.Info("Registering chatrag routes...")

	v1 := engine.Group("/v1")
	{
		documents := v1.Group("/documents")
		{
			documents.POST("", docHandler.Upload)
			documents.GET("", docHandler.List)
			documents.GET("/content", docHandler.Download)
			documents.DELETE("", docHandler.Delete)
		}

		query := v1.Group("/query")
		{
			query.POST("/classify", queryHandler.Classify)
			query.POST("/prompt", queryHandler.Prompt)
			query.POST("/web", queryHandler.WebPrompt)
		}

		v1.GET("/stats", queryHandler.Stats)
	}

	engine.GET("/metrics", queryHandler.Metrics)

	logger.Info("HTTP routes registered")
}
