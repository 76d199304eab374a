// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/shahil5z/Tattvashanti-Chatbot/handlers"
	"github.com/shahil5z/Tattvashanti-Chatbot/services"
	"github.com/shahil5z/Tattvashanti-Chatbot/session"
)

// SetupRoutes registers the chatbot's endpoints. The Weaviate client may
// be nil under tests that only touch the chat surface; the document
// routes are skipped in that case.
func SetupRoutes(router *gin.Engine, answerService *services.AnswerService,
	registry *session.Registry, weaviateClient *weaviate.Client) {

	router.GET("/", handlers.ServeIndex)
	router.GET("/favicon.ico", handlers.ServeFavicon)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/ask", handlers.HandleAsk(answerService))

	v1 := router.Group("/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", handlers.ListSessions(registry))
			sessions.DELETE("/:sessionId", handlers.DeleteSession(registry))
		}
		if weaviateClient != nil {
			v1.POST("/documents", handlers.CreateDocument(weaviateClient))
		}
	}
}
