// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shahil5z/Tattvashanti-Chatbot/session"
)

// ListSessions serves GET /v1/sessions: a snapshot of live in-memory
// sessions. History text is deliberately not exposed here; the listing is
// for operational visibility, not conversation review.
func ListSessions(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("Received request to list sessions")
		c.JSON(http.StatusOK, gin.H{"sessions": registry.List()})
	}
}

// DeleteSession serves DELETE /v1/sessions/:sessionId, evicting one
// session ahead of its TTL.
func DeleteSession(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		slog.Info("Received a request to delete a session", "sessionId", id)

		if !registry.Delete(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_session_id": id})
	}
}
