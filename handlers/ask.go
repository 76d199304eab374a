// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package handlers implements the gin HTTP handlers for the chatbot.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
	"github.com/shahil5z/Tattvashanti-Chatbot/services"
)

var askTracer = otel.Tracer("tattvashanti.handlers")

// HandleAsk serves POST /ask.
//
// The endpoint always answers HTTP 200 at the application level: internal
// failures are expressed through the answer field, not status codes, so
// the front end never needs per-status branching. Only a body that is not
// JSON at all gets a 400.
func HandleAsk(service *services.AnswerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := askTracer.Start(c.Request.Context(), "HandleAsk")
		defer span.End()

		var req datatypes.AskRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			slog.Error("Failed to parse the ask request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		span.SetAttributes(attribute.Bool("ask.has_session", req.SessionId != ""))

		answer, sessionID := service.Answer(ctx, req.Question, req.SessionId)

		c.JSON(http.StatusOK, datatypes.AskResponse{
			Answer:    answer,
			SessionId: sessionID,
		})
	}
}
