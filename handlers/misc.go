// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexPagePath is the prebuilt chat page served at the site root. The
// page itself is maintained separately from this service.
const IndexPagePath = "frontend/index.html"

// ServeIndex returns the static chat UI.
func ServeIndex(c *gin.Context) {
	c.File(IndexPagePath)
}

// ServeFavicon answers browser favicon probes with an empty 204 so they
// stop cluttering the error logs.
func ServeFavicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HealthCheck reports liveness for the container orchestrator.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
