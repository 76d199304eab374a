// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahil5z/Tattvashanti-Chatbot/session"
)

func newSessionsRouter() (*gin.Engine, *session.Registry) {
	gin.SetMode(gin.TestMode)
	registry := session.NewRegistry()
	router := gin.New()
	router.GET("/v1/sessions", ListSessions(registry))
	router.DELETE("/v1/sessions/:sessionId", DeleteSession(registry))
	return router, registry
}

// TestListSessions verifies the listing reflects live sessions and their
// turn counts without exposing history text.
func TestListSessions(t *testing.T) {
	router, registry := newSessionsRouter()
	id := registry.Resolve("")
	registry.Append(id, "question", "answer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sessions []session.Info `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, id, resp.Sessions[0].SessionId)
	assert.Equal(t, 2, resp.Sessions[0].Turns)
	assert.NotContains(t, w.Body.String(), "question",
		"history content must not leak into the listing")
}

// TestDeleteSession verifies eviction and the 404 on a second attempt.
func TestDeleteSession(t *testing.T) {
	router, registry := newSessionsRouter()
	id := registry.Resolve("")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, registry.Len())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
