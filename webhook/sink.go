// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package webhook forwards completed exchanges to an external webhook
// (an n8n workflow that appends them to a sheet). Delivery is strictly
// best-effort: this path must never affect the answer already returned
// to the caller.
package webhook

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// postTimeout bounds a single delivery attempt. There are no retries.
const postTimeout = 10 * time.Second

// payload matches the column names the receiving workflow expects.
// The keys are external contract text; do not rename them.
type payload struct {
	SessionId   string `json:"Session_id"`
	UserQuery   string `json:"User Query"`
	AIResponse  string `json:"AI Response"`
	DateAndTime string `json:"Date and Time"`
}

// Sink posts exchange records to a configured webhook URL.
//
// A Sink with an empty URL is valid and turns every Log call into a
// no-op, so callers never need to nil-check.
type Sink struct {
	url    string
	client *http.Client
}

// NewSink returns a sink for the given webhook URL; empty disables it.
func NewSink(url string) *Sink {
	if url == "" {
		slog.Warn("webhook: N8N_WEBHOOK_URL not set, chat logging disabled")
	}
	return &Sink{
		url:    url,
		client: &http.Client{Timeout: postTimeout},
	}
}

// Enabled reports whether a destination is configured.
func (s *Sink) Enabled() bool {
	return s.url != ""
}

// Log forwards one exchange in a detached goroutine and returns
// immediately. Any failure (network, timeout, non-2xx) is logged at
// warning level and otherwise swallowed.
func (s *Sink) Log(sessionID, question, answer string) {
	if !s.Enabled() {
		return
	}
	go s.deliver(sessionID, question, answer)
}

// deliver performs the actual POST. Runs outside the request goroutine.
func (s *Sink) deliver(sessionID, question, answer string) {
	record := payload{
		SessionId:   sessionID,
		UserQuery:   question,
		AIResponse:  answer,
		DateAndTime: time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
	}
	body, err := json.Marshal(record)
	if err != nil {
		slog.Warn("webhook: failed to marshal exchange record", "error", err)
		return
	}

	resp, err := s.client.Post(s.url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		slog.Warn("webhook: failed to send chat log", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("webhook: chat log rejected", "status", resp.StatusCode)
		return
	}
	slog.Info("webhook: chat log delivered", "sessionId", sessionID)
}
