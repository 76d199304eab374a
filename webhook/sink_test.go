// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSink_DisabledIsNoOp verifies an unconfigured sink accepts Log
// calls without doing anything.
func TestSink_DisabledIsNoOp(t *testing.T) {
	sink := NewSink("")
	assert.False(t, sink.Enabled())
	sink.Log("sid", "question", "answer")
}

// TestSink_DeliversExpectedPayload verifies the POST body carries the
// exact column names and values the receiving workflow expects.
func TestSink_DeliversExpectedPayload(t *testing.T) {
	received := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var record map[string]string
		require.NoError(t, json.Unmarshal(body, &record))
		received <- record
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewSink(server.URL)
	require.True(t, sink.Enabled())
	sink.Log("sid-42", "How should I start?", "Begin with breath awareness.")

	select {
	case record := <-received:
		assert.Equal(t, "sid-42", record["Session_id"])
		assert.Equal(t, "How should I start?", record["User Query"])
		assert.Equal(t, "Begin with breath awareness.", record["AI Response"])

		// ISO-8601 UTC with microseconds and a literal Z suffix.
		stamp, err := time.Parse("2006-01-02T15:04:05.000000Z", record["Date and Time"])
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), stamp, time.Minute)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook delivery never arrived")
	}
}

// TestSink_ToleratesRejection verifies a non-2xx response is swallowed.
func TestSink_ToleratesRejection(t *testing.T) {
	done := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		done <- struct{}{}
	}))
	defer server.Close()

	sink := NewSink(server.URL)
	sink.Log("sid", "question", "answer")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("webhook delivery never arrived")
	}
}

// TestSink_ToleratesUnreachableURL verifies connection errors do not
// panic or propagate.
func TestSink_ToleratesUnreachableURL(t *testing.T) {
	sink := NewSink("http://127.0.0.1:1/hook")
	sink.Log("sid", "question", "answer")
	time.Sleep(50 * time.Millisecond)
}
