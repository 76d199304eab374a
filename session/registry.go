// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package session provides the in-memory conversation session registry.
//
// Sessions are process-local and non-durable: a restart loses them, which
// is acceptable for short-lived coaching conversations. The registry is
// the sole owner of session state; other components go through Resolve,
// History, and Append rather than touching the map.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
)

const (
	// TTL is how long a session lives after creation. Expired sessions
	// are swept lazily on every Resolve and by the optional janitor.
	TTL = time.Hour

	// MaxHistory caps a session's history length in messages (turns).
	// Two messages are appended per exchange, so this keeps the ten most
	// recent exchanges.
	MaxHistory = 20
)

// entry is the per-session state. History order is append order: the
// user turn of an exchange always directly precedes its assistant turn.
type entry struct {
	history   []datatypes.Message
	createdAt time.Time
}

// Registry is a mutex-guarded map of session ID to conversation state.
//
// All methods are safe for concurrent use. The mutex serializes reads and
// appends per call, which is enough to keep turn order intact: the answer
// pipeline appends both turns of an exchange in a single Append.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time // injectable for expiry tests
}

// NewRegistry returns an empty registry using the wall clock.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// NewRegistryWithClock returns a registry with an injected clock.
// Intended for tests that need to move time past the TTL.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		now:      now,
	}
}

// Resolve returns the session ID to use for this request.
//
// Expired sessions are swept first. If id is empty, unknown, or was just
// swept, a new session is minted with empty history and the new ID is
// returned; otherwise id is returned unchanged.
func (r *Registry) Resolve(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()

	if id != "" {
		if _, ok := r.sessions[id]; ok {
			return id
		}
	}

	newID := uuid.New().String()
	r.sessions[newID] = &entry{createdAt: r.now()}
	slog.Info("session.registry: minted new session", "sessionId", newID)
	return newID
}

// History returns a copy of the session's history, oldest first. Unknown
// sessions yield nil.
func (r *Registry) History(id string) []datatypes.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil
	}
	out := make([]datatypes.Message, len(e.history))
	copy(out, e.history)
	return out
}

// Append records one completed exchange: a user turn followed by an
// assistant turn. History is then truncated to the most recent MaxHistory
// messages, oldest dropped first. Appending to an unknown session is a
// no-op (the session may have expired mid-exchange).
func (r *Registry) Append(id, userText, answerText string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		slog.Warn("session.registry: append to unknown session", "sessionId", id)
		return
	}

	e.history = append(e.history,
		datatypes.Message{Role: datatypes.RoleUser, Content: userText},
		datatypes.Message{Role: datatypes.RoleAssistant, Content: answerText},
	)
	if len(e.history) > MaxHistory {
		e.history = e.history[len(e.history)-MaxHistory:]
	}
}

// Delete removes a session. Used by the admin endpoint.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions, after sweeping expired ones.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.sessions)
}

// Info describes one live session for the admin listing.
type Info struct {
	SessionId string    `json:"session_id"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns a snapshot of live sessions, after sweeping expired ones.
func (r *Registry) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	out := make([]Info, 0, len(r.sessions))
	for id, e := range r.sessions {
		out = append(out, Info{
			SessionId: id,
			Turns:     len(e.history),
			CreatedAt: e.createdAt,
		})
	}
	return out
}

// sweepLocked removes every session older than TTL. Caller holds r.mu.
func (r *Registry) sweepLocked() {
	cutoff := r.now().Add(-TTL)
	for id, e := range r.sessions {
		if e.createdAt.Before(cutoff) {
			delete(r.sessions, id)
			slog.Info("session.registry: swept expired session",
				"sessionId", id,
				"age", r.now().Sub(e.createdAt).String(),
			)
		}
	}
}

// StartJanitor runs a background sweep every interval until ctx is
// cancelled. Expiry correctness does not depend on it (Resolve sweeps
// lazily); the janitor just bounds idle memory between requests.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("session.registry: janitor stopped")
				return
			case <-ticker.C:
				r.mu.Lock()
				before := len(r.sessions)
				r.sweepLocked()
				after := len(r.sessions)
				r.mu.Unlock()
				if before != after {
					slog.Info("session.registry: janitor sweep",
						"swept", before-after, "remaining", after)
				}
			}
		}
	}()
}
