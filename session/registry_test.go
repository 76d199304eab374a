// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
)

// TestResolve_MintsNewSession verifies that an empty or unknown ID
// produces a fresh valid UUID with empty history.
func TestResolve_MintsNewSession(t *testing.T) {
	r := NewRegistry()

	id := r.Resolve("")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "minted ID should be a UUID")
	assert.Empty(t, r.History(id))

	unknown := r.Resolve("not-a-known-session")
	assert.NotEqual(t, "not-a-known-session", unknown,
		"unknown IDs must not be adopted")
}

// TestResolve_ReturnsKnownSessionUnchanged verifies session continuity.
func TestResolve_ReturnsKnownSessionUnchanged(t *testing.T) {
	r := NewRegistry()
	id := r.Resolve("")
	assert.Equal(t, id, r.Resolve(id))
}

// TestResolve_SweepsExpiredSessions verifies that a session untouched for
// more than the TTL is gone on next lookup and a new ID is minted.
func TestResolve_SweepsExpiredSessions(t *testing.T) {
	now := time.Now()
	r := NewRegistryWithClock(func() time.Time { return now })

	id := r.Resolve("")
	r.Append(id, "hello", "hi there")
	require.Len(t, r.History(id), 2)

	now = now.Add(TTL + time.Minute)

	resolved := r.Resolve(id)
	assert.NotEqual(t, id, resolved, "expired session must not be resumed")
	assert.Empty(t, r.History(resolved), "replacement session starts empty")
	assert.Nil(t, r.History(id), "expired session state is gone")
}

// TestResolve_KeepsSessionsWithinTTL verifies the sweep does not evict
// sessions younger than the TTL.
func TestResolve_KeepsSessionsWithinTTL(t *testing.T) {
	now := time.Now()
	r := NewRegistryWithClock(func() time.Time { return now })

	id := r.Resolve("")
	now = now.Add(TTL - time.Minute)
	assert.Equal(t, id, r.Resolve(id))
}

// TestAppend_CapsHistory verifies that after 11 exchanges the history is
// exactly 20 messages holding the 10 most recent exchanges.
func TestAppend_CapsHistory(t *testing.T) {
	r := NewRegistry()
	id := r.Resolve("")

	for i := 1; i <= 11; i++ {
		r.Append(id, fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	history := r.History(id)
	require.Len(t, history, MaxHistory)

	// Exchange 1 dropped; history starts at exchange 2.
	assert.Equal(t, datatypes.RoleUser, history[0].Role)
	assert.Equal(t, "question 2", history[0].Content)
	assert.Equal(t, datatypes.RoleAssistant, history[len(history)-1].Role)
	assert.Equal(t, "answer 11", history[len(history)-1].Content)
}

// TestAppend_PreservesTurnOrder verifies user/assistant interleaving.
func TestAppend_PreservesTurnOrder(t *testing.T) {
	r := NewRegistry()
	id := r.Resolve("")

	r.Append(id, "first question", "first answer")
	r.Append(id, "second question", "second answer")

	history := r.History(id)
	require.Len(t, history, 4)
	for i, want := range []datatypes.Message{
		{Role: datatypes.RoleUser, Content: "first question"},
		{Role: datatypes.RoleAssistant, Content: "first answer"},
		{Role: datatypes.RoleUser, Content: "second question"},
		{Role: datatypes.RoleAssistant, Content: "second answer"},
	} {
		assert.Equal(t, want, history[i], "turn %d", i)
	}
}

// TestAppend_UnknownSessionIsNoOp verifies appends to swept sessions do
// not resurrect them.
func TestAppend_UnknownSessionIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Append("ghost", "question", "answer")
	assert.Nil(t, r.History("ghost"))
}

// TestHistory_ReturnsCopy verifies callers cannot mutate registry state
// through the returned slice.
func TestHistory_ReturnsCopy(t *testing.T) {
	r := NewRegistry()
	id := r.Resolve("")
	r.Append(id, "question", "answer")

	history := r.History(id)
	history[0].Content = "tampered"

	assert.Equal(t, "question", r.History(id)[0].Content)
}

// TestDelete_RemovesSession covers the admin eviction path.
func TestDelete_RemovesSession(t *testing.T) {
	r := NewRegistry()
	id := r.Resolve("")

	assert.True(t, r.Delete(id))
	assert.False(t, r.Delete(id), "second delete reports missing")
	assert.Nil(t, r.History(id))
}

// TestList_ReportsLiveSessions verifies the admin snapshot.
func TestList_ReportsLiveSessions(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("")
	b := r.Resolve("")
	r.Append(a, "question", "answer")

	infos := r.List()
	require.Len(t, infos, 2)
	byID := map[string]Info{}
	for _, info := range infos {
		byID[info.SessionId] = info
	}
	assert.Equal(t, 2, byID[a].Turns)
	assert.Equal(t, 0, byID[b].Turns)
}

// TestRegistry_ConcurrentAccess exercises the mutex under parallel
// appends to one session. Run with -race.
func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	id := r.Resolve("")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Append(id, "question", "answer")
			_ = r.History(id)
			_ = r.Resolve(id)
		}()
	}
	wg.Wait()

	history := r.History(id)
	assert.Len(t, history, MaxHistory)
	// Pairing survives interleaving because both turns land under one lock.
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, datatypes.RoleUser, history[i].Role)
		assert.Equal(t, datatypes.RoleAssistant, history[i+1].Role)
	}
}
