// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// TestChatMetrics_Recording verifies outcome and reason counters move as
// expected.
func TestChatMetrics_Recording(t *testing.T) {
	m := NewChatMetrics(prometheus.NewRegistry())

	m.RecordSuccess()
	m.RecordSuccess()
	m.RecordFallback(ReasonTimeout)
	m.RecordFallback(ReasonNonsense)
	m.RecordFallback(ReasonNonsense)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues(ReasonTimeout)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues(ReasonNonsense)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues(ReasonUpstream)))
}

// TestChatMetrics_FreshRegistry verifies two instances can coexist when
// given separate registries.
func TestChatMetrics_FreshRegistry(t *testing.T) {
	a := NewChatMetrics(prometheus.NewRegistry())
	b := NewChatMetrics(prometheus.NewRegistry())
	a.RecordSuccess()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RequestsTotal.WithLabelValues("success")))
}
