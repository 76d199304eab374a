// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package observability provides Prometheus metrics for the chat
// pipeline. Metrics are exposed via the /metrics endpoint; all operations
// are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "tattvashanti"
	chatSubsystem    = "chat"
)

// ChatMetrics holds the Prometheus metrics for /ask processing.
// Initialize once at startup via NewChatMetrics.
type ChatMetrics struct {
	// RequestsTotal counts answer attempts by outcome.
	// Labels: outcome (success, fallback)
	RequestsTotal *prometheus.CounterVec

	// FallbacksTotal counts fallback answers by reason.
	// Labels: reason (empty_input, validation, nonsense, timeout, upstream)
	FallbacksTotal *prometheus.CounterVec

	// AnswerDurationSeconds measures wall-clock time of the full
	// validate-retrieve-generate pipeline.
	AnswerDurationSeconds prometheus.Histogram

	// ActiveSessions tracks the live session count after each request.
	ActiveSessions prometheus.Gauge
}

// Fallback reason label values.
const (
	ReasonEmptyInput = "empty_input"
	ReasonValidation = "validation"
	ReasonNonsense   = "nonsense"
	ReasonTimeout    = "timeout"
	ReasonUpstream   = "upstream"
)

// NewChatMetrics registers the chat metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in main; tests use a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	factory := promauto.With(reg)
	return &ChatMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: chatSubsystem,
			Name:      "requests_total",
			Help:      "Answer attempts by outcome.",
		}, []string{"outcome"}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: chatSubsystem,
			Name:      "fallbacks_total",
			Help:      "Canned fallback answers by reason.",
		}, []string{"reason"}),
		AnswerDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: chatSubsystem,
			Name:      "answer_duration_seconds",
			Help:      "Wall-clock duration of the answer pipeline.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: chatSubsystem,
			Name:      "active_sessions",
			Help:      "Live sessions in the in-memory registry.",
		}),
	}
}

// RecordSuccess counts a successfully generated answer.
func (m *ChatMetrics) RecordSuccess() {
	m.RequestsTotal.WithLabelValues("success").Inc()
}

// RecordFallback counts a canned answer with its reason.
func (m *ChatMetrics) RecordFallback(reason string) {
	m.RequestsTotal.WithLabelValues("fallback").Inc()
	m.FallbacksTotal.WithLabelValues(reason).Inc()
}
