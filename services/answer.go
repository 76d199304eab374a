// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package services contains the business logic behind the HTTP handlers.
//
// AnswerService orchestrates one question/answer exchange: validate the
// question, resolve the session, retrieve knowledge-base passages, invoke
// the model with history, record the exchange, and forward it to the
// webhook sink. It never surfaces an error to its caller; every internal
// failure maps to a fixed user-facing fallback string.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
	"github.com/shahil5z/Tattvashanti-Chatbot/llm"
	"github.com/shahil5z/Tattvashanti-Chatbot/observability"
	"github.com/shahil5z/Tattvashanti-Chatbot/retrieval"
	"github.com/shahil5z/Tattvashanti-Chatbot/session"
	"github.com/shahil5z/Tattvashanti-Chatbot/validation"
	"github.com/shahil5z/Tattvashanti-Chatbot/webhook"
)

var answerTracer = otel.Tracer("tattvashanti.services.answer")

// Pipeline constants.
const (
	// AnswerTimeout bounds the retrieve-and-generate step. A call that
	// outlives it keeps running but its result is discarded.
	AnswerTimeout = 20 * time.Second

	// TopK is how many passages are retrieved per question.
	TopK = 3

	// modelTemperature keeps coaching answers consistent across retries.
	modelTemperature float32 = 0.3
)

// Fallback messages returned in place of a generated answer. These are
// caller-visible contract strings.
const (
	FallbackNoQuestion = "I didn't receive a question. Could you please ask something?"
	FallbackUnclear    = "Please ask a clear question (max 500 characters)."
	FallbackNonsense   = "Sorry, I couldn't understand that. Could you please rephrase your question?"
	FallbackSlow       = "I'm taking a bit longer than expected. Please try again."
	FallbackError      = "I'm sorry, I encountered an issue. Could you please rephrase your question?"
)

// AnswerService wires the answer pipeline's collaborators together.
//
// The service itself is stateless apart from the injected session
// registry and is safe for concurrent use.
type AnswerService struct {
	retriever retrieval.Retriever
	llmClient llm.LLMClient
	sessions  *session.Registry
	sink      *webhook.Sink
	metrics   *observability.ChatMetrics
	timeout   time.Duration
}

// NewAnswerService creates an AnswerService. All dependencies are
// required except metrics, which may be nil (disables recording).
func NewAnswerService(
	retriever retrieval.Retriever,
	llmClient llm.LLMClient,
	sessions *session.Registry,
	sink *webhook.Sink,
	metrics *observability.ChatMetrics,
) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llmClient: llmClient,
		sessions:  sessions,
		sink:      sink,
		metrics:   metrics,
		timeout:   AnswerTimeout,
	}
}

// generateResult carries the outcome of the retrieve-and-generate step
// across the timeout boundary.
type generateResult struct {
	answer string
	err    error
}

// Answer processes one exchange and returns the answer text plus the
// session identifier the client should carry forward.
//
// It never returns an error. On success the returned identifier is the
// resolved session (freshly minted when the supplied one was empty,
// unknown, or expired). On any fallback path the supplied identifier is
// echoed back unchanged, possibly empty, matching the behavior callers
// already depend on.
func (s *AnswerService) Answer(ctx context.Context, question, suppliedID string) (string, string) {
	ctx, span := answerTracer.Start(ctx, "AnswerService.Answer")
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.AnswerDurationSeconds.Observe(time.Since(start).Seconds())
		}
	}()

	if strings.TrimSpace(question) == "" {
		s.recordFallback(observability.ReasonEmptyInput)
		return FallbackNoQuestion, suppliedID
	}

	normalized, err := validation.Normalize(question)
	if err != nil {
		span.SetAttributes(attribute.String("answer.fallback", "validation"))
		slog.Info("answer: rejected question", "error", err)
		if validation.IsKind(err, validation.KindNonsense) {
			s.recordFallback(observability.ReasonNonsense)
			return FallbackNonsense, suppliedID
		}
		s.recordFallback(observability.ReasonValidation)
		return FallbackUnclear, suppliedID
	}
	if normalized == validation.InjectionSentinel {
		span.SetAttributes(attribute.Bool("answer.injection_neutralized", true))
		slog.Warn("answer: neutralized suspected prompt injection", "sessionId", suppliedID)
	}

	sessionID := s.sessions.Resolve(suppliedID)
	span.SetAttributes(attribute.String("session.id", sessionID))
	history := s.sessions.History(sessionID)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	}

	// The generate goroutine gets a detached context: on timeout the call
	// is allowed to run to completion, its result simply discarded.
	resultCh := make(chan generateResult, 1)
	callCtx := context.WithoutCancel(ctx)
	go func() {
		answer, genErr := s.generate(callCtx, normalized, history)
		resultCh <- generateResult{answer: answer, err: genErr}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, "generation failed")
			slog.Error("answer: generation failed", "sessionId", sessionID, "error", res.err)
			s.recordFallback(observability.ReasonUpstream)
			return FallbackError, suppliedID
		}

		// History and the webhook record carry the question exactly as the
		// user submitted it, not the neutralized form sent to the model.
		s.sessions.Append(sessionID, question, res.answer)
		s.sink.Log(sessionID, question, res.answer)
		if s.metrics != nil {
			s.metrics.RecordSuccess()
		}
		span.SetAttributes(attribute.Int("answer.history_len", len(history)))
		return res.answer, sessionID

	case <-timer.C:
		span.SetStatus(codes.Error, "generation timed out")
		slog.Warn("answer: generation timed out", "sessionId", sessionID, "timeout", s.timeout.String())
		s.recordFallback(observability.ReasonTimeout)
		return FallbackSlow, suppliedID

	case <-ctx.Done():
		span.RecordError(ctx.Err())
		slog.Warn("answer: request context cancelled", "sessionId", sessionID, "error", ctx.Err())
		s.recordFallback(observability.ReasonUpstream)
		return FallbackError, suppliedID
	}
}

// generate runs retrieval, context formatting, and the model call. It is
// the part of the pipeline covered by the answer timeout.
func (s *AnswerService) generate(ctx context.Context, question string, history []datatypes.Message) (string, error) {
	ctx, span := answerTracer.Start(ctx, "AnswerService.generate")
	defer span.End()

	passages, err := s.retriever.Search(ctx, question, TopK)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	contextText := retrieval.FormatPassages(passages)
	span.SetAttributes(
		attribute.Int("retrieval.passages", len(passages)),
		attribute.Int("retrieval.context_bytes", len(contextText)),
	)

	messages := make([]datatypes.Message, 0, len(history)+2)
	messages = append(messages, datatypes.Message{
		Role:    datatypes.RoleSystem,
		Content: buildSystemPrompt(contextText),
	})
	messages = append(messages, history...)
	messages = append(messages, datatypes.Message{
		Role:    datatypes.RoleUser,
		Content: question,
	})

	temperature := modelTemperature
	answer, err := s.llmClient.Chat(ctx, messages, llm.GenerationParams{
		Temperature: &temperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "LLM call failed")
		return "", err
	}
	return answer, nil
}

func (s *AnswerService) recordFallback(reason string) {
	if s.metrics != nil {
		s.metrics.RecordFallback(reason)
	}
}
