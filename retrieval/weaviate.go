// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package retrieval performs semantic search over the coaching knowledge
// base and cleans the retrieved passages into model-ready context.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
)

var retrievalTracer = otel.Tracer("tattvashanti.retrieval")

// Retriever is a keyed-nearest-neighbor search over the knowledge base.
//
// Implementations must return passages ranked by relevance descending and
// be safe for concurrent use.
type Retriever interface {
	// Search returns up to limit passages semantically closest to query.
	Search(ctx context.Context, query string, limit int) ([]datatypes.Passage, error)
}

// Compile-time interface implementation check.
var _ Retriever = (*WeaviateRetriever)(nil)

// WeaviateRetriever implements Retriever with a nearText GraphQL query
// against the KnowledgeChunk class. Weaviate's configured vectorizer
// handles query embedding, so retrieval is a single round trip.
type WeaviateRetriever struct {
	client *weaviate.Client
}

// NewWeaviateRetriever wraps an initialized Weaviate client.
func NewWeaviateRetriever(client *weaviate.Client) *WeaviateRetriever {
	return &WeaviateRetriever{client: client}
}

// Search implements Retriever.
func (r *WeaviateRetriever) Search(ctx context.Context, query string, limit int) ([]datatypes.Passage, error) {
	ctx, span := retrievalTracer.Start(ctx, "WeaviateRetriever.Search")
	defer span.End()

	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if limit <= 0 {
		limit = 3
	}
	span.SetAttributes(attribute.Int("retrieval.limit", limit))

	nearText := r.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "_additional { id distance }"},
	}

	result, err := r.client.GraphQL().Get().
		WithClassName(datatypes.KnowledgeChunkClassName).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearText query failed")
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	if len(result.Errors) > 0 {
		err := fmt.Errorf("semantic search: %s", result.Errors[0].Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearText query returned errors")
		return nil, err
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.KnowledgeChunkQueryResponse](result)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	// Weaviate returns chunks ranked by distance ascending; keep that order.
	passages := make([]datatypes.Passage, 0, len(parsed.Get.KnowledgeChunk))
	for _, chunk := range parsed.Get.KnowledgeChunk {
		passages = append(passages, datatypes.Passage{
			Text:   chunk.Content,
			Source: chunk.Source,
		})
	}

	span.SetAttributes(attribute.Int("retrieval.passages", len(passages)))
	slog.Debug("retrieval: nearText search complete", "passages", len(passages))
	return passages, nil
}
