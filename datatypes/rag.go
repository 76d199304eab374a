// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package datatypes

import (
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
)

// KnowledgeChunkClassName is the Weaviate class holding the coaching
// knowledge base. Each object is one retrievable passage.
const KnowledgeChunkClassName = "KnowledgeChunk"

// Passage is one retrieved text fragment used as grounding context for
// generation. Passages are transient: produced per request, never stored.
type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// ParseGraphQLResponse parses a Weaviate GraphQL response into the target
// type. The target type T must have json tags matching the response shape.
//
// Weaviate's Go client returns query data as map[string]models.JSONObject;
// this helper encapsulates the marshal/unmarshal round trip needed to get
// a strongly-typed struct out of it.
func ParseGraphQLResponse[T any](resp *models.GraphQLResponse) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	respBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL response data: %w", err)
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into target type: %w", err)
	}

	return &result, nil
}

// KnowledgeChunkQueryResponse is the shape of a Get query against the
// KnowledgeChunk class.
type KnowledgeChunkQueryResponse struct {
	Get struct {
		KnowledgeChunk []KnowledgeChunkResult `json:"KnowledgeChunk"`
	} `json:"Get"`
}

// KnowledgeChunkResult is a single chunk returned by a nearText query.
// Results arrive ranked by relevance descending; that order is significant
// and must be preserved by callers.
type KnowledgeChunkResult struct {
	Content    string `json:"content"`
	Source     string `json:"source"`
	Additional struct {
		ID       string   `json:"id"`
		Distance *float32 `json:"distance"`
	} `json:"_additional"`
}
