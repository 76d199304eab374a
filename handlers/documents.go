// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package handlers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
)

var (
	chunkSize    = 1000
	chunkOverlap = chunkSize / 10

	defaultSeparators  = []string{"\n\n", "\n", " ", ""}
	markdownSeparators = []string{
		"\n# ", "\n## ", "\n### ", "\n#### ",
		"\n\n", "\n", " ", "",
	}
)

// CreateDocument serves POST /v1/documents: chunks coaching content and
// pushes it into the KnowledgeChunk class. Weaviate's configured
// vectorizer embeds the chunks on insert, so no embedding round trip
// happens here.
func CreateDocument(client *weaviate.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.IngestDocumentRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			slog.Warn("Rejected document ingestion request", "source", req.Source, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		chunksCreated, err := runIngestion(c.Request.Context(), client, req)
		if err != nil {
			slog.Error("Ingestion failed", "source", req.Source, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		slog.Info("Successfully ingested document", "source", req.Source, "chunks_processed", chunksCreated)
		c.JSON(http.StatusCreated, gin.H{
			"status":           "success",
			"source":           req.Source,
			"chunks_processed": chunksCreated,
		})
	}
}

// runIngestion splits the content and batch-imports the chunks.
func runIngestion(ctx context.Context, client *weaviate.Client, req datatypes.IngestDocumentRequest) (int, error) {
	splitter := getSplitterForFile(req.Source)

	chunks, err := splitter.SplitText(req.Content)
	if err != nil {
		return 0, fmt.Errorf("failed to split content: %w", err)
	}
	if len(chunks) == 0 {
		slog.Warn("No chunks produced after splitting", "source", req.Source)
		return 0, nil
	}
	slog.Info("Split document into chunks", "source", req.Source, "chunk_count", len(chunks))

	objects := make([]*models.Object, len(chunks))
	for i, chunk := range chunks {
		// Deterministic ID from the chunk text makes re-ingestion an
		// upsert instead of a duplicate insert.
		hash := sha256.Sum256([]byte(chunk))
		chunkUUID, _ := uuid.FromBytes(hash[:16])

		objects[i] = &models.Object{
			Class: datatypes.KnowledgeChunkClassName,
			ID:    strfmt.UUID(chunkUUID.String()),
			Properties: map[string]interface{}{
				"content":     chunk,
				"source":      fmt.Sprintf("%s_part_%d", req.Source, i+1),
				"ingested_at": time.Now().UnixMilli(),
			},
		}
	}

	resp, err := client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to save objects to Weaviate: %w", err)
	}

	chunksCreated := 0
	for _, item := range resp {
		if item.Result != nil && item.Result.Status != nil && *item.Result.Status == "SUCCESS" {
			chunksCreated++
			continue
		}
		if item.Result != nil && item.Result.Errors != nil {
			for _, errItem := range item.Result.Errors.Error {
				slog.Warn("Error in Weaviate batch item", "source", req.Source, "error", errItem.Message)
			}
		} else {
			slog.Warn("Failed Weaviate batch item, no error provided", "source", req.Source)
		}
	}

	return chunksCreated, nil
}

// getSplitterForFile picks separators by file extension. Coaching content
// is mostly markdown FAQ exports; anything else gets the generic split.
func getSplitterForFile(filename string) textsplitter.TextSplitter {
	seps := defaultSeparators
	if filepath.Ext(filename) == ".md" {
		seps = markdownSeparators
	}
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators(seps),
	)
}
