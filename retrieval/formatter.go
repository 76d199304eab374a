// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package retrieval

import (
	"strings"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
)

// NoContextSentinel is the context string used when retrieval produced
// nothing usable. The system prompt instructs the model to fall back to
// its standard "I don't have that information" response in that case.
const NoContextSentinel = "No relevant information found in the knowledge base."

// Markers left in the knowledge base by the ingestion tooling. Chunks may
// carry a trailing metadata block and Q/A framing from the source FAQ
// documents; neither belongs in model context.
const (
	metadataMarker      = "## [METADATA:"
	innerMetadataMarker = "\n\n## [METADATA:"
	questionPrefixLong  = "### Q:"
	questionPrefix      = "Q:"
	answerLabel         = "\nA:"
)

// FormatPassages cleans raw retrieved passages into one plain-prose
// context string for the prompt.
//
// Per passage: truncate at the metadata marker if present; if the
// remainder is Q/A framed ("### Q:" or "Q:" with a "\nA:" label), keep
// only the answer text (itself truncated at an embedded metadata marker);
// a question prefix without an answer label is stripped instead. Cleaned
// passages are joined with a blank line in their original order, which is
// relevance-ranked and must not be re-sorted.
//
// An already-clean passage comes back unchanged apart from trimming.
// No passages, or none surviving cleanup, yields NoContextSentinel.
func FormatPassages(passages []datatypes.Passage) string {
	if len(passages) == 0 {
		return NoContextSentinel
	}

	cleaned := make([]string, 0, len(passages))
	for _, p := range passages {
		text := cleanPassage(p.Text)
		if text != "" {
			cleaned = append(cleaned, text)
		}
	}

	if len(cleaned) == 0 {
		return NoContextSentinel
	}
	return strings.Join(cleaned, "\n\n")
}

// cleanPassage applies the per-passage cleanup rules. Returns "" if
// nothing survives.
func cleanPassage(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if idx := strings.Index(text, metadataMarker); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	if strings.HasPrefix(text, questionPrefixLong) || strings.HasPrefix(text, questionPrefix) {
		if idx := strings.Index(text, answerLabel); idx >= 0 {
			answer := text[idx+len(answerLabel):]
			if mIdx := strings.Index(answer, innerMetadataMarker); mIdx >= 0 {
				answer = answer[:mIdx]
			}
			text = strings.TrimSpace(answer)
		} else {
			text = strings.ReplaceAll(text, questionPrefixLong, "")
			text = strings.Replace(text, questionPrefix, "", 1)
			text = strings.TrimSpace(text)
		}
	}

	return text
}
