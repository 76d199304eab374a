// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package validation provides input validation and sanitization for
// user-submitted questions.
//
// The checks here are heuristic gatekeeping, not security boundaries: they
// reject obviously unusable input (empty, oversized, keyboard mash) and
// neutralize short prompt-injection attempts before the text reaches the
// model. Non-Latin-script input can false-positive on the alphabetic-ratio
// check; that is a known limitation.
package validation

import (
	"fmt"
	"strings"
)

// Question limits.
const (
	// MaxQuestionLen is the maximum accepted question length in bytes.
	MaxQuestionLen = 500

	// minAlphaRatio is the minimum ratio of ASCII letters to total length
	// below which input is treated as nonsense.
	minAlphaRatio = 0.3

	// alphaRatioExemptLen exempts very short strings from the ratio check
	// so brief valid inputs like "k8s?" are not rejected.
	alphaRatioExemptLen = 5

	// injectionMaxWords is the word count below which a question containing
	// an injection trigger phrase is neutralized. Longer sentences that
	// merely mention a trigger word pass through untouched.
	injectionMaxWords = 8
)

// InjectionSentinel replaces short suspected prompt-injection attempts
// before the text is sent downstream.
const InjectionSentinel = "User asked a question that appears to attempt prompt injection."

// injectionTriggers are lowercase phrases that flag a possible injection
// attempt when they appear in a short question.
var injectionTriggers = []string{
	"ignore", "forget", "previous", "system prompt", "you are", "act as",
}

// Kind discriminates validation failures so callers can map each to the
// right user-facing fallback message.
type Kind int

const (
	// KindEmpty means the question was empty after trimming whitespace.
	KindEmpty Kind = iota
	// KindTooLong means the question exceeded MaxQuestionLen.
	KindTooLong
	// KindNonsense means the alphabetic ratio fell below minAlphaRatio.
	KindNonsense
)

// Error is a typed validation failure.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid question: %s", e.Detail)
}

// IsKind reports whether err is a *validation.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ve, ok := err.(*Error)
	return ok && ve.Kind == kind
}

// Normalize validates raw question text and returns the string to pass
// downstream.
//
// Failure cases:
//   - KindEmpty: empty after trimming
//   - KindTooLong: longer than MaxQuestionLen
//   - KindNonsense: alphabetic ratio < 0.3 and length > 5
//
// Neutralization is a side effect, not a failure: a question of fewer than
// eight words containing an injection trigger phrase is replaced wholesale
// with InjectionSentinel. Longer legitimate questions that happen to
// contain a trigger word are preserved.
func Normalize(raw string) (string, error) {
	question := strings.TrimSpace(raw)
	if question == "" {
		return "", &Error{Kind: KindEmpty, Detail: "question is empty"}
	}

	if len(question) > MaxQuestionLen {
		return "", &Error{Kind: KindTooLong,
			Detail: fmt.Sprintf("question is %d bytes, max is %d", len(question), MaxQuestionLen)}
	}

	if len(question) > alphaRatioExemptLen && alphaRatio(question) < minAlphaRatio {
		return "", &Error{Kind: KindNonsense, Detail: "alphabetic ratio below threshold"}
	}

	if isLikelyInjection(question) {
		return InjectionSentinel, nil
	}

	return question, nil
}

// alphaRatio returns the fraction of bytes in s that are ASCII letters.
func alphaRatio(s string) float64 {
	if s == "" {
		return 0
	}
	letters := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			letters++
		}
	}
	return float64(letters) / float64(len(s))
}

// isLikelyInjection reports whether the question is short enough and
// contains a trigger phrase.
func isLikelyInjection(question string) bool {
	if len(strings.Fields(question)) >= injectionMaxWords {
		return false
	}
	lower := strings.ToLower(question)
	for _, trigger := range injectionTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
