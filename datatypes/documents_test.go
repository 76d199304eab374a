// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package datatypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIngestDocumentRequest_Validate exercises the validator tags.
func TestIngestDocumentRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     IngestDocumentRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  IngestDocumentRequest{Content: "Q: What is pranayama?\nA: Breath regulation.", Source: "faq.md"},
		},
		{
			name:    "missing content",
			req:     IngestDocumentRequest{Source: "faq.md"},
			wantErr: true,
		},
		{
			name:    "missing source",
			req:     IngestDocumentRequest{Content: "text"},
			wantErr: true,
		},
		{
			name:    "content over byte cap",
			req:     IngestDocumentRequest{Content: strings.Repeat("a", MaxDocumentContentBytes+1), Source: "big.md"},
			wantErr: true,
		},
		{
			name: "content at byte cap",
			req:  IngestDocumentRequest{Content: strings.Repeat("a", MaxDocumentContentBytes), Source: "big.md"},
		},
		{
			name:    "source too long",
			req:     IngestDocumentRequest{Content: "text", Source: strings.Repeat("s", 257)},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
