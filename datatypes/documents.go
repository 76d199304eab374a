// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

package datatypes

import "github.com/go-playground/validator/v10"

// MaxDocumentContentBytes caps a single ingested document. Large coaching
// guides should be split client-side before upload.
const MaxDocumentContentBytes = 1 * 1024 * 1024 // 1MB

// docValidate is the shared validator instance for document datatypes.
var docValidate *validator.Validate

func init() {
	docValidate = validator.New()
	_ = docValidate.RegisterValidation("maxbytes", validateDocMaxBytes)
}

// validateDocMaxBytes enforces MaxDocumentContentBytes on a string field.
// Checks byte length, not rune count, since the limit exists to bound
// memory, not characters.
func validateDocMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxDocumentContentBytes
}

// IngestDocumentRequest is the body of POST /v1/documents. Content is
// chunked server-side and pushed into the KnowledgeChunk class.
type IngestDocumentRequest struct {
	Content string `json:"content" validate:"required,maxbytes"`
	Source  string `json:"source" validate:"required,max=256"`
}

// Validate checks the request against its validator tags. Call after
// binding the JSON body.
func (r *IngestDocumentRequest) Validate() error {
	return docValidate.Struct(r)
}
