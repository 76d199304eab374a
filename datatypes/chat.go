// Copyright (C) 2025 Tattva Shanti
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/> for the full license text.

// Package datatypes provides the request, response, and domain types shared
// by the chatbot's handlers and services.
package datatypes

// Message is a single role-tagged turn in a conversation. Role is one of
// "system", "user", or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AskRequest is the body of POST /ask.
//
// SessionId is optional: an empty or unknown value results in a freshly
// minted session. Semantic validation of Question (length, alphabetic
// ratio, injection phrasing) is handled by the validation package, not
// here, because validation failures must still produce a 200 response
// with a canned answer.
type AskRequest struct {
	Question  string `json:"question"`
	SessionId string `json:"session_id"`
}

// AskResponse is the body returned by POST /ask. The endpoint always
// answers HTTP 200; internal failures surface as canned text in Answer.
type AskResponse struct {
	Answer    string `json:"answer"`
	SessionId string `json:"session_id"`
}
