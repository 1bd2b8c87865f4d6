// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package groq is the streaming transport for Groq's OpenAI-compatible
// chat-completions endpoint.
//
// A Client performs one streaming request at a time. The response body is
// decoded as UTF-8 incrementally, split into newline-delimited records, and
// every `data: ` record carrying choices[0].delta.content becomes one Delta.
// The `data: [DONE]` sentinel and malformed records never produce deltas.
//
// # Key Types
//
//   - Client: HTTP client holding the bearer token and the in-flight request
//   - ChatMessage / ChatRequest: wire request types
//   - Delta: one text fragment, or the terminal error of a stream
//   - APIError: non-2xx response, classified by ErrAuthFailed / ErrRateLimited
//
// # Usage
//
//	client := groq.NewClient(apiKey)
//	deltas, err := client.Stream(ctx, client.NewRequest(model, messages))
//	if err != nil {
//	    return err // ErrBusy, ErrNotConfigured
//	}
//	for d := range deltas {
//	    if d.Err != nil {
//	        // localized via i18n.ErrorText
//	        continue
//	    }
//	    fmt.Print(d.Text)
//	}
//
// Cancel (or cancelling ctx) ends the stream silently: the channel closes
// without an error delta.
package groq
