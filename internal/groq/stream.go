// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// =============================================================================
// STREAMING CONSTANTS
// =============================================================================

const (
	// dataPrefix marks the only significant record kind.
	dataPrefix = "data: "

	// doneSentinel is the payload of the end-of-stream record.
	doneSentinel = "[DONE]"

	// readChunkSize is the size of each read from the response body.
	readChunkSize = 4 * 1024
)

// errMalformedRecord marks a data record whose payload is not valid JSON.
var errMalformedRecord = errors.New("malformed stream record")

// streamChunk is the subset of a streamed completion chunk that is used.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// =============================================================================
// RECORD BUFFER
// =============================================================================

// recordBuffer accumulates decoded text across reads and hands out complete
// newline-terminated records. A trailing partial record is held until the
// next Feed or until Flush.
type recordBuffer struct {
	pending []byte
}

// Feed appends p and returns every record completed by it, without the
// terminating newline.
func (b *recordBuffer) Feed(p []byte) []string {
	b.pending = append(b.pending, p...)

	var records []string
	start := 0
	for {
		i := bytes.IndexByte(b.pending[start:], '\n')
		if i < 0 {
			break
		}
		records = append(records, string(b.pending[start:start+i]))
		start += i + 1
	}
	b.pending = append(b.pending[:0], b.pending[start:]...)
	return records
}

// Flush returns the held-over partial record and empties the buffer.
func (b *recordBuffer) Flush() string {
	rest := string(b.pending)
	b.pending = b.pending[:0]
	return rest
}

// =============================================================================
// RECORD PARSING
// =============================================================================

// parseRecord extracts the delta text of one record. ok is false for records
// that carry no text: non-data lines, blank lines, the sentinel, and chunks
// without content. err is errMalformedRecord when the JSON payload is invalid.
func parseRecord(record string) (text string, ok bool, err error) {
	record = strings.TrimRight(record, "\r")
	if strings.TrimSpace(record) == "" || !strings.HasPrefix(record, dataPrefix) {
		return "", false, nil
	}

	payload := strings.TrimSpace(record[len(dataPrefix):])
	if payload == doneSentinel {
		return "", false, nil
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false, fmt.Errorf("%w: %w", errMalformedRecord, err)
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
		return "", false, nil
	}
	return chunk.Choices[0].Delta.Content, true, nil
}

// readRecords decodes body as UTF-8, splits it into records and emits each
// delta in order. Decoding holds back multi-byte sequences split across reads
// until they are complete. It stops early when emit returns false.
func (c *Client) readRecords(body io.Reader, emit func(string) bool) error {
	decoded := unicode.UTF8.NewDecoder().Reader(body)
	chunk := make([]byte, readChunkSize)

	var buf recordBuffer
	handle := func(record string) bool {
		text, ok, err := parseRecord(record)
		if err != nil {
			c.logger.Debug("dropping stream record", "error", err)
			return true
		}
		if !ok {
			return true
		}
		return emit(text)
	}

	for {
		n, err := decoded.Read(chunk)
		if n > 0 {
			for _, record := range buf.Feed(chunk[:n]) {
				if !handle(record) {
					return context.Canceled
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
	}

	if rest := strings.TrimSpace(buf.Flush()); rest != "" {
		handle(rest)
	}
	return nil
}

// =============================================================================
// CALLBACK ADAPTER
// =============================================================================

// StreamChat runs a streaming completion and reports each delta through
// onUpdate, in arrival order. A stream failure is reported once through
// onError; cancellation is not reported. The returned error is non-nil only
// when the stream could not be started (ErrBusy, ErrNotConfigured).
func (c *Client) StreamChat(ctx context.Context, messages []ChatMessage, model string, onUpdate func(string), onError func(error)) error {
	deltas, err := c.Stream(ctx, c.NewRequest(model, messages))
	if err != nil {
		return err
	}

	for d := range deltas {
		if d.Err != nil {
			if onError != nil {
				onError(d.Err)
			}
			continue
		}
		if onUpdate != nil {
			onUpdate(d.Text)
		}
	}
	return nil
}
