// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestRecordBufferFeed(t *testing.T) {
	var buf recordBuffer

	if got := buf.Feed([]byte("data: a")); len(got) != 0 {
		t.Fatalf("Feed() = %q, want no records", got)
	}
	got := buf.Feed([]byte("bc\ndata: d\n\ndata: e"))
	want := []string{"data: abc", "data: d", ""}
	if len(got) != len(want) {
		t.Fatalf("Feed() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %q, want %q", i, got[i], want[i])
		}
	}
	if rest := buf.Flush(); rest != "data: e" {
		t.Errorf("Flush() = %q, want %q", rest, "data: e")
	}
	if rest := buf.Flush(); rest != "" {
		t.Errorf("second Flush() = %q, want empty", rest)
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		wantText  string
		wantOK    bool
		wantError bool
	}{
		{"delta", `data: {"choices":[{"delta":{"content":"Hi"}}]}`, "Hi", true, false},
		{"crlf", "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\r", "Hi", true, false},
		{"done", "data: [DONE]", "", false, false},
		{"empty line", "", "", false, false},
		{"comment", ": ping", "", false, false},
		{"event line", "event: message", "", false, false},
		{"no space after colon", `data:{"choices":[{"delta":{"content":"x"}}]}`, "", false, false},
		{"role only", `data: {"choices":[{"delta":{"role":"assistant"}}]}`, "", false, false},
		{"no choices", `data: {"choices":[]}`, "", false, false},
		{"malformed", "data: {oops", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok, err := parseRecord(tt.record)
			if (err != nil) != tt.wantError {
				t.Fatalf("parseRecord() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, errMalformedRecord) {
				t.Errorf("error should wrap errMalformedRecord: %v", err)
			}
			if ok != tt.wantOK || text != tt.wantText {
				t.Errorf("parseRecord() = (%q, %v), want (%q, %v)", text, ok, tt.wantText, tt.wantOK)
			}
		})
	}
}

func TestReadRecordsOneByteAtATime(t *testing.T) {
	body := deltaRecord("한국어 ") + deltaRecord("テスト") + "data: [DONE]\n"

	var got []string
	c := testClient("http://unused")
	err := c.readRecords(iotest.OneByteReader(strings.NewReader(body)), func(s string) bool {
		got = append(got, s)
		return true
	})
	if err != nil {
		t.Fatalf("readRecords() error = %v", err)
	}
	if strings.Join(got, "") != "한국어 テスト" {
		t.Errorf("got %q", got)
	}
}

func TestReadRecordsStopsWhenEmitDeclines(t *testing.T) {
	body := deltaRecord("a") + deltaRecord("b") + deltaRecord("c")

	var got []string
	c := testClient("http://unused")
	err := c.readRecords(strings.NewReader(body), func(s string) bool {
		got = append(got, s)
		return len(got) < 2
	})
	if err == nil {
		t.Fatal("readRecords() should report the early stop")
	}
	if len(got) != 2 {
		t.Errorf("emitted %d deltas, want 2", len(got))
	}
}

func TestReadRecordsReadError(t *testing.T) {
	c := testClient("http://unused")
	err := c.readRecords(iotest.ErrReader(errors.New("boom")), func(string) bool { return true })
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("readRecords() error = %v, want ErrRequestFailed", err)
	}
}
