// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/aurora-tui/internal/model"
)

func sampleConversation() model.Conversation {
	return model.Conversation{
		ID:        "c1",
		Title:     "Go channels",
		Model:     model.DefaultModelID,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Messages: []model.Message{
			model.NewUserMessage("How do channels work?"),
			model.NewAssistantMessage("They pass values.\n\n```go\nch <- 1\n```"),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestForFormatExtensions(t *testing.T) {
	tests := map[string]string{"md": ".md", "json": ".json", "yaml": ".yaml"}
	for name, ext := range tests {
		e, err := ForFormat(name, nil)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", name, err)
		}
		if e.FileExtension() != ext {
			t.Errorf("ForFormat(%q).FileExtension() = %q, want %q", name, e.FileExtension(), ext)
		}
		if e.MimeType() == "" {
			t.Errorf("ForFormat(%q) has empty MIME type", name)
		}
	}
}

func TestEmptyConversationRejected(t *testing.T) {
	empty := model.NewConversation("", model.DefaultModelID)
	for _, f := range Formats() {
		e, _ := ForFormat(string(f), nil)
		if _, err := e.Export(empty); !errors.Is(err, ErrEmptyConversation) {
			t.Errorf("%s: Export(empty) error = %v", f, err)
		}
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		"---\ntitle: Go channels\n",
		"generator: aurora",
		"# Go channels",
		"### You\n\nHow do channels work?",
		"### Aurora\n\nThey pass values.",
		"```go\nch <- 1\n```",
		"Llama 3.3 70B",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("markdown missing %q\n%s", want, s)
		}
	}
}

func TestMarkdownWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(out), "---") {
		t.Error("front matter should be omitted")
	}
	if strings.Contains(string(out), "Session Information") {
		t.Error("session section should be omitted")
	}
}

// A title with a newline must not inject extra front matter keys.
func TestMarkdownFrontMatterInjection(t *testing.T) {
	conv := sampleConversation()
	conv.Title = "Test\nInjection: malicious"

	out, err := NewMarkdownExporter(nil).Export(conv)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.SplitN(string(out), "---\n", 3)
	if len(parts) < 3 {
		t.Fatalf("no front matter block: %s", out)
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		t.Fatalf("front matter is not valid YAML: %v", err)
	}
	if _, ok := fm["Injection"]; ok {
		t.Error("newline in title injected a YAML key")
	}
	if fm["title"] != conv.Title {
		t.Errorf("title = %q, want %q", fm["title"], conv.Title)
	}
}

func TestFormatRoleLabel(t *testing.T) {
	tests := map[model.Role]string{
		model.RoleUser:      "You",
		model.RoleAssistant: "Aurora",
		"system":            "System",
		"":                  "Unknown",
	}
	for role, want := range tests {
		if got := formatRoleLabel(role); got != want {
			t.Errorf("formatRoleLabel(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestJSONExport(t *testing.T) {
	conv := sampleConversation()
	out, err := NewJSONExporter(nil).Export(conv)
	if err != nil {
		t.Fatal(err)
	}

	var doc document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.ID != conv.ID || doc.Generator != Generator || len(doc.Messages) != 2 {
		t.Errorf("unexpected document: %+v", doc)
	}
	if !strings.Contains(string(out), `"createdAt"`) {
		t.Errorf("JSON should use camelCase keys: %s", out)
	}
}

func TestYAMLExport(t *testing.T) {
	conv := sampleConversation()
	out, err := NewYAMLExporter(nil).Export(conv)
	if err != nil {
		t.Fatal(err)
	}

	var doc document
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc.Title != conv.Title || doc.ModelName != "Llama 3.3 70B" {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.Messages[1].Content != conv.Messages[1].Content {
		t.Errorf("multi-line content changed: %q", doc.Messages[1].Content)
	}
	if !strings.Contains(string(out), "content: |") {
		t.Errorf("multi-line content should be a literal block:\n%s", out)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello_world"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "conversation"},
		{"Long title that was abbreviate...", "Long_title_that_was_abbreviate"},
		{"bell\x07", "bell-"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := Filename(sampleConversation(), NewYAMLExporter(nil), at)
	if got != "conversation_Go_channels_20250102_030405.yaml" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(sampleConversation(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if filepath.Dir(path) != dir || filepath.Ext(path) != ".md" {
		t.Errorf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Go channels") {
		t.Errorf("file content = %s", data)
	}
}
