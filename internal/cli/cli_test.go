// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/storage"
)

// =============================================================================
// HELPERS
// =============================================================================

func deltaRecord(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"delta": map[string]string{"content": content}}},
	})
	return "data: " + string(b) + "\n\n"
}

// groqServer streams "Hello" and " world" for every request.
func groqServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, deltaRecord("Hello"))
		fmt.Fprint(w, deltaRecord(" world"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(server.Close)
	return server
}

// setupHome points aurora at a fresh home directory and returns it.
func setupHome(t *testing.T, apiURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("AURORA_HOME", home)
	t.Setenv("AURORA_DATA_DIR", filepath.Join(home, "data"))
	t.Setenv("AURORA_STORAGE", "file")
	t.Setenv("LANG", "en_US.UTF-8")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("GROQ_API_KEY", "gsk_test_0123456789")
	if apiURL != "" {
		t.Setenv("AURORA_API_URL", apiURL)
	}
	return home
}

// unsetEnv removes name for the duration of the test.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	os.Unsetenv(name)
}

// run executes the command tree with args and stdin.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// storedChats reads the conversations from the home's file store.
func storedChats(t *testing.T, home string) []model.Conversation {
	t.Helper()
	kv, err := storage.Open(storage.BackendFile, filepath.Join(home, "data"))
	require.NoError(t, err)
	repo := storage.NewRepository(kv)
	defer repo.Close()
	chats, err := repo.LoadChats()
	require.NoError(t, err)
	return chats
}

// fakeStreamer replays deltas. With block set it holds the stream open after
// the deltas until the context ends.
type fakeStreamer struct {
	deltas []string
	err    error
	block  bool
}

func (f *fakeStreamer) NewRequest(m string, msgs []groq.ChatMessage) groq.ChatRequest {
	return groq.ChatRequest{Model: m, Messages: msgs}
}

func (f *fakeStreamer) Stream(ctx context.Context, _ groq.ChatRequest) (<-chan groq.Delta, error) {
	ch := make(chan groq.Delta)
	go func() {
		defer close(ch)
		for _, d := range f.deltas {
			select {
			case ch <- groq.Delta{Text: d}:
			case <-ctx.Done():
				return
			}
		}
		if f.err != nil {
			ch <- groq.Delta{Err: f.err}
			return
		}
		if f.block {
			<-ctx.Done()
		}
	}()
	return ch, nil
}

func newTestHolder() *session.Holder {
	settings := model.DefaultSettings()
	settings.Language = model.LanguageEnglish
	return session.NewHolder(storage.NewRepository(storage.NewMemoryKV()), session.Config{Settings: settings})
}

// =============================================================================
// UNIT TESTS
// =============================================================================

func TestResolveModel(t *testing.T) {
	tests := []struct {
		flag, fallback, want string
	}{
		{"", model.DefaultModelID, model.DefaultModelID},
		{"gemma2-9b-it", model.DefaultModelID, "gemma2-9b-it"},
		{"mixtral 8x7b", model.DefaultModelID, "mixtral-8x7b-32768"},
		{"  Qwen 2.5 32B ", model.DefaultModelID, "qwen-2.5-32b"},
		{"custom-model", model.DefaultModelID, "custom-model"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := resolveModel(tt.flag, tt.fallback); got != tt.want {
				t.Errorf("resolveModel(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestReadPrompt(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr bool
	}{
		{name: "args", args: []string{"what", "is", "go"}, want: "what is go"},
		{name: "stdin only", stdin: "  piped text\n", want: "piped text"},
		{name: "args and stdin", args: []string{"explain"}, stdin: "code", want: "explain\n\ncode"},
		{name: "empty", stdin: "  \n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPrompt(strings.NewReader(tt.stdin), tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"cancelled", errCancelled, ExitInterrupted},
		{"validation", fmt.Errorf("invalid config: %w", &config.ValidationError{Field: "storage"}), ExitConfigError},
		{"not configured", groq.ErrNotConfigured, ExitAuthError},
		{"auth", &localizedError{text: "bad key", err: groq.ErrAuthFailed}, ExitAuthError},
		{"request", fmt.Errorf("%w: dial", groq.ErrRequestFailed), ExitNetworkError},
		{"not found", fmt.Errorf("%w: abc", storage.ErrConversationNotFound), ExitNotFoundError},
		{"tty", &TTYRequiredError{Operation: "x"}, ExitUsageError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestLocalize(t *testing.T) {
	err := localize(groq.ErrNotConfigured, model.LanguageEnglish)
	assert.ErrorIs(t, err, groq.ErrNotConfigured)
	assert.Contains(t, err.Error(), "set-key")

	err = localize(fmt.Errorf("%w: timeout", groq.ErrRequestFailed), model.LanguageKorean)
	assert.ErrorIs(t, err, groq.ErrRequestFailed)
	assert.Contains(t, err.Error(), "오류")

	plain := errors.New("plain")
	assert.Same(t, plain, localize(plain, model.LanguageEnglish))
}

func TestConfirmWithYes(t *testing.T) {
	ok, err := confirm("Delete?", true)
	require.NoError(t, err)
	assert.True(t, ok)
}

// =============================================================================
// STREAMING
// =============================================================================

func TestStreamAnswer(t *testing.T) {
	h := newTestHolder()
	var out bytes.Buffer

	answer, err := streamAnswer(context.Background(), h, &fakeStreamer{deltas: []string{"a", "b", "c"}}, "hi", &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", answer)
	assert.Equal(t, "abc", out.String())

	conv, ok := h.Snapshot().Current()
	require.True(t, ok)
	last, _ := conv.LastAssistantContent()
	assert.Equal(t, "abc", last)
	assert.Equal(t, session.PhaseIdle, h.Phase())
}

func TestStreamAnswerFailure(t *testing.T) {
	h := newTestHolder()
	_, err := streamAnswer(context.Background(), h, &fakeStreamer{deltas: []string{"part"}, err: groq.ErrRateLimited}, "hi", io.Discard)
	assert.ErrorIs(t, err, groq.ErrRateLimited)

	conv, _ := h.Snapshot().Current()
	last, _ := conv.LastAssistantContent()
	assert.Contains(t, last, "Too many requests")
	assert.Equal(t, session.OutcomeError, h.Snapshot().Outcome)
}

// cancelOnWrite cancels the holder's submission on the first write.
type cancelOnWrite struct {
	h   *session.Holder
	buf bytes.Buffer
}

func (c *cancelOnWrite) Write(p []byte) (int, error) {
	c.h.Cancel()
	return c.buf.Write(p)
}

func TestStreamAnswerCancelKeepsPartial(t *testing.T) {
	h := newTestHolder()
	w := &cancelOnWrite{h: h}

	answer, err := streamAnswer(context.Background(), h, &fakeStreamer{deltas: []string{"partial"}, block: true}, "hi", w)
	assert.ErrorIs(t, err, errCancelled)
	assert.Equal(t, "partial", answer)

	conv, _ := h.Snapshot().Current()
	last, _ := conv.LastAssistantContent()
	assert.Equal(t, "partial", last)
	assert.Equal(t, session.PhaseIdle, h.Phase())
}

// =============================================================================
// REPL
// =============================================================================

// scriptReader feeds fixed lines, then reports EOF.
type scriptReader struct {
	lines []string
}

func (s *scriptReader) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestREPLConversation(t *testing.T) {
	h := newTestHolder()
	var out bytes.Buffer
	repl := &replSession{holder: h, streamer: &fakeStreamer{deltas: []string{"Hi", " there"}}, out: &out}

	err := repl.Run(context.Background(), &scriptReader{lines: []string{
		"",
		"hello",
		"/model Gemma 2",
		"/chats",
		"/bogus",
		"/new",
		"exit",
		"never read",
	}})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Aurora AI")
	assert.Contains(t, text, "Hi there")
	assert.Contains(t, text, "Model set to Gemma 2")
	assert.Contains(t, text, "* ")
	assert.Contains(t, text, "unknown command /bogus")
	assert.Equal(t, "gemma2-9b-it", h.Model())

	snap := h.Snapshot()
	require.Len(t, snap.Chats, 2)
	assert.Equal(t, "hello", snap.Chats[1].Title)
	assert.Equal(t, snap.Chats[0].ID, snap.CurrentID)
}

func TestREPLEndsOnAbortAndSlashExit(t *testing.T) {
	aborted := &scriptReader{}
	abortReader := lineReaderFunc(func(string) (string, error) { return "", liner.ErrPromptAborted })

	for _, in := range []lineReader{aborted, abortReader, &scriptReader{lines: []string{"/exit", "hello"}}} {
		h := newTestHolder()
		repl := &replSession{holder: h, streamer: &fakeStreamer{}, out: io.Discard}
		require.NoError(t, repl.Run(context.Background(), in))
		assert.Empty(t, h.Snapshot().Chats)
	}
}

type lineReaderFunc func(string) (string, error)

func (f lineReaderFunc) Prompt(p string) (string, error) { return f(p) }

func TestREPLOpenSwitchesChat(t *testing.T) {
	h := newTestHolder()
	var out bytes.Buffer
	repl := &replSession{holder: h, streamer: &fakeStreamer{deltas: []string{"answer"}}, out: &out}

	require.NoError(t, repl.Run(context.Background(), &scriptReader{lines: []string{"first question"}}))
	first := h.Snapshot().Chats[0].ID
	h.NewChat()
	require.NotEqual(t, first, h.Snapshot().CurrentID)

	out.Reset()
	require.NoError(t, repl.Run(context.Background(), &scriptReader{lines: []string{"/open " + first[:6], "/open", "/open zzz"}}))
	assert.Equal(t, first, h.Snapshot().CurrentID)
	assert.Contains(t, out.String(), "first question")
	assert.Contains(t, out.String(), "usage: /open")
	assert.Contains(t, out.String(), "not found")
}

// =============================================================================
// COMMAND TESTS
// =============================================================================

func TestAskStreamsWithoutSaving(t *testing.T) {
	home := setupHome(t, groqServer(t).URL)

	out, err := run(t, "", "ask", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n", out)
	assert.Empty(t, storedChats(t, home))
}

func TestAskSaveThenManageChats(t *testing.T) {
	home := setupHome(t, groqServer(t).URL)

	_, err := run(t, "", "ask", "--save", "hello")
	require.NoError(t, err)

	chats := storedChats(t, home)
	require.Len(t, chats, 1)
	id := chats[0].ID
	assert.Equal(t, "hello", chats[0].Title)
	assert.Equal(t, model.DefaultModelID, chats[0].Model)

	// Continue the same conversation.
	_, err = run(t, "", "ask", "--chat", id[:8], "again")
	require.NoError(t, err)
	chats = storedChats(t, home)
	require.Len(t, chats, 1)
	assert.Len(t, chats[0].Messages, 4)

	out, err := run(t, "", "chats", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "4 msgs")

	out, err = run(t, "", "chats", "show", "--raw", id)
	require.NoError(t, err)
	assert.Contains(t, out, "You\nhello")
	assert.Contains(t, out, "Aurora\nHello world")

	dir := t.TempDir()
	out, err = run(t, "", "chats", "export", id, "--format", "json", "--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")
	files, err := filepath.Glob(filepath.Join(dir, "conversation_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	out, err = run(t, "", "chats", "export", id, "--format", "yaml", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "content: Hello world")

	_, err = run(t, "", "chats", "export", id, "--format", "pdf")
	assert.Error(t, err)

	out, err = run(t, "", "chats", "delete", "--yes", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id[:8])
	assert.Empty(t, storedChats(t, home))

	_, err = run(t, "", "chats", "show", id)
	assert.ErrorIs(t, err, storage.ErrConversationNotFound)
}

func TestChatsClear(t *testing.T) {
	home := setupHome(t, groqServer(t).URL)

	for _, q := range []string{"one", "two"} {
		_, err := run(t, "", "ask", "-s", q)
		require.NoError(t, err)
	}
	require.Len(t, storedChats(t, home), 2)

	out, err := run(t, "", "chats", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 conversations")
	assert.Empty(t, storedChats(t, home))

	out, err = run(t, "", "chats", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No conversations stored.")
}

func TestAskNotConfigured(t *testing.T) {
	setupHome(t, groqServer(t).URL)
	unsetEnv(t, "GROQ_API_KEY")

	_, err := run(t, "", "ask", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, groq.ErrNotConfigured)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Contains(t, err.Error(), "API key is not configured")
}

func TestAskAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Invalid API Key"}}`)
	}))
	t.Cleanup(server.Close)
	setupHome(t, server.URL)

	_, err := run(t, "", "ask", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, groq.ErrAuthFailed)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Contains(t, err.Error(), "Invalid API key.")
}

func TestModelsCommand(t *testing.T) {
	setupHome(t, "")

	out, err := run(t, "", "models", "--model", "gemma2-9b-it")
	require.NoError(t, err)
	for _, m := range model.Catalog {
		assert.Contains(t, out, m.ID)
	}
	assert.Contains(t, out, "* gemma2-9b-it")
	assert.Contains(t, out, "[Recommended]")

	out, err = run(t, "", "models", "--lang", "ko")
	require.NoError(t, err)
	assert.Contains(t, out, "다목적 대형 언어 모델")
}

func TestConfigCommands(t *testing.T) {
	home := setupHome(t, "")
	unsetEnv(t, "GROQ_API_KEY")

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml")+"\n", out)

	_, err = run(t, "", "config", "set", "temperature", "0.3")
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err = run(t, "", "config", "get", "temperature")
	require.NoError(t, err)
	assert.Equal(t, "0.3\n", out)

	_, err = run(t, "", "config", "set", "temperature", "5")
	assert.Error(t, err)
	_, err = run(t, "", "config", "set", "no_such_key", "1")
	assert.Error(t, err)
	_, err = run(t, "", "config", "set", "api_key", "gsk_visible")
	assert.Error(t, err)

	_, err = run(t, "gsk_secret_abcdefgh\n", "config", "set-key")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "gsk_secret_abcdefgh")
	assert.Contains(t, string(data), "temperature = 0.3")
	assert.NotContains(t, string(data), "data_dir = \""+filepath.Join(home, "data"))

	out, err = run(t, "", "config", "get", "api_key")
	require.NoError(t, err)
	assert.Equal(t, "gsk_***********efgh\n", out)

	out, err = run(t, "", "config", "get", "--reveal", "api_key")
	require.NoError(t, err)
	assert.Equal(t, "gsk_secret_abcdefgh\n", out)

	out, err = run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "gsk_***********efgh")
	assert.NotContains(t, out, "gsk_secret_abcdefgh")

	_, err = run(t, "\n", "config", "set-key")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "aurora "+Version)
	assert.Contains(t, out, "Commit")
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, "", "bogus")
	assert.Error(t, err)
}

// =============================================================================
// SETUP
// =============================================================================

func TestSetupCheckOnly(t *testing.T) {
	home := setupHome(t, groqServer(t).URL)

	out, err := run(t, "", "setup", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Data Directory: "+filepath.Join(home, "data"))
	assert.Contains(t, out, "[OK] API Key: gsk_")
	assert.Contains(t, out, "[OK] Network Access: reached 127.0.0.1")
}

func TestCheckResults(t *testing.T) {
	assert.Equal(t, "fail", checkNetwork("::bad").Status)
	assert.Equal(t, "warn", checkNetwork("http://127.0.0.1:1").Status)

	cfg := config.Default()
	assert.Equal(t, "warn", checkAPIKey(cfg).Status)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	assert.Equal(t, "fail", checkDataDir(filepath.Join(file, "sub")).Status)
}

func TestApplySetup(t *testing.T) {
	home := setupHome(t, "")
	unsetEnv(t, "GROQ_API_KEY")
	unsetEnv(t, "AURORA_STORAGE")

	cfg, path, err := loadFileConfig()
	require.NoError(t, err)
	require.NoError(t, applySetup(cfg, path, setupAnswers{
		APIKey:   "gsk_from_wizard_1234",
		Model:    "gemma2-9b-it",
		Storage:  storage.BackendSQLite,
		Language: string(model.LanguageEnglish),
	}))

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "gsk_from_wizard_1234", loaded.APIKey)
	assert.Equal(t, "gemma2-9b-it", loaded.DefaultModel)
	assert.Equal(t, storage.BackendSQLite, loaded.Storage)

	kv, err := storage.Open(storage.BackendSQLite, filepath.Join(home, "data"))
	require.NoError(t, err)
	repo := storage.NewRepository(kv)
	defer repo.Close()
	settings, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, model.LanguageEnglish, settings.Language)

	// Empty answers keep what is there.
	cfg, path, err = loadFileConfig()
	require.NoError(t, err)
	require.NoError(t, applySetup(cfg, path, setupAnswers{}))
	loaded, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, "gsk_from_wizard_1234", loaded.APIKey)
}
