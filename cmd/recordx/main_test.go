package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/recordx/core/client"
	"github.com/leofalp/recordx/core/parse"
	"github.com/leofalp/recordx/internal/config"
	"github.com/leofalp/recordx/providers/ai"
)

// scriptedProvider replies with the given texts in order and records every
// request it receives.
type scriptedProvider struct {
	mu       sync.Mutex
	replies  []string
	requests []ai.ChatRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	index := len(p.requests)
	p.requests = append(p.requests, request)
	if index >= len(p.replies) {
		return nil, errors.New("no scripted reply left")
	}
	return &ai.ChatResponse{Content: p.replies[index], FinishReason: "stop"}, nil
}

// stallingProvider blocks its first request until the context ends, then
// answers every later one with reply.
type stallingProvider struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (p *stallingProvider) Name() string { return "stalling" }

func (p *stallingProvider) SendMessage(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()

	if first {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &ai.ChatResponse{Content: p.reply, FinishReason: "stop"}, nil
}

func testApp(provider ai.Provider) *app {
	return &app{
		newProvider: func(config.Settings) (ai.Provider, error) { return provider, nil },
		newLogger: func(io.Writer) *slog.Logger {
			return slog.New(slog.NewTextHandler(io.Discard, nil))
		},
	}
}

// isolateEnv clears the variables config.Load reads so the host environment
// cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECORDX_PROVIDER", "RECORDX_MODEL", "OLLAMA_MODEL", "OLLAMA_HOST",
		"OPENAI_API_KEY", "OPENAI_API_BASE_URL", "RECORDX_TIMEOUT", "RECORDX_ATTEMPT_TIMEOUT",
		"RECORDX_TEMPERATURE", "RECORDX_RETRY_TEMPERATURE", "RECORDX_TRANSPORT_RETRIES",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}

func execute(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

// ========== run ==========

func TestRun_WritesDocument(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RECORDX_MODEL", "test-model")

	provider := &scriptedProvider{replies: []string{
		"```json\n{\"analysis\":[\"a1\"],\"plan\":[{\"step\":1}],\"output\":\"pip install ollamapy\",}\n```",
	}}
	outPath := filepath.Join(t.TempDir(), "README.md")

	stdout, err := execute(t, testApp(provider), "",
		"run", "--env-file", filepath.Join(t.TempDir(), "none.env"),
		"--goal", "G", "--deliverable", "D", "--out", outPath,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := readmeHeader + "pip install ollama\n" + readmeFooter; string(written) != want {
		t.Errorf("README mismatch:\n%s", written)
	}

	for _, want := range []string{"=== ANALYSIS ===", `"a1"`, "=== PLAN ===", `"step": 1`, "=== OUTPUT ===", "(Wrote " + outPath + ")"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in stdout:\n%s", want, stdout)
		}
	}

	if len(provider.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(provider.requests))
	}
	request := provider.requests[0]
	if request.Model != "test-model" || request.SystemPrompt != systemPrompt {
		t.Errorf("unexpected request model %q / system prompt", request.Model)
	}
	if content := request.Messages[0].Content; !strings.Contains(content, "Goal:\nG\n") || !strings.Contains(content, "Deliverable:\nD\n") {
		t.Errorf("unexpected user prompt %q", content)
	}
}

func TestRun_RetriesWithStrictInstruction(t *testing.T) {
	isolateEnv(t)

	provider := &scriptedProvider{replies: []string{
		"Sure! Here is what I would do.",
		`{"analysis":[],"plan":[],"output":"UNKNOWN"}`,
	}}

	stdout, err := execute(t, testApp(provider), "", "run", "--no-write", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(provider.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(provider.requests))
	}
	retryPrompt := provider.requests[1].Messages[0].Content
	if !strings.HasSuffix(retryPrompt, "\n\n"+client.DefaultRetryInstruction) {
		t.Errorf("retry prompt lacks strict instruction: %q", retryPrompt)
	}
	if got := provider.requests[1].Temperature(); got == nil || *got != 0 {
		t.Errorf("retry temperature = %v, want 0", got)
	}

	if !strings.Contains(stdout, "=== OUTPUT ===\n"+readmeHeader+readmeFooter) {
		t.Errorf("UNKNOWN output should render header and footer only:\n%s", stdout)
	}
	if strings.Contains(stdout, "(Wrote") {
		t.Errorf("--no-write must not write:\n%s", stdout)
	}
}

func TestRun_Exhausted(t *testing.T) {
	isolateEnv(t)

	provider := &scriptedProvider{replies: []string{"no json here", "still none"}}

	_, err := execute(t, testApp(provider), "", "run", "--no-write", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	if !errors.Is(err, client.ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
}

func TestRun_AttemptTimeoutRetriesStalledCall(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RECORDX_ATTEMPT_TIMEOUT", "20ms")
	t.Setenv("RECORDX_TRANSPORT_RETRIES", "1")

	provider := &stallingProvider{reply: `{"analysis":["a"],"plan":[],"output":"UNKNOWN"}`}

	stdout, err := execute(t, testApp(provider), "", "run", "--no-write", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.calls)
	}
	if !strings.Contains(stdout, `"a"`) {
		t.Errorf("expected analysis in stdout:\n%s", stdout)
	}
}

func TestRun_AttemptTimeoutWithoutRetries(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RECORDX_ATTEMPT_TIMEOUT", "20ms")

	provider := &stallingProvider{}

	_, err := execute(t, testApp(provider), "", "run", "--no-write", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	if !errors.Is(err, client.ErrTransport) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected transport deadline error, got %v", err)
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RECORDX_TIMEOUT", "forever")

	_, err := execute(t, testApp(&scriptedProvider{}), "", "run", "--no-write", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	if !errors.Is(err, config.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

// ========== parse ==========

func TestParse_Formats(t *testing.T) {
	input := "Here you go:\n{\"Analysis\": \"only one\", \"plan\": [\"p1\", \"p2\"], \"result\": \"done\"}\nThanks!"

	tests := []struct {
		format string
		want   []string
	}{
		{format: "json", want: []string{"\"analysis\": [\n    \"only one\"\n  ]", "\"output\": \"done\""}},
		{format: "yaml", want: []string{"analysis:\n    - only one", "- p2", "output: done"}},
		{format: "text", want: []string{"=== ANALYSIS ===", "=== PLAN ===", "=== OUTPUT ===\ndone\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stdout, err := execute(t, testApp(nil), input, "parse", "--format", tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("expected %q in:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	content := "=== ANALYSIS ===\n- first\n- second\n=== OUTPUT ===\nhello\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, err := execute(t, testApp(nil), "", "parse", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var record parse.Record
	if err := record.UnmarshalJSON([]byte(stdout)); err != nil {
		t.Fatalf("stdout is not a record: %v\n%s", err, stdout)
	}
	if record.Output != "hello" || len(record.Analysis) != 2 || len(record.Plan) != 0 {
		t.Errorf("unexpected record %+v", record)
	}
}

func TestParse_DeepRepair(t *testing.T) {
	input := `{analysis: ['a'], plan: ['p'], output: 'done'}`

	if _, err := execute(t, testApp(nil), input, "parse"); !errors.Is(err, parse.ErrNoRecognizedStructure) {
		t.Fatalf("expected failure without deep repair, got %v", err)
	}

	stdout, err := execute(t, testApp(nil), input, "parse", "--deep-repair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, `"output": "done"`) {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := execute(t, testApp(nil), "{}", "parse", "--format", "xml"); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}

	if _, err := execute(t, testApp(nil), "", "parse", filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing file error, got %v", err)
	}

	_, err := execute(t, testApp(nil), "just prose\nwith lines", "parse")
	if !errors.Is(err, parse.ErrNoRecognizedStructure) {
		t.Fatalf("expected ErrNoRecognizedStructure, got %v", err)
	}
	if !strings.Contains(err.Error(), `just prose\nwith lines`) {
		t.Errorf("expected preview in error, got %v", err)
	}
}
