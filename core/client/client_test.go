package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/leofalp/recordx/core/parse"
)

const validReply = `{"analysis":["a"],"plan":["p"],"output":"o"}`

// call records one generator invocation.
type call struct {
	system      string
	user        string
	model       string
	temperature float64
	hasDeadline bool
}

// scriptedGenerator replies with the given texts in order and records calls.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []call
}

func (g *scriptedGenerator) complete(ctx context.Context, systemPrompt, userPrompt string, sampling Sampling) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, hasDeadline := ctx.Deadline()
	index := len(g.calls)
	g.calls = append(g.calls, call{
		system:      systemPrompt,
		user:        userPrompt,
		model:       sampling.Model,
		temperature: sampling.Temperature,
		hasDeadline: hasDeadline,
	})

	if index < len(g.errs) && g.errs[index] != nil {
		return "", g.errs[index]
	}
	if index < len(g.replies) {
		return g.replies[index], nil
	}
	return "", errors.New("unexpected extra call")
}

func wantRecord() parse.Record {
	return parse.Record{
		Analysis: []parse.Item{parse.NewText("a")},
		Plan:     []parse.Item{parse.NewText("p")},
		Output:   "o",
	}
}

func TestExtract_SuccessOnFirstAttempt(t *testing.T) {
	generator := &scriptedGenerator{replies: []string{validReply}}
	c, err := New(generator.complete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := c.Extract(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(wantRecord(), record); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	if len(generator.calls) != 1 {
		t.Fatalf("expected 1 generator call, got %d", len(generator.calls))
	}
	first := generator.calls[0]
	if first.model != DefaultModel || first.temperature != 0.2 || first.user != "user" || first.system != "system" {
		t.Errorf("unexpected first call: %+v", first)
	}
	if !first.hasDeadline {
		t.Error("expected the generator call to carry a deadline")
	}
}

func TestExtract_RetriesWithStricterPrompt(t *testing.T) {
	tests := []struct {
		name  string
		first string
	}{
		{name: "prose", first: "Sure, here is your README!"},
		{name: "truncated object", first: `{"analysis": ["a", "b"], "plan": ["st`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &scriptedGenerator{replies: []string{tt.first, validReply}}
			c, err := New(generator.complete)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			record, err := c.Extract(context.Background(), "system", "user")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(wantRecord(), record); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}

			if len(generator.calls) != 2 {
				t.Fatalf("expected 2 generator calls, got %d", len(generator.calls))
			}
			second := generator.calls[1]
			if second.system != "system" {
				t.Errorf("expected system prompt to be kept, got %q", second.system)
			}
			if want := "user\n\n" + DefaultRetryInstruction; second.user != want {
				t.Errorf("expected retry prompt %q, got %q", want, second.user)
			}
			if second.temperature != 0 {
				t.Errorf("expected retry temperature 0, got %v", second.temperature)
			}
		})
	}
}

func TestExtract_RetryExhausted(t *testing.T) {
	second := strings.Repeat("no json here\n", 200)
	generator := &scriptedGenerator{replies: []string{"first prose", second}}

	_, err := ExtractWithRetry(context.Background(), "system", "user", generator.complete)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, parse.ErrNoRecognizedStructure) {
		t.Errorf("expected parse.ErrNoRecognizedStructure, got %v", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Errorf("parse failure must not be reported as transport failure: %v", err)
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}
	if exhausted.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", exhausted.Attempts)
	}
	if strings.Contains(exhausted.Preview, "\n") {
		t.Error("expected newlines in preview to be escaped")
	}
	if !strings.HasPrefix(exhausted.Preview, `no json here\nno json here\n`) {
		t.Errorf("expected preview of the last reply, got %q", exhausted.Preview[:40])
	}
	unescaped := strings.ReplaceAll(exhausted.Preview, `\n`, "\n")
	if count := utf8.RuneCountInString(unescaped); count != previewRunes {
		t.Errorf("expected preview of %d characters, got %d", previewRunes, count)
	}
	if len(generator.calls) != 2 {
		t.Errorf("expected exactly 2 generator calls, got %d", len(generator.calls))
	}
}

func TestExhaustedError_MessageForShortReply(t *testing.T) {
	err := &ExhaustedError{Attempts: 2, Preview: "tiny", Err: parse.ErrNoRecognizedStructure}

	msg := err.Error()
	if !strings.HasSuffix(msg, "last reply preview: tiny") {
		t.Errorf("unexpected message %q", msg)
	}
	if strings.Contains(msg, "1000") {
		t.Errorf("message should not claim a fixed length: %q", msg)
	}
}

func TestExtract_TransportFailureIsNotRetried(t *testing.T) {
	connectionRefused := errors.New("dial tcp 127.0.0.1:11434: connection refused")

	tests := []struct {
		name      string
		generator *scriptedGenerator
		wantCalls int
		wantErr   error
	}{
		{
			name:      "first call fails",
			generator: &scriptedGenerator{errs: []error{connectionRefused}},
			wantCalls: 1,
			wantErr:   connectionRefused,
		},
		{
			name:      "retry call fails",
			generator: &scriptedGenerator{replies: []string{"prose"}, errs: []error{nil, connectionRefused}},
			wantCalls: 2,
			wantErr:   connectionRefused,
		},
		{
			name:      "empty reply",
			generator: &scriptedGenerator{replies: []string{""}},
			wantCalls: 1,
			wantErr:   ErrEmptyReply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractWithRetry(context.Background(), "system", "user", tt.generator.complete)
			if !errors.Is(err, ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain, got %v", tt.wantErr, err)
			}
			if errors.Is(err, ErrRetryExhausted) {
				t.Errorf("transport failure must not be reported as exhausted: %v", err)
			}
			if len(tt.generator.calls) != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, len(tt.generator.calls))
			}
		})
	}
}

func TestExtract_PerCallTimeout(t *testing.T) {
	blocking := func(ctx context.Context, systemPrompt, userPrompt string, sampling Sampling) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	config := DefaultConfig()
	config.Timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := ExtractWithRetry(context.Background(), "s", "u", blocking, WithConfig(config))
	if !errors.Is(err, ErrTransport) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected transport failure wrapping DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestExtract_NoTimeoutWhenDisabled(t *testing.T) {
	generator := &scriptedGenerator{replies: []string{validReply}}
	config := DefaultConfig()
	config.Timeout = 0

	if _, err := ExtractWithRetry(context.Background(), "s", "u", generator.complete, WithConfig(config)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generator.calls[0].hasDeadline {
		t.Error("expected no deadline when timeout is disabled")
	}
}

func TestExtract_CustomConfigAndExtractor(t *testing.T) {
	generator := &scriptedGenerator{replies: []string{`{analysis: ['a'], plan: ['p'], output: 'o'}`}}
	config := Config{
		Model:              "llama3:8b",
		TemperatureInitial: 0.7,
		TemperatureRetry:   0.1,
		Timeout:            time.Minute,
		RetryInstruction:   "JSON!",
	}

	c, err := New(generator.complete,
		WithConfig(config),
		WithExtractor(parse.NewExtractor(parse.WithRepairer(parse.JSONRepairer))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := c.Extract(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(wantRecord(), record); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if got := generator.calls[0]; got.model != "llama3:8b" || got.temperature != 0.7 {
		t.Errorf("config not applied to first call: %+v", got)
	}
	if c.Config().RetryInstruction != "JSON!" {
		t.Errorf("expected custom retry instruction, got %q", c.Config().RetryInstruction)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil generator")
	}

	generator := &scriptedGenerator{}
	invalid := []Config{
		{Model: "", TemperatureInitial: 0.2},
		{Model: "m", TemperatureInitial: -1},
		{Model: "m", TemperatureRetry: 3},
	}
	for _, config := range invalid {
		if _, err := New(generator.complete, WithConfig(config)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for %+v, got %v", config, err)
		}
	}
}

func TestConfig_RetryPrompt(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		user        string
		want        string
	}{
		{name: "appended after blank line", instruction: "strict", user: "goal", want: "goal\n\nstrict"},
		{name: "empty user prompt", instruction: "strict", user: "", want: "strict"},
		{name: "no instruction", instruction: "", user: "goal", want: "goal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{RetryInstruction: tt.instruction}
			if got := config.retryPrompt(tt.user); got != tt.want {
				t.Errorf("retryPrompt(%q) = %q, want %q", tt.user, got, tt.want)
			}
		})
	}
}

func TestClient_ConcurrentExtract(t *testing.T) {
	complete := func(ctx context.Context, systemPrompt, userPrompt string, sampling Sampling) (string, error) {
		if strings.HasSuffix(userPrompt, DefaultRetryInstruction) {
			return validReply, nil
		}
		return "prose", nil
	}

	c, err := New(complete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Extract(context.Background(), "s", "u"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
}
