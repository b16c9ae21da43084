package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mako10k/shellassist/internal/openai"
)

func TestFallbackSuggest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		provider Provider
		want     string
	}{
		{
			name:     "success",
			query:    "list files sorted by size",
			provider: ProviderFunc(func(ctx context.Context, q string) (string, error) { return "  ls -S\n", nil }),
			want:     "ls -S",
		},
		{
			name:  "blank query",
			query: "   ",
			provider: ProviderFunc(func(ctx context.Context, q string) (string, error) {
				t.Error("provider must not be called for a blank query")
				return "", nil
			}),
			want: EmptyQueryMessage,
		},
		{
			name:     "provider error",
			query:    "frobnicate",
			provider: ProviderFunc(func(ctx context.Context, q string) (string, error) { return "", errors.New("boom") }),
			want:     `Sorry, I could not generate a command for: "frobnicate"`,
		},
		{
			name:     "apology keeps query as typed",
			query:    "  frobnicate  the  disk",
			provider: ProviderFunc(func(ctx context.Context, q string) (string, error) { return "", errors.New("boom") }),
			want:     `Sorry, I could not generate a command for: "  frobnicate  the  disk"`,
		},
		{
			name:     "empty answer",
			query:    "frobnicate",
			provider: ProviderFunc(func(ctx context.Context, q string) (string, error) { return " ", nil }),
			want:     Apology("frobnicate"),
		},
		{
			name:     "panicking provider",
			query:    "frobnicate",
			provider: ProviderFunc(func(ctx context.Context, q string) (string, error) { panic("bad") }),
			want:     Apology("frobnicate"),
		},
		{
			name:     "no provider",
			query:    "frobnicate",
			provider: nil,
			want:     Apology("frobnicate"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFallback(tt.provider, time.Second)
			if got := f.Suggest(context.Background(), tt.query); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFallbackTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	stuck := ProviderFunc(func(ctx context.Context, q string) (string, error) {
		<-block // ignores ctx on purpose
		return "never", nil
	})
	f := NewFallback(stuck, 20*time.Millisecond)

	start := time.Now()
	got := f.Suggest(context.Background(), "hang")
	if got != Apology("hang") {
		t.Errorf("Suggest = %q, want apology", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Suggest took %v, timeout not enforced", elapsed)
	}
}

func TestFallbackTimeoutFromProviderContext(t *testing.T) {
	f := NewFallback(ProviderFunc(func(ctx context.Context, q string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 10*time.Millisecond)
	if got := f.Suggest(context.Background(), "wait"); got != Apology("wait") {
		t.Errorf("Suggest = %q", got)
	}
}

func TestNewFallbackDefaultTimeout(t *testing.T) {
	if f := NewFallback(nil, 0); f.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", f.Timeout, DefaultTimeout)
	}
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"command": "ls -S"}`, "ls -S"},
		{`{"command": "du -sh *\nextra"}`, "du -sh *"},
		{"ls -la", "ls -la"},
		{"```bash\nfind . -name '*.go'\n```", "find . -name '*.go'"},
		{"`pwd`", "pwd"},
		{"", ""},
		{`{"other": 1}`, `{"other": 1}`},
	}
	for _, tt := range tests {
		if got := ExtractCommand(tt.in); got != tt.want {
			t.Errorf("ExtractCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fakeCompleter struct {
	req  openai.ChatCompletionRequest
	resp *openai.ChatCompletionResponse
	err  error
}

func (f *fakeCompleter) ChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAIProvider(t *testing.T) {
	fc := &fakeCompleter{resp: &openai.ChatCompletionResponse{
		Choices: []openai.Choice{{Message: openai.ChatMessage{Role: "assistant", Content: `{"command":"ls -S"}`}}},
	}}
	p := &OpenAI{Client: fc, Model: "gpt-4o-mini"}

	got, err := p.Suggest(context.Background(), "list files sorted by size")
	if err != nil || got != "ls -S" {
		t.Fatalf("Suggest = %q, %v", got, err)
	}
	if fc.req.Model != "gpt-4o-mini" || len(fc.req.Messages) != 2 {
		t.Fatalf("request = %+v", fc.req)
	}
	if !strings.Contains(fc.req.Messages[1].Content, "Query: list files sorted by size") {
		t.Errorf("user prompt = %q", fc.req.Messages[1].Content)
	}

	fc.resp = &openai.ChatCompletionResponse{}
	if _, err := p.Suggest(context.Background(), "x"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("empty choices error = %v", err)
	}

	fc.err = errors.New("down")
	if _, err := p.Suggest(context.Background(), "x"); err == nil {
		t.Error("expected client error to propagate")
	}
}
