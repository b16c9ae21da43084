package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mako10k/shellassist/internal/openai"
)

const systemPrompt = `You translate natural language requests into a single POSIX shell command.
Reply with a JSON object of the form {"command": "<command>"} and nothing else.`

const promptFormat = "Translate the following natural language query into a terminal command:\n\nQuery: %s\n\nCommand: "

// ChatCompleter is the part of the API client the provider needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// OpenAI asks a chat completion model for the command.
type OpenAI struct {
	Client      ChatCompleter
	Model       string
	MaxTokens   int
	Temperature float64
}

// Suggest implements Provider.
func (p *OpenAI) Suggest(ctx context.Context, query string) (string, error) {
	resp, err := p.Client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(promptFormat, query)},
		},
		MaxTokens:      p.MaxTokens,
		Temperature:    p.Temperature,
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call failed: %w", err)
	}
	cmd := ExtractCommand(resp.FirstContent())
	if cmd == "" {
		return "", ErrEmptyResponse
	}
	return cmd, nil
}

// ExtractCommand pulls the command out of a model answer. A JSON object
// with a "command" field is preferred; otherwise the first non-empty line of
// the text is used with any code fence or backticks removed.
func ExtractCommand(content string) string {
	content = strings.TrimSpace(content)
	if gjson.Valid(content) {
		if r := gjson.Get(content, "command"); r.Exists() {
			return firstLine(r.String())
		}
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		return strings.Trim(line, "`")
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
