package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mako10k/shellassist/internal/logging"
	"github.com/mako10k/shellassist/internal/openai"
	"github.com/mako10k/shellassist/internal/session"
	"github.com/mako10k/shellassist/internal/suggest"
	"github.com/mako10k/shellassist/internal/vfs"
)

// setupLogging installs the global logger. Terminal front-ends log only to
// log_file so nothing interleaves with the screen.
func setupLogging(cfg *ConfigFile, interactive bool) error {
	out := cfg.LogFile
	if out == "" {
		out = "stderr"
		if interactive {
			out = "off"
		}
	}
	return logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: expandHome(out),
	})
}

// newSuggester wires the chat completion client behind the fallback. The
// returned func logs the client's usage and is deferred until shutdown.
func newSuggester(cfg *ConfigFile) (*suggest.Fallback, func()) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.OpenAIAPIKey == "" {
		logging.L().Warn("no API key configured; suggestions will fall back to an apology")
	}
	client := openai.NewClient(openai.ClientConfig{
		APIKey:    cfg.OpenAIAPIKey,
		BaseURL:   cfg.OpenAIBaseURL,
		Timeout:   timeout,
		MaxCalls:  cfg.MaxAPICalls,
		UserAgent: Name + "/" + Version,
	})
	provider := &suggest.OpenAI{
		Client:      client,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
	return suggest.NewFallback(provider, timeout), func() { logClientStats(client) }
}

func logClientStats(client *openai.Client) {
	stats := client.GetStats()
	logging.L().Info("suggestion client usage",
		zap.Int("requests", stats.RequestCount),
		zap.Int("errors", stats.ErrorCount),
		zap.Int("prompt_tokens", stats.PromptTokens),
		zap.Int("completion_tokens", stats.CompletionTokens),
		zap.Int("total_tokens", stats.TotalTokens),
		zap.Duration("total_duration", stats.TotalDuration),
	)
}

// newSession builds the session, seeding the tree from seed_dir when set.
func newSession(fsys afero.Fs, cfg *ConfigFile) (*session.Session, error) {
	var tree *vfs.Dir
	if cfg.SeedDir != "" {
		t, err := vfs.LoadSeed(fsys, expandHome(cfg.SeedDir))
		if err != nil {
			return nil, fmt.Errorf("failed to load seed directory: %w", err)
		}
		tree = t
	}
	sess := session.New(session.Config{Home: cfg.HomeDir, Tree: tree})
	logging.L().Info("session created",
		zap.String("session_id", sess.ID()),
		zap.String("home", cfg.HomeDir),
		zap.String("seed_dir", cfg.SeedDir),
		zap.String("model", cfg.Model),
	)
	return sess, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
