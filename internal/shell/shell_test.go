package shell

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/mako10k/shellassist/internal/session"
)

type cannedSuggester string

func (c cannedSuggester) Suggest(ctx context.Context, query string) string { return string(c) }

func newTestShell(cfg Config) (*Shell, *session.Session, *bytes.Buffer) {
	sess := session.New(session.Config{Rand: rand.New(rand.NewSource(5))})
	var out bytes.Buffer
	cfg.NoColor = true
	return New(sess, cannedSuggester("ls -S"), &out, cfg), sess, &out
}

func TestScript(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
		absent []string
	}{
		{
			name:   "builtins",
			script: "pwd\ncd Documents\nls\n",
			want:   []string{"/home/user\n", "report.txt\n"},
		},
		{
			name:   "missing directory",
			script: "cd nowhere\n",
			want:   []string{"cd: 'nowhere': No such file or directory\n"},
		},
		{
			name:   "read only",
			script: "mkdir x\nrm README.md\n",
			want:   []string{"mkdir: Read-only file system.\n", "rm: Read-only file system.\n"},
		},
		{
			name:   "delegated",
			script: "list files sorted by size\n",
			want:   []string{"Command not found. AI suggests:\n", "  ls -S\n"},
			absent: []string{"Thinking..."},
		},
		{
			name:   "exit stops",
			script: "pwd\nexit\nls\n",
			want:   []string{"/home/user\n"},
			absent: []string{"Documents/"},
		},
		{
			name:   "ls tags directories",
			script: "ls\n",
			want:   []string{"Documents/  Downloads/  README.md\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, _, out := newTestShell(Config{})
			if err := sh.Script(context.Background(), strings.NewReader(tt.script)); err != nil {
				t.Fatalf("Script: %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("output contains %q:\n%s", a, got)
				}
			}
		})
	}
}

func TestScriptEcho(t *testing.T) {
	sh, _, out := newTestShell(Config{Echo: true})
	if err := sh.Script(context.Background(), strings.NewReader("cd /etc\npwd\n")); err != nil {
		t.Fatal(err)
	}
	want := "/home/user > cd /etc\n/etc > pwd\n/etc\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestScriptCanceled(t *testing.T) {
	sh, _, _ := newTestShell(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sh.Script(ctx, strings.NewReader("pwd\n")); err == nil {
		t.Error("expected context error")
	}
}

func TestRunPrintsBanner(t *testing.T) {
	sh, _, out := newTestShell(Config{})
	if err := sh.Run(context.Background(), strings.NewReader("")); err != nil {
		t.Fatal(err)
	}
	for _, b := range session.Banner {
		if !strings.Contains(out.String(), b+"\n") {
			t.Errorf("banner line %q missing", b)
		}
	}
}

func TestExecuteClear(t *testing.T) {
	sh, sess, out := newTestShell(Config{})
	if err := sh.Execute(context.Background(), "clear"); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 || len(sess.Lines()) != 0 {
		t.Errorf("clear printed %q, scrollback %d", out.String(), len(sess.Lines()))
	}
	if err := sh.Execute(context.Background(), "pwd"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "/home/user\n" {
		t.Errorf("after clear = %q", out.String())
	}
}

func TestCompleter(t *testing.T) {
	sh, _, _ := newTestShell(Config{})
	c := &completer{sess: sh.sess}

	tests := []struct {
		line   string
		want   []string
		length int
	}{
		{"he", []string{"lp "}, 2},
		{"h", []string{"elp ", "istory "}, 1},
		{"cd Do", []string{"cuments ", "wnloads "}, 2},
		{"pwd x", nil, 1},
	}
	for _, tt := range tests {
		got, n := c.Do([]rune(tt.line), len(tt.line))
		var strs []string
		for _, r := range got {
			strs = append(strs, string(r))
		}
		if strings.Join(strs, "|") != strings.Join(tt.want, "|") || n != tt.length {
			t.Errorf("Do(%q) = %q, %d; want %q, %d", tt.line, strs, n, tt.want, tt.length)
		}
	}
}

func TestIsExit(t *testing.T) {
	for line, want := range map[string]bool{"exit": true, " quit ": true, "exitx": false, "": false} {
		if got := isExit(line); got != want {
			t.Errorf("isExit(%q) = %v", line, got)
		}
	}
}
