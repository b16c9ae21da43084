// Package cli wires configuration, logging and the front-ends into the
// shellassist command.
package cli

import (
	"context"
	"fmt"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mako10k/shellassist/internal/api"
	"github.com/mako10k/shellassist/internal/logging"
	"github.com/mako10k/shellassist/internal/shell"
	"github.com/mako10k/shellassist/internal/tui"
)

// Version information
var (
	Version     = "1.0.0"   // Will be overridden by build-time ldflags
	BuildCommit = "unknown" // Will be overridden by build-time ldflags
	BuildTime   = "unknown" // Will be overridden by build-time ldflags
	Name        = "shellassist"
	Description = "Simulated shell with AI command suggestions"
)

type options struct {
	fs afero.Fs

	configFile string
	model      string
	timeout    int
	seedDir    string
	home       string
	logLevel   string

	noColor bool
	echo    bool
	listen  string
}

// Execute runs the command line.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree reading files from the OS.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fsys afero.Fs) *cobra.Command {
	o := &options{fs: fsys}

	root := &cobra.Command{
		Use:           Name,
		Short:         Description,
		Long:          "A simulated terminal over an in-memory file tree. Unknown commands are sent to a language model that suggests a real shell command.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
				return o.runLine(cmd)
			}
			cfg, err := o.load(cmd, true)
			if err != nil {
				return err
			}
			defer logging.Sync()
			sess, err := newSession(o.fs, cfg)
			if err != nil {
				return err
			}
			sug, done := newSuggester(cfg)
			defer done()
			return tui.Run(cmd.Context(), sess, sug)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", "", "configuration file (default ~/"+DefaultConfigName+")")
	pf.StringVarP(&o.model, "model", "m", "", "model used for suggestions")
	pf.IntVar(&o.timeout, "timeout", 0, "suggestion timeout in seconds")
	pf.StringVar(&o.seedDir, "seed-dir", "", "directory copied into the simulated file tree")
	pf.StringVar(&o.home, "home", "", "home directory inside the simulated tree")
	pf.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	lineCmd := &cobra.Command{
		Use:   "line",
		Short: "Run the line-oriented prompt (reads a script when stdin is not a terminal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runLine(cmd)
		},
	}
	lineCmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable coloured output")
	lineCmd.Flags().BoolVar(&o.echo, "echo", false, "echo each scripted command with its prompt")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP for a browser widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd, false)
			if err != nil {
				return err
			}
			defer logging.Sync()
			sess, err := newSession(o.fs, cfg)
			if err != nil {
				return err
			}
			sug, done := newSuggester(cfg)
			defer done()
			return api.NewServer(sess, sug).ListenAndServe(cmd.Context(), cfg.ListenAddr)
		},
	}
	serveCmd.Flags().StringVarP(&o.listen, "listen", "l", "", "listen address (default from listen_addr)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", Name, Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build commit: %s\n", BuildCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build time: %s\n", BuildTime)
		},
	}

	root.AddCommand(lineCmd, serveCmd, versionCmd)
	return root
}

func (o *options) runLine(cmd *cobra.Command) error {
	cfg, err := o.load(cmd, true)
	if err != nil {
		return err
	}
	defer logging.Sync()
	sess, err := newSession(o.fs, cfg)
	if err != nil {
		return err
	}
	sug, done := newSuggester(cfg)
	defer done()
	out := cmd.OutOrStdout()
	sh := shell.New(sess, sug, out, shell.Config{
		HistoryFile: expandHome(cfg.HistoryFile),
		NoColor:     o.noColor || !isTerminal(out),
		Echo:        o.echo,
	})
	return sh.Run(cmd.Context(), cmd.InOrStdin())
}

// load reads the rc file, then the environment, then flags given on the
// command line, and starts logging.
func (o *options) load(cmd *cobra.Command, interactive bool) (*ConfigFile, error) {
	path := o.configFile
	if path == "" {
		path = DefaultConfigPath()
	} else if ok, _ := afero.Exists(o.fs, path); !ok {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfigFile(o.fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg = loaded
	}
	LoadEnvironmentConfig(cfg)

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = o.model
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = o.timeout
	}
	if flags.Changed("seed-dir") {
		cfg.SeedDir = o.seedDir
	}
	if flags.Changed("home") {
		cfg.HomeDir = o.home
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("listen") {
		cfg.ListenAddr = o.listen
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := setupLogging(cfg, interactive); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return readline.IsTerminal(int(f.Fd()))
}
