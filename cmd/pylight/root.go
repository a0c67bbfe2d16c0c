package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/pylight/internal/config"
	"github.com/dshills/pylight/internal/log"
)

// Environment variables read by the CLI itself.
const (
	envConfig   = "PYLIGHT_CONFIG"
	envSettings = "PYLIGHT_SETTINGS"
)

// app holds what every subcommand shares: streams, the loaded editor
// configuration and the logger.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath   string
	settingsPath string
	logLevel     string
	logFile      string

	cfg     *config.EditorConfig
	logger  *log.Logger
	logSink io.Closer

	// isTTY reports whether w is an interactive terminal.
	isTTY func(w io.Writer) bool
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: log.Discard(),
		isTTY:  isTerminal,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pylight",
		Short: "A lightweight multi-language code editor",
		Long: `Pylight highlights, views, builds and runs Python, C, C++, Java and
JavaScript source files, and scaffolds new projects.`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "",
		"editor config file (default: $"+envConfig+" or <user config dir>/pylight/"+config.EditorConfigFile+")")
	pf.StringVar(&a.settingsPath, "settings", "",
		"settings file (default: $"+envSettings+" or <user config dir>/pylight/settings.json)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newHighlightCmd(a),
		newViewCmd(a),
		newRunCmd(a),
		newBuildCmd(a),
		newReplaceCmd(a),
		newSettingsCmd(a),
		newNewCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup validates global flags, loads the editor configuration and opens
// the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.logLevel != "" {
		if _, err := log.ParseLevel(a.logLevel); err != nil {
			return err
		}
	}

	path := firstNonEmpty(a.configPath, os.Getenv(envConfig))
	if path == "" {
		var err error
		if path, err = config.DefaultEditorConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadEditorConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if a.logLevel != "" {
		level, _ = log.ParseLevel(a.logLevel)
	}

	logCfg := log.Config{Level: level, Output: a.stderr, Prefix: "pylight"}
	if file := firstNonEmpty(a.logFile, cfg.LogFile()); file != "" {
		logger, f, err := log.OpenFile(file, logCfg)
		if err != nil {
			return err
		}
		a.logger, a.logSink = logger, f
	} else {
		a.logger = log.New(logCfg)
	}
	a.logger.Debug("command %s, config %s", cmd.CommandPath(), path)
	return nil
}

func (a *app) teardown() {
	if a.logSink != nil {
		a.logSink.Close()
		a.logSink = nil
	}
}

// settingsStore opens and loads the settings store.
func (a *app) settingsStore() (*config.Store, error) {
	path := firstNonEmpty(a.settingsPath, os.Getenv(envSettings))
	if path == "" {
		var err error
		if path, err = config.DefaultSettingsPath(); err != nil {
			return nil, err
		}
	}
	store := config.NewStore(path, config.WithStoreLogger(a.logger))
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pylight %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
