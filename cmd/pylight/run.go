package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pylight/internal/integration/process"
)

// exitError carries a program's exit code out of the run command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("program exited with code %d", e.code)
}

// launchFunc starts one of the launcher's modes.
type launchFunc func(l *process.Launcher, ctx context.Context, path string) (*process.Run, error)

// launchOptions are the flags shared by run and build.
type launchOptions struct {
	grace   time.Duration
	timeout time.Duration
}

func (o *launchOptions) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&o.grace, "grace", process.DefaultGracePeriod, "time between terminate and kill when stopping")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "stop after this long (0 for no limit)")
}

func newRunCmd(a *app) *cobra.Command {
	var (
		opts    launchOptions
		list    bool
		noBuild bool
	)
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Build and run a source file",
		Long: `Build a source file if its language is compiled, then run it.

Program output is streamed as it is produced: standard output to stdout,
standard error and status messages to stderr. Interrupting pylight stops
the program.

Examples:
  pylight run hello.py
  pylight run --timeout 10s src/main.cpp
  pylight run --no-build src/main.cpp
  pylight run --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				chains, err := a.toolchains()
				if err != nil {
					return err
				}
				printToolchains(cmd.OutOrStdout(), chains)
				return nil
			}
			start := (*process.Launcher).BuildAndRun
			if noBuild {
				start = (*process.Launcher).Run
			}
			return a.launch(cmd, args[0], opts, start)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "list the configured toolchains and exit")
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "run the previously built program without compiling")
	return cmd
}

func newBuildCmd(a *app) *cobra.Command {
	var opts launchOptions
	cmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Compile a source file without running it",
		Long: `Compile a source file with its language's toolchain. Interpreted
languages need no build and succeed at once.

Examples:
  pylight build src/main.cpp
  pylight run --no-build src/main.cpp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.launch(cmd, args[0], opts, (*process.Launcher).Build)
		},
	}
	opts.register(cmd)
	return cmd
}

func (a *app) toolchains() ([]process.Toolchain, error) {
	chains, err := a.cfg.Toolchains(process.DefaultToolchains())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.cfg.Path(), err)
	}
	return chains, nil
}

// launch starts path with start, streams its output and turns a non-zero
// exit into an exitError.
func (a *app) launch(cmd *cobra.Command, path string, opts launchOptions, start launchFunc) error {
	chains, err := a.toolchains()
	if err != nil {
		return err
	}

	launcher := process.NewLauncher(
		process.WithToolchains(chains),
		process.WithGracePeriod(opts.grace),
		process.WithStdin(cmd.InOrStdin()),
		process.WithLogger(a.logger),
	)
	defer launcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	run, startErr := start(launcher, ctx, path)
	if run != nil {
		streamRun(cmd.OutOrStdout(), cmd.ErrOrStderr(), run)
	}
	if startErr != nil {
		return startErr
	}

	res := run.Wait()
	if res.Err != nil {
		return res.Err
	}
	if res.ExitCode != 0 {
		return &exitError{code: res.ExitCode}
	}
	return nil
}

// streamRun copies run output until the run finishes.
func streamRun(stdout, stderr io.Writer, run *process.Run) {
	for line := range run.Lines() {
		switch line.Stream {
		case process.Stdout:
			fmt.Fprintln(stdout, line.Text)
		case process.Stderr:
			fmt.Fprintln(stderr, line.Text)
		default:
			fmt.Fprintf(stderr, "[pylight] %s\n", line.Text)
		}
	}
}

func printToolchains(w io.Writer, chains []process.Toolchain) {
	const sample = "main"
	for _, tc := range chains {
		fmt.Fprintf(w, "%s %v\n", tc.Language, tc.Extensions)
		ext := ".x"
		if len(tc.Extensions) > 0 {
			ext = tc.Extensions[0]
		}
		if tc.Build != nil {
			fmt.Fprintf(w, "  build: %v\n", tc.Build(sample+ext))
		}
		if tc.Run != nil {
			fmt.Fprintf(w, "  run:   %v\n", tc.Run(sample+ext))
		}
	}
}
