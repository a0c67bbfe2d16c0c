package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/pylight/internal/log"
)

// DefaultGracePeriod is how long a cancelled child gets between SIGTERM and
// SIGKILL.
const DefaultGracePeriod = 2 * time.Second

// Launcher builds and runs source files.
type Launcher struct {
	sup        *Supervisor
	toolchains []Toolchain
	grace      time.Duration
	stdin      io.Reader
	buffer     int
	logger     *log.Logger
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithToolchains replaces the built-in toolchains.
func WithToolchains(chains []Toolchain) LauncherOption {
	return func(l *Launcher) {
		l.toolchains = chains
	}
}

// WithGracePeriod sets the SIGTERM to SIGKILL delay.
func WithGracePeriod(d time.Duration) LauncherOption {
	return func(l *Launcher) {
		if d > 0 {
			l.grace = d
		}
	}
}

// WithStdin connects r to the program's standard input. The build step
// never reads it.
func WithStdin(r io.Reader) LauncherOption {
	return func(l *Launcher) {
		l.stdin = r
	}
}

// WithLineBuffer sets how many output lines may queue before the readers
// block.
func WithLineBuffer(n int) LauncherOption {
	return func(l *Launcher) {
		if n > 0 {
			l.buffer = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) LauncherOption {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLauncher creates a launcher with the default toolchains.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{
		toolchains: DefaultToolchains(),
		grace:      DefaultGracePeriod,
		buffer:     256,
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("process")
	l.sup = NewSupervisor(WithExitHook(l.logExit))
	return l
}

func (l *Launcher) logExit(p *Process) {
	l.logger.Debug("%s pid %d %s with code %d after %v", p.Name, p.PID(), p.State(), p.ExitCode(), p.Runtime().Round(time.Millisecond))
}

// Toolchains returns the configured toolchains.
func (l *Launcher) Toolchains() []Toolchain {
	return append([]Toolchain(nil), l.toolchains...)
}

// Toolchain returns the toolchain for path's extension.
func (l *Launcher) Toolchain(path string) (Toolchain, bool) {
	for _, tc := range l.toolchains {
		if tc.Handles(path) {
			return tc, true
		}
	}
	return Toolchain{}, false
}

// Running returns the number of live child processes.
func (l *Launcher) Running() int {
	return l.sup.Count()
}

// Close stops every child and refuses new runs.
func (l *Launcher) Close() {
	l.sup.StopAll(l.grace)
}

// mode selects which stages a run performs.
type mode int

const (
	modeBuildAndRun mode = iota
	modeBuild
	modeRun
)

// BuildAndRun compiles path if its language needs it, then runs it. Output
// streams on the returned Run, which the caller must drain.
//
// For a missing file or one no toolchain handles, the Run carries one System
// line and ErrFileNotFound or ErrUnsupported is returned along with it.
func (l *Launcher) BuildAndRun(ctx context.Context, path string) (*Run, error) {
	return l.launch(ctx, path, modeBuildAndRun)
}

// Build only compiles path. Interpreted languages succeed at once with a
// System line saying no build is needed.
func (l *Launcher) Build(ctx context.Context, path string) (*Run, error) {
	return l.launch(ctx, path, modeBuild)
}

// Run runs path without building it first. For a compiled language this
// runs the binary a previous Build produced.
func (l *Launcher) Run(ctx context.Context, path string) (*Run, error) {
	return l.launch(ctx, path, modeRun)
}

func (l *Launcher) launch(ctx context.Context, path string, m mode) (*Run, error) {
	// Children run in the file's directory, so their arguments must not
	// depend on the caller's working directory.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	tc, ok := l.Toolchain(path)
	r := newRun(ctx, path, tc, l.buffer)

	if _, err := os.Stat(path); err != nil {
		r.system("File not found: %s", path)
		r.finish(Result{ExitCode: -1, Err: ErrFileNotFound})
		return r, fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	if !ok {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = filepath.Base(path)
		}
		r.system("Unsupported file type: %s", ext)
		r.finish(Result{ExitCode: -1, Err: ErrUnsupported})
		return r, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	if l.sup.IsShuttingDown() {
		r.finish(Result{ExitCode: -1, Err: ErrSupervisorShutdown})
		return r, ErrSupervisorShutdown
	}

	l.logger.Info("run %s with %s", r.ID, tc.Language)
	switch m {
	case modeBuild:
		go l.buildOnly(r)
	case modeRun:
		go l.runOnly(r)
	default:
		go l.execute(r)
	}
	return r, nil
}

func (l *Launcher) execute(r *Run) {
	r.system("Running: %s", filepath.Base(r.Path))
	if r.Toolchain.Compiled() && !l.build(r) {
		return
	}
	l.run(r)
}

func (l *Launcher) buildOnly(r *Run) {
	if !r.Toolchain.Compiled() {
		r.system("%s does not require building", r.Toolchain.Language)
		r.finish(Result{})
		return
	}
	if l.build(r) {
		r.finish(Result{})
	}
}

func (l *Launcher) runOnly(r *Run) {
	r.system("Running: %s", strings.Join(r.Toolchain.Run(r.Path), " "))
	l.run(r)
}

// build runs the compile stage. On failure it finishes r and returns false.
func (l *Launcher) build(r *Run) bool {
	args := r.Toolchain.Build(r.Path)
	r.system("Building with: %s", strings.Join(args, " "))
	code, err := l.stage(r, args, nil)
	switch {
	case err != nil:
		r.system("Build failed: %v", err)
		r.finish(Result{ExitCode: code, Err: err})
		return false
	case code != 0:
		r.system("Build failed with exit code %d", code)
		r.finish(Result{ExitCode: code, Err: ErrBuildFailed})
		return false
	}
	r.system("Build successful")
	return true
}

func (l *Launcher) run(r *Run) {
	code, err := l.stage(r, r.Toolchain.Run(r.Path), l.stdin)
	switch {
	case err != nil:
		r.system("Run failed: %v", err)
	case code != 0:
		r.system("Program exited with code %d", code)
	default:
		r.system("Program completed successfully")
	}
	r.finish(Result{ExitCode: code, Err: err})
}

// stage runs one command to completion, forwarding its output. A cancelled
// run stops the child and reports the context error.
func (l *Launcher) stage(r *Run, args []string, stdin io.Reader) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return -1, err
	}

	cmd := r.command(args, l.grace)
	cmd.Stdin = stdin
	out, err := attach(cmd)
	if err != nil {
		return -1, err
	}

	proc, err := l.sup.Start(args[0], cmd)
	out.closeWriters()
	if err != nil {
		out.closeReaders()
		return -1, err
	}
	defer out.closeReaders()
	l.logger.Debug("started %s pid %d", proc.Name, proc.PID())

	eof := out.forward(r)
	select {
	case <-proc.Done():
	case <-r.ctx.Done():
		// Not found means it exited on its own meanwhile.
		_ = l.sup.Stop(proc.ID, l.grace)
	}

	select {
	case <-eof:
	case <-r.ctx.Done():
		timer := time.NewTimer(l.grace)
		select {
		case <-eof:
		case <-timer.C:
			out.closeReaders()
			<-eof
		}
		timer.Stop()
	}

	if err := r.ctx.Err(); err != nil {
		return proc.ExitCode(), err
	}
	return proc.ExitCode(), nil
}
