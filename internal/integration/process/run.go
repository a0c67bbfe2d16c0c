package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stream identifies where an output line came from.
type Stream uint8

const (
	Stdout Stream = iota
	Stderr
	// System lines are written by the launcher itself.
	System
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	case System:
		return "system"
	default:
		return fmt.Sprintf("stream(%d)", s)
	}
}

// OutputLine is one line of output without its line terminator.
type OutputLine struct {
	Stream Stream
	Text   string
}

// Result is how a run ended. ExitCode is the last stage's exit code, or -1
// if it never ran or was killed.
type Result struct {
	ExitCode int
	Err      error
}

// Success reports whether the program ran and exited 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Run is one build-and-run of a file.
type Run struct {
	ID        string
	Path      string
	Toolchain Toolchain

	ctx    context.Context
	cancel context.CancelFunc

	lines chan OutputLine

	done   chan struct{}
	result Result
}

func newRun(ctx context.Context, path string, tc Toolchain, buffer int) *Run {
	ctx, cancel := context.WithCancel(ctx)
	return &Run{
		ID:        uuid.NewString(),
		Path:      path,
		Toolchain: tc,
		ctx:       ctx,
		cancel:    cancel,
		lines:     make(chan OutputLine, buffer),
		done:      make(chan struct{}),
	}
}

// Lines returns the output channel. It is closed once the run has finished
// and every line has been delivered.
func (r *Run) Lines() <-chan OutputLine {
	return r.lines
}

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes. Lines must be drained concurrently or
// Wait may block forever.
func (r *Run) Wait() Result {
	<-r.done
	return r.result
}

// Cancel stops the run. It is safe to call at any time.
func (r *Run) Cancel() {
	r.cancel()
}

// Collect drains Lines and waits for the result.
func (r *Run) Collect() ([]OutputLine, Result) {
	var out []OutputLine
	for line := range r.lines {
		out = append(out, line)
	}
	return out, r.Wait()
}

func (r *Run) system(format string, args ...any) {
	r.lines <- OutputLine{Stream: System, Text: fmt.Sprintf(format, args...)}
}

func (r *Run) finish(res Result) {
	r.result = res
	close(r.lines)
	r.cancel()
	close(r.done)
}

func (r *Run) command(args []string, grace time.Duration) *exec.Cmd {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = filepath.Dir(r.Path)
	// Bounds Wait when a non-file stdin is still being copied.
	cmd.WaitDelay = grace
	return cmd
}

// output holds the OS pipes for one child's stdout and stderr. The child
// writes straight into them, so nothing is lost however slowly Lines is
// drained.
type output struct {
	readers [2]*os.File
	writers [2]*os.File
	wg      sync.WaitGroup
}

func attach(cmd *exec.Cmd) (*output, error) {
	o := &output{}
	for i := range o.readers {
		pr, pw, err := os.Pipe()
		if err != nil {
			o.closeWriters()
			o.closeReaders()
			return nil, fmt.Errorf("create pipe: %w", err)
		}
		o.readers[i], o.writers[i] = pr, pw
	}
	cmd.Stdout = o.writers[0]
	cmd.Stderr = o.writers[1]
	return o, nil
}

// forward starts one reader goroutine per stream and returns a channel that
// is closed when both reach EOF.
func (o *output) forward(r *Run) <-chan struct{} {
	o.wg.Add(2)
	go o.read(r, o.readers[0], Stdout)
	go o.read(r, o.readers[1], Stderr)

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	return done
}

func (o *output) read(r *Run, src io.Reader, stream Stream) {
	defer o.wg.Done()

	br := bufio.NewReader(src)
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			r.lines <- OutputLine{Stream: stream, Text: strings.TrimRight(text, "\r\n")}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				r.system("read %s: %v", stream, err)
			}
			return
		}
	}
}

// closeWriters drops the parent's copies of the write ends, so readers see
// EOF once the child exits.
func (o *output) closeWriters() {
	for _, w := range o.writers {
		if w != nil {
			w.Close()
		}
	}
}

// closeReaders unblocks readers stuck on a pipe a grandchild still holds.
func (o *output) closeReaders() {
	for _, rd := range o.readers {
		if rd != nil {
			rd.Close()
		}
	}
}
