package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// State represents the state of a process.
type State int

const (
	// StateCreated indicates the process has been created but not started.
	StateCreated State = iota
	// StateRunning indicates the process is currently running.
	StateRunning
	// StateExited indicates the process has exited normally or with an error.
	StateExited
	// StateKilled indicates the process was killed by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Process is one supervised child. The caller wires its I/O on Cmd before
// starting it.
type Process struct {
	// ID is the unique identifier for this process.
	ID string

	// Name is a human-readable name, usually the program.
	Name string

	// Cmd is the underlying exec.Cmd.
	Cmd *exec.Cmd

	// Started is the time the process was started.
	Started time.Time

	done     chan struct{}
	state    atomic.Int32
	exitCode atomic.Int32

	mu      sync.RWMutex
	exitErr error
}

// NewProcess creates a Process wrapping cmd, which must not be started yet.
func NewProcess(id, name string, cmd *exec.Cmd) *Process {
	p := &Process{
		ID:   id,
		Name: name,
		Cmd:  cmd,
		done: make(chan struct{}),
	}
	p.state.Store(int32(StateCreated))
	p.exitCode.Store(-1) // -1 indicates not exited
	return p
}

// State returns the current process state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// ExitCode returns the exit code, or -1 if the process has not exited or
// was killed by a signal.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// ExitError returns the error from waiting on the process, if any.
func (p *Process) ExitError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitErr
}

// Done returns a channel that is closed when the process exits and its
// output has been copied.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// IsRunning returns true if the process is currently running.
func (p *Process) IsRunning() bool {
	return p.State() == StateRunning
}

// HasExited returns true if the process has exited (normally or killed).
func (p *Process) HasExited() bool {
	state := p.State()
	return state == StateExited || state == StateKilled
}

// PID returns the process ID, or -1 if not started.
func (p *Process) PID() int {
	if p.Cmd.Process == nil {
		return -1
	}
	return p.Cmd.Process.Pid
}

// Signal sends sig to a running process.
func (p *Process) Signal(sig os.Signal) error {
	if !p.IsRunning() || p.Cmd.Process == nil {
		return ErrProcessNotStarted
	}
	return p.Cmd.Process.Signal(sig)
}

// Kill stops the process immediately.
func (p *Process) Kill() error {
	return p.Signal(os.Kill)
}

// Terminate asks the process to exit. Windows has no SIGTERM, so there it
// kills.
func (p *Process) Terminate() error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	return p.Signal(syscall.SIGTERM)
}

// Stop terminates the process and waits up to grace for it to exit before
// killing it. It returns once the process is gone.
func (p *Process) Stop(grace time.Duration) {
	if !p.IsRunning() {
		<-p.done
		return
	}
	_ = p.Terminate()

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.done:
	case <-timer.C:
		_ = p.Kill()
		<-p.done
	}
}

// Runtime returns how long the process has been running.
func (p *Process) Runtime() time.Duration {
	if p.Started.IsZero() {
		return 0
	}
	return time.Since(p.Started)
}

func (p *Process) start() error {
	if p.State() != StateCreated {
		return ErrProcessAlreadyStarted
	}
	if err := p.Cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", p.Name, ErrToolchainMissing)
		}
		return fmt.Errorf("start %s: %w", p.Name, err)
	}

	p.Started = time.Now()
	p.state.Store(int32(StateRunning))
	go p.wait()
	return nil
}

func (p *Process) wait() {
	err := p.Cmd.Wait()

	p.mu.Lock()
	p.exitErr = err
	p.mu.Unlock()

	exitCode := 0
	state := StateExited
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				state = StateKilled
			}
		} else {
			exitCode = -1
		}
	}

	p.exitCode.Store(int32(exitCode))
	p.state.Store(int32(state))
	close(p.done)
}
