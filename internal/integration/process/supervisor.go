package process

import (
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Supervisor tracks the children of every stage so that a cancelled run
// can stop its own child and Close can stop them all.
type Supervisor struct {
	mu       sync.RWMutex
	children map[string]*Process

	closed atomic.Bool

	onExit func(p *Process)
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithExitHook registers fn to be called after each child exits and before
// it is forgotten. A panic in fn is contained.
func WithExitHook(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) {
		s.onExit = fn
	}
}

// NewSupervisor creates an empty supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		children: make(map[string]*Process),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts cmd under a fresh ID. Failed starts are not tracked.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	proc := NewProcess(uuid.NewString(), name, cmd)
	if err := proc.start(); err != nil {
		return nil, err
	}
	s.children[proc.ID] = proc

	go s.monitor(proc)
	return proc, nil
}

func (s *Supervisor) monitor(proc *Process) {
	<-proc.Done()

	if s.onExit != nil {
		func() {
			defer func() { _ = recover() }()
			s.onExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.children, proc.ID)
	s.mu.Unlock()
}

// Stop terminates the child with the given ID, killing it after grace, and
// returns once it is gone. A child that already exited is not an error.
func (s *Supervisor) Stop(id string, grace time.Duration) error {
	s.mu.RLock()
	proc := s.children[id]
	s.mu.RUnlock()

	if proc == nil {
		return ErrProcessNotFound
	}
	proc.Stop(grace)
	return nil
}

// Count returns the number of live children.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.children)
}

func (s *Supervisor) snapshot() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	procs := make([]*Process, 0, len(s.children))
	for _, p := range s.children {
		procs = append(procs, p)
	}
	return procs
}

// StopAll refuses new children, stops every live one with the given grace
// period and waits until all are gone. Calling it again is a no-op.
func (s *Supervisor) StopAll(grace time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	var wg sync.WaitGroup
	for _, p := range s.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Stop(grace)
		}()
	}
	wg.Wait()

	// Monitors remove entries after Done closes.
	for s.Count() > 0 {
		time.Sleep(time.Millisecond)
	}
}

// IsShuttingDown reports whether StopAll has been called.
func (s *Supervisor) IsShuttingDown() bool {
	return s.closed.Load()
}
