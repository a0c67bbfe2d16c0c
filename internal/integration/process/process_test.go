package process

import (
	"errors"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func TestNewProcess(t *testing.T) {
	proc := NewProcess("run-1", "echo", exec.Command("echo", "hello"))

	if proc.ID != "run-1" || proc.Name != "echo" {
		t.Errorf("got ID %q name %q", proc.ID, proc.Name)
	}
	if proc.State() != StateCreated {
		t.Errorf("expected StateCreated, got %v", proc.State())
	}
	if proc.ExitCode() != -1 {
		t.Errorf("expected exit code -1, got %d", proc.ExitCode())
	}
	if proc.PID() != -1 {
		t.Errorf("expected PID -1 before start, got %d", proc.PID())
	}
	if proc.IsRunning() || proc.HasExited() {
		t.Error("unstarted process reports running or exited")
	}
	if proc.Runtime() != 0 {
		t.Errorf("expected runtime 0 before start, got %v", proc.Runtime())
	}
}

func TestProcessStart(t *testing.T) {
	proc := NewProcess("run-1", "echo", exec.Command("echo", "hello"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if proc.PID() <= 0 {
		t.Errorf("expected positive PID, got %d", proc.PID())
	}
	if proc.Started.IsZero() {
		t.Error("Started not set")
	}

	<-proc.Done()
	if proc.State() != StateExited {
		t.Errorf("expected StateExited, got %v", proc.State())
	}
	if proc.ExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", proc.ExitCode())
	}

	if err := proc.start(); !errors.Is(err, ErrProcessAlreadyStarted) {
		t.Errorf("second start = %v", err)
	}
}

func TestProcessStartMissingProgram(t *testing.T) {
	proc := NewProcess("run-1", "nope", exec.Command("pylight-no-such-compiler"))
	err := proc.start()
	if !errors.Is(err, ErrToolchainMissing) {
		t.Errorf("expected ErrToolchainMissing, got %v", err)
	}
	if proc.State() != StateCreated {
		t.Errorf("failed start changed state to %v", proc.State())
	}
}

func TestProcessExitCode(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *exec.Cmd
		wantCode int
	}{
		{"success", exec.Command("true"), 0},
		{"failure", exec.Command("false"), 1},
		{"exit 42", exec.Command("sh", "-c", "exit 42"), 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := NewProcess("run-1", tt.name, tt.cmd)
			if err := proc.start(); err != nil {
				t.Fatalf("start: %v", err)
			}
			<-proc.Done()
			if proc.ExitCode() != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, proc.ExitCode())
			}
		})
	}
}

func TestProcessTerminate(t *testing.T) {
	proc := NewProcess("run-1", "sleep", exec.Command("sleep", "10"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := proc.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	select {
	case <-proc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("process did not exit after SIGTERM")
	}
	if proc.State() != StateKilled {
		t.Errorf("expected StateKilled, got %v", proc.State())
	}
	if proc.ExitCode() != -1 {
		t.Errorf("signalled process exit code = %d", proc.ExitCode())
	}
}

func TestProcessStopEscalates(t *testing.T) {
	proc := NewProcess("run-1", "stubborn", exec.Command("sh", "-c", "trap '' TERM; sleep 60"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Let the shell install its trap.
	time.Sleep(100 * time.Millisecond)

	start := time.Now()
	proc.Stop(300 * time.Millisecond)
	elapsed := time.Since(start)

	if !proc.HasExited() {
		t.Fatal("process still running after Stop")
	}
	if elapsed < 250*time.Millisecond || elapsed > 3*time.Second {
		t.Errorf("Stop took %v", elapsed)
	}
}

func TestProcessStopAfterExit(t *testing.T) {
	proc := NewProcess("run-1", "true", exec.Command("true"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-proc.Done()
	proc.Stop(time.Second)
}

func TestProcessSignalBeforeStart(t *testing.T) {
	proc := NewProcess("run-1", "echo", exec.Command("echo"))
	if err := proc.Signal(syscall.SIGTERM); !errors.Is(err, ErrProcessNotStarted) {
		t.Errorf("expected ErrProcessNotStarted, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{StateKilled, "killed"},
		{State(99), "unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State.String() = %q, want %q", got, tt.want)
		}
	}
}
