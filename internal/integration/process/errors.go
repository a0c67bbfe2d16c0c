package process

import "errors"

// Sentinel errors.
var (
	// ErrUnsupported is returned for files no toolchain handles.
	ErrUnsupported = errors.New("unsupported file type")

	// ErrFileNotFound is returned when the source file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrToolchainMissing is returned when a compiler or interpreter is not
	// installed.
	ErrToolchainMissing = errors.New("toolchain not found")

	// ErrBuildFailed is returned when the compile step exits non-zero.
	ErrBuildFailed = errors.New("build failed")

	// ErrProcessNotStarted is returned when operations require a started process.
	ErrProcessNotStarted = errors.New("process not started")

	// ErrProcessAlreadyStarted is returned when starting a process twice.
	ErrProcessAlreadyStarted = errors.New("process already started")

	// ErrProcessNotFound is returned when a process ID is not found.
	ErrProcessNotFound = errors.New("process not found")

	// ErrSupervisorShutdown is returned when the supervisor is shutting down.
	ErrSupervisorShutdown = errors.New("supervisor is shutting down")
)
