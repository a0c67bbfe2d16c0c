// Package process builds and runs source files as child processes.
//
// A Launcher picks a Toolchain by file extension, compiles the file when the
// language needs it, then runs the result. Output arrives line by line on a
// channel, tagged with the stream it came from:
//
//	l := process.NewLauncher()
//	defer l.Close()
//
//	run, err := l.BuildAndRun(ctx, "hello.c")
//	for line := range run.Lines() {
//	    fmt.Println(line.Text)
//	}
//	res := run.Wait()
//
// Failures never panic and never disappear: a failed compile, a crash or a
// missing compiler are reported as System lines before the channel closes.
//
// # Supervisor
//
// Children are started through a Supervisor, which tracks them by ID and
// stops them on shutdown: SIGTERM first, then SIGKILL once the grace period
// runs out.
//
// Launcher, Run and Supervisor are safe for concurrent use.
package process
