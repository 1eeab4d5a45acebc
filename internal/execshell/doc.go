// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with lifecycle logging and typed errors,
// and OSCommandRunner executes processes through os/exec. todosync uses it to
// run gh for issue tracker calls and git for remote discovery.
package execshell
