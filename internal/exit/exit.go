// Package exit carries what the command prints before terminating and its status.
package exit

import (
	"fmt"
	"io"
)

// Exit codes.
const (
	CodeSuccess = 0
	CodeFailure = 1
)

// Result is the message to print and the status to exit with.
type Result struct {
	ExitCode int
	Message  string
}

// Print writes the message to stdout when the result is a success and to
// stderr otherwise, then returns the exit code.
func (r *Result) Print(stdout, stderr io.Writer) int {
	w := stderr
	if r.ExitCode == CodeSuccess {
		w = stdout
	}
	_, _ = fmt.Fprint(w, r.Message)
	return r.ExitCode
}

func Success(message string) *Result {
	return &Result{ExitCode: CodeSuccess, Message: message}
}

// Error is a failure that prints message.
func Error(message string) *Result {
	return &Result{ExitCode: CodeFailure, Message: message}
}

func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}
