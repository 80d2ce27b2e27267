// Package cli holds the pieces shared by the command binaries: exit codes,
// usage errors and the cobra run wrapper.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError marks an error caused by how the command was invoked: bad flags,
// wrong argument count or an unusable scan configuration.
type UsageError struct {
	Err error
}

// Error implements error.
func (e *UsageError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError wraps err as a usage error. A nil err stays nil.
func NewUsageError(err error) error {
	if err == nil {
		return nil
	}

	return &UsageError{Err: err}
}

// Usagef formats a usage error.
func Usagef(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by a command to its process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}

	return ExitFailure
}

// ExactArgs is cobra.ExactArgs reporting violations as usage errors.
func ExactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)

	return func(cmd *cobra.Command, args []string) error {
		return NewUsageError(check(cmd, args))
	}
}

// Execute runs cmd with args and returns the exit status. Errors are printed to
// stderr; usage errors are followed by the command's usage line.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetErr(stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return NewUsageError(err)
	})

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	code := ExitCode(err)
	if code == ExitUsage {
		fmt.Fprintf(stderr, "Usage: %s\n", cmd.UseLine())
	}

	return code
}
