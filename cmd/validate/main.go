// Package main provides the validate command: it checks a knowledge-base JSON
// document and lists every rule violation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alpenlodge/internal/cli"
	"alpenlodge/internal/validator"
)

// ErrInvalidDocument is returned when the document has violations.
var ErrInvalidDocument = errors.New("document has validation errors")

func main() {
	os.Exit(cli.Execute(context.Background(), newRootCommand(os.Stdout), os.Args[1:], os.Stderr))
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a knowledge-base JSON document",
		Long: `Validate checks a knowledge-base document for required sections and item
fields, http(s)-only links, source references, calendar dates, coordinate
ranges, unique ids and the publishing rule flags. Every violation is listed.`,
		Args: cli.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], stdout)
		},
	}
}

func runValidate(path string, stdout io.Writer) error {
	res, err := validator.NewSchemaValidator().ValidateFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := res.Print(stdout); err != nil {
		return err
	}

	if !res.IsValid() {
		return fmt.Errorf("%w: %d violation(s)", ErrInvalidDocument, len(res.Violations))
	}

	return nil
}
