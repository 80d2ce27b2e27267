package validator

import (
	"fmt"
	"io"
)

// Violation is one failed check, located by a JSON-path-like string.
type Violation struct {
	Path    string
	Message string
}

// String renders the violation as "path: message".
func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationResult contains every violation found in one document.
type ValidationResult struct {
	Violations []Violation
	Stats      ValidationStats
}

// ValidationStats counts what was inspected.
type ValidationStats struct {
	Items     int
	Sources   int
	Amenities int
}

// IsValid reports whether no violation was found.
func (r *ValidationResult) IsValid() bool {
	return len(r.Violations) == 0
}

// Messages returns the violations as "path: message" strings, in check order.
func (r *ValidationResult) Messages() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.String()
	}

	return out
}

// String returns a one-line summary.
func (r *ValidationResult) String() string {
	status := "VALID"
	if !r.IsValid() {
		status = "INVALID"
	}

	return fmt.Sprintf(
		"%s | Items: %d | Sources: %d | Amenities: %d | Violations: %d",
		status,
		r.Stats.Items,
		r.Stats.Sources,
		r.Stats.Amenities,
		len(r.Violations),
	)
}

// Print writes the human-readable report: one line per violation, or a single
// success line.
func (r *ValidationResult) Print(w io.Writer) error {
	if r.IsValid() {
		_, err := fmt.Fprintln(w, "OK: document is valid.")
		return err
	}

	if _, err := fmt.Fprintln(w, "VALIDATION FAILED:"); err != nil {
		return err
	}

	for _, v := range r.Violations {
		if _, err := fmt.Fprintf(w, " - %s\n", v); err != nil {
			return err
		}
	}

	return nil
}

func (r *ValidationResult) add(path, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}
