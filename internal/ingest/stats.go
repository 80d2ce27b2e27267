package ingest

import (
	"fmt"
	"slices"

	"alpenlodge/internal/normalizer"
)

// CategoryStats counts what happened to one category's elements.
type CategoryStats struct {
	Rejected map[normalizer.Reason]int
	Category string
	Error    string
	Fetched  int
	Capped   int
	Accepted int
	Failed   bool
}

// RejectedTotal returns the number of elements dropped for any reason.
func (c *CategoryStats) RejectedTotal() int {
	total := 0
	for _, n := range c.Rejected {
		total += n
	}

	return total
}

// Stats summarizes one pipeline run, one entry per configured category.
type Stats struct {
	Categories []*CategoryStats
}

func (s *Stats) category(name string) *CategoryStats {
	cs := &CategoryStats{
		Category: name,
		Rejected: make(map[normalizer.Reason]int),
	}
	s.Categories = append(s.Categories, cs)

	return cs
}

// Accepted returns the number of items emitted across all categories.
func (s *Stats) Accepted() int {
	total := 0
	for _, c := range s.Categories {
		total += c.Accepted
	}

	return total
}

// Fetched returns the number of raw elements received across all categories.
func (s *Stats) Fetched() int {
	total := 0
	for _, c := range s.Categories {
		total += c.Fetched
	}

	return total
}

// Rejected returns how many elements were dropped for reason across all categories.
func (s *Stats) Rejected(reason normalizer.Reason) int {
	total := 0
	for _, c := range s.Categories {
		total += c.Rejected[reason]
	}

	return total
}

// FailedCategories returns the categories skipped after a fetch failure.
func (s *Stats) FailedCategories() []string {
	var failed []string

	for _, c := range s.Categories {
		if c.Failed {
			failed = append(failed, c.Category)
		}
	}

	return failed
}

// Reasons returns every rejection reason seen in the run, sorted.
func (s *Stats) Reasons() []normalizer.Reason {
	var reasons []normalizer.Reason

	for _, c := range s.Categories {
		for r := range c.Rejected {
			if !slices.Contains(reasons, r) {
				reasons = append(reasons, r)
			}
		}
	}

	slices.Sort(reasons)

	return reasons
}

// String returns a one-line summary.
func (s *Stats) String() string {
	return fmt.Sprintf(
		"Categories: %d | Fetched: %d | Accepted: %d | Failed: %d",
		len(s.Categories),
		s.Fetched(),
		s.Accepted(),
		len(s.FailedCategories()),
	)
}
