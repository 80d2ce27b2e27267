package validator

import (
	"strings"

	"alpenlodge/internal/models"
	"alpenlodge/pkg/utils"
)

// ReferenceKind tags a parsed source reference.
type ReferenceKind int

// Reference kinds.
const (
	ReferenceInvalid ReferenceKind = iota
	ReferenceInternal
	ReferenceExternal
)

// String returns the kind name.
func (k ReferenceKind) String() string {
	switch k {
	case ReferenceInternal:
		return "internal"
	case ReferenceExternal:
		return "external"
	default:
		return "invalid"
	}
}

// Reference is one segment of a source field: an INTERNAL: marker or an
// http(s) URL.
type Reference struct {
	Value string
	Kind  ReferenceKind
}

// ParseReference classifies a single trimmed reference.
func ParseReference(s string) Reference {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, models.InternalPrefix):
		return Reference{Kind: ReferenceInternal, Value: s}
	case utils.IsHTTPURL(s):
		return Reference{Kind: ReferenceExternal, Value: s}
	default:
		return Reference{Kind: ReferenceInvalid, Value: s}
	}
}

// ParseSource splits a source field on "|" and parses every non-empty segment.
func ParseSource(s string) []Reference {
	var refs []Reference

	for _, part := range strings.Split(s, "|") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		refs = append(refs, ParseReference(part))
	}

	return refs
}
