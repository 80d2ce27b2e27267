// Package models defines the knowledge-base document and the Overpass wire types.
package models

import "alpenlodge/internal/geo"

// Rule keys inside meta.rules.
const (
	RuleRadiusKm           = "radius_km"
	RuleLinksOnlyHTTPHTTPS = "links_only_http_https"
	RuleNeverInvent        = "never_invent"
)

// InternalPrefix marks a non-dereferenceable, internal-only source.
const InternalPrefix = "INTERNAL:"

// Document is the top-level knowledge-base file.
// Field order matches the published JSON layout.
type Document struct {
	Meta       Meta                        `json:"meta"`
	Alpenlodge Lodge                       `json:"alpenlodge"`
	Sources    map[string]SourceDescriptor `json:"sources"`
	Items      []Item                      `json:"items"`
}

// Meta carries generation metadata and the publishing rules.
type Meta struct {
	Version     string         `json:"version"`
	Language    string         `json:"language"`
	GeneratedAt string         `json:"generated_at"`
	Maintainer  string         `json:"maintainer"`
	Rules       map[string]any `json:"rules"`
	Notes       []string       `json:"notes"`
}

// Lodge is the subject entity the knowledge base is built around.
type Lodge struct {
	Name      string         `json:"name"`
	Timezone  string         `json:"timezone"`
	Center    geo.Coordinate `json:"center"`
	Amenities []Amenity      `json:"amenities"`
}

// Amenity is a facility of the lodge itself.
type Amenity struct {
	Name           string `json:"name"`
	Source         string `json:"source,omitempty"`
	LastVerifiedAt string `json:"last_verified_at,omitempty"`
}

// SourceDescriptor describes an external system the document draws from.
type SourceDescriptor struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Scope string `json:"scope"`
}
