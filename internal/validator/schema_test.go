package validator

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validDocument returns a fresh, fully valid document.
func validDocument() map[string]any {
	return map[string]any{
		"meta": map[string]any{
			"version":      "osm-dump-1",
			"language":     "de",
			"generated_at": "2026-03-01T10:00:00+01:00",
			"rules": map[string]any{
				"radius_km":             50.0,
				"links_only_http_https": true,
				"never_invent":          true,
			},
		},
		"alpenlodge": map[string]any{
			"name": "ALPENLODGE",
			"amenities": []any{
				map[string]any{"name": "Sauna", "source": "INTERNAL:house-rules", "last_verified_at": "2026-02-01"},
			},
		},
		"sources": map[string]any{
			"osm":      map[string]any{"label": "OpenStreetMap", "url": "https://www.openstreetmap.org"},
			"overpass": map[string]any{"label": "Overpass API", "url": "https://overpass-api.de/"},
		},
		"items": []any{validItem("osm_node_1"), validItem("osm_node_2")},
	}
}

func validItem(id string) map[string]any {
	return map[string]any{
		"id":                 id,
		"type":               "amenity",
		"name":               "Gasthof Post",
		"location_name":      "Kufstein",
		"lat":                47.1,
		"lon":                11.2,
		"summary":            "Quelle: OpenStreetMap (Details siehe Link).",
		"url":                "https://www.openstreetmap.org/node/1",
		"source":             "https://www.openstreetmap.org/node/1",
		"status":             "active",
		"tags":               []any{"within_50km", "amenity"},
		"approx_km_road":     nil,
		"address":            nil,
		"phone":              "+43 5372 1234",
		"opening_hours_note": "Öffnungszeiten siehe Website/OSM (Stand 2026-03-01).",
		"last_verified_at":   "2026-03-01",
	}
}

func itemAt(doc map[string]any, i int) map[string]any {
	return doc["items"].([]any)[i].(map[string]any)
}

func TestSchemaValidator_ValidDocument(t *testing.T) {
	res := NewSchemaValidator().Validate(validDocument())

	assert.True(t, res.IsValid(), "unexpected violations: %v", res.Messages())
	assert.Equal(t, 2, res.Stats.Items)
	assert.Equal(t, 2, res.Stats.Sources)
	assert.Equal(t, 1, res.Stats.Amenities)
}

func TestSchemaValidator_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		want   []string
	}{
		{
			name:   "internal marker as url",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["url"] = "INTERNAL:foo" },
			want:   []string{`items[0].url: internal marker "INTERNAL:foo" is not a URL`},
		},
		{
			name:   "impossible calendar date",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["last_verified_at"] = "2024-13-40" },
			want:   []string{`items[0].last_verified_at: "2024-13-40" is not a valid calendar date`},
		},
		{
			name:   "malformed date",
			mutate: func(doc map[string]any) { itemAt(doc, 1)["last_verified_at"] = "1.3.2026" },
			want:   []string{"items[1].last_verified_at: must be a YYYY-MM-DD date"},
		},
		{
			name:   "duplicate id",
			mutate: func(doc map[string]any) { itemAt(doc, 1)["id"] = "osm_node_1" },
			want:   []string{`items[1].id: duplicate id "osm_node_1" (first seen at items[0])`},
		},
		{
			name:   "missing required field",
			mutate: func(doc map[string]any) { delete(itemAt(doc, 0), "phone") },
			want:   []string{"items[0].phone: missing"},
		},
		{
			name:   "latitude out of range",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["lat"] = 91.0 },
			want:   []string{"items[0].lat: 91 outside [-90, 90]"},
		},
		{
			name:   "non-numeric coordinate",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["lon"] = "11.2" },
			want:   []string{"items[0].lon: must be a number"},
		},
		{
			name: "lat out of range with non-numeric lon",
			mutate: func(doc map[string]any) {
				itemAt(doc, 0)["lat"] = 100.0
				itemAt(doc, 0)["lon"] = "11"
			},
			want: []string{"items[0].lat: 100 outside [-90, 90]", "items[0].lon: must be a number"},
		},
		{
			name:   "longitude out of range",
			mutate: func(doc map[string]any) { itemAt(doc, 1)["lon"] = -180.5 },
			want:   []string{"items[1].lon: -180.5 outside [-180, 180]"},
		},
		{
			name:   "source with bad segment",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["source"] = "INTERNAL:desk | ftp://x.example" },
			want:   []string{`items[0].source: invalid reference "ftp://x.example": expected INTERNAL:... or an http(s) URL`},
		},
		{
			name:   "source without references",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["source"] = " | " },
			want:   []string{"items[0].source: must contain at least one reference"},
		},
		{
			name:   "blank name",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["name"] = "  " },
			want:   []string{"items[0].name: must be a non-empty string"},
		},
		{
			name:   "non-string tag",
			mutate: func(doc map[string]any) { itemAt(doc, 0)["tags"] = []any{"ok", 3.0} },
			want:   []string{"items[0].tags[1]: must be a string"},
		},
		{
			name:   "source descriptor without url",
			mutate: func(doc map[string]any) { delete(doc["sources"].(map[string]any)["osm"].(map[string]any), "url") },
			want:   []string{"sources.osm.url: missing"},
		},
		{
			name: "amenity with plain text source",
			mutate: func(doc map[string]any) {
				doc["alpenlodge"].(map[string]any)["amenities"].([]any)[0].(map[string]any)["source"] = "reception"
			},
			want: []string{`alpenlodge.amenities[0].source: invalid reference "reception": expected INTERNAL:... or an http(s) URL`},
		},
		{
			name: "rule flag false",
			mutate: func(doc map[string]any) {
				doc["meta"].(map[string]any)["rules"].(map[string]any)["never_invent"] = false
			},
			want: []string{"meta.rules.never_invent: must be true"},
		},
		{
			name: "rule flag truthy string",
			mutate: func(doc map[string]any) {
				doc["meta"].(map[string]any)["rules"].(map[string]any)["links_only_http_https"] = "true"
			},
			want: []string{"meta.rules.links_only_http_https: must be true"},
		},
		{
			name:   "items not an array",
			mutate: func(doc map[string]any) { doc["items"] = map[string]any{} },
			want:   []string{"items: must be an array"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			res := NewSchemaValidator().Validate(doc)
			assert.Equal(t, tt.want, res.Messages())
		})
	}
}

func TestSchemaValidator_MissingTopLevel(t *testing.T) {
	res := NewSchemaValidator().Validate(map[string]any{})

	assert.Equal(t, []string{
		"meta: missing",
		"alpenlodge: missing",
		"sources: missing",
		"items: missing",
		"meta.rules.links_only_http_https: must be true",
		"meta.rules.never_invent: must be true",
	}, res.Messages())
}

func TestSchemaValidator_CheckOrder(t *testing.T) {
	doc := validDocument()
	doc["sources"].(map[string]any)["zeta"] = "not an object"
	doc["sources"].(map[string]any)["alpha"] = map[string]any{"url": "INTERNAL:x"}
	itemAt(doc, 0)["url"] = "mailto:info@example.com"
	doc["meta"].(map[string]any)["rules"].(map[string]any)["links_only_http_https"] = false

	res := NewSchemaValidator().Validate(doc)

	assert.Equal(t, []string{
		`sources.alpha.url: internal marker "INTERNAL:x" is not a URL`,
		"sources.zeta: must be an object",
		`items[0].url: must be an http(s) URL, got "mailto:info@example.com"`,
		"meta.rules.links_only_http_https: must be true",
	}, res.Messages())
}

func TestSchemaValidator_Deterministic(t *testing.T) {
	doc := validDocument()
	itemAt(doc, 0)["url"] = "nope"
	itemAt(doc, 1)["lat"] = -100.0

	v := NewSchemaValidator()
	first := v.Validate(doc).Messages()

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, v.Validate(doc).Messages())
	}
}

func TestSchemaValidator_TruncatesLongValues(t *testing.T) {
	doc := validDocument()
	itemAt(doc, 0)["url"] = "ftp://" + strings.Repeat("x", 200)

	res := NewSchemaValidator().Validate(doc)
	require.Len(t, res.Violations, 1)
	assert.Contains(t, res.Violations[0].Message, "...")
	assert.Less(t, len(res.Violations[0].Message), 120)
}

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	v := NewSchemaValidator()

	data, err := json.Marshal(validDocument())
	require.NoError(t, err)

	res, err := v.ValidateBytes(data)
	require.NoError(t, err)
	assert.True(t, res.IsValid())

	_, err = v.ValidateBytes([]byte("{not json"))
	require.ErrorIs(t, err, ErrUnparseable)

	_, err = v.ValidateBytes([]byte("[1, 2]"))
	require.ErrorIs(t, err, ErrNotObject)

	_, err = v.ValidateBytes([]byte("{\"meta\": \"Br\xe4u\"}"))
	require.ErrorIs(t, err, ErrUnparseable, "Latin-1 bytes are not UTF-8")

	_, err = v.ValidateBytes([]byte("  \n"))
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	v := NewSchemaValidator()

	_, err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, ErrUnreadable)

	path := filepath.Join(t.TempDir(), "kb.json")
	data, err := json.Marshal(validDocument())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	res, err := v.ValidateFile(path)
	require.NoError(t, err)
	assert.True(t, res.IsValid())
}

func TestValidationResult_Print(t *testing.T) {
	var buf bytes.Buffer

	ok := &ValidationResult{}
	require.NoError(t, ok.Print(&buf))
	assert.Equal(t, "OK: document is valid.\n", buf.String())

	buf.Reset()

	failed := &ValidationResult{}
	failed.add("items[0].url", "must be an http(s) URL")
	failed.add("meta.rules.never_invent", "must be true")
	require.NoError(t, failed.Print(&buf))
	assert.Equal(t, "VALIDATION FAILED:\n"+
		" - items[0].url: must be an http(s) URL\n"+
		" - meta.rules.never_invent: must be true\n", buf.String())
	assert.Contains(t, failed.String(), "INVALID")
}
