// Package validator checks knowledge-base documents against the Alpenlodge
// document rules and reports every violation with its location.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"alpenlodge/internal/geo"
	"alpenlodge/internal/models"
	"alpenlodge/pkg/metadata"
	"alpenlodge/pkg/utils"
)

// Document errors.
var (
	ErrUnreadable   = errors.New("document is not readable")
	ErrUnparseable  = errors.New("document is not valid JSON")
	ErrNotObject    = errors.New("document root must be an object")
	ErrEmptyPayload = errors.New("document is empty")
)

// maxValueWidth bounds the display width of offending values quoted in messages.
const maxValueWidth = 60

// TopLevelRequired lists the keys every document root must carry.
var TopLevelRequired = []string{"meta", "alpenlodge", "sources", "items"}

// ItemRequired lists the keys every item must carry, in reporting order.
var ItemRequired = []string{
	"id",
	"type",
	"name",
	"location_name",
	"lat",
	"lon",
	"summary",
	"url",
	"source",
	"status",
	"tags",
	"approx_km_road",
	"address",
	"phone",
	"opening_hours_note",
	"last_verified_at",
}

// RequiredRules lists the meta.rules flags that must be exactly true.
var RequiredRules = []string{models.RuleLinksOnlyHTTPHTTPS, models.RuleNeverInvent}

// SchemaValidator validates knowledge-base documents. It keeps no state
// between documents.
type SchemaValidator struct {
	text        *utils.StringHelper
	datePattern *regexp.Regexp
}

// NewSchemaValidator creates a new validator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		text:        utils.NewStringHelper(),
		datePattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	}
}

// ValidateFile reads and validates the document at path.
func (v *SchemaValidator) ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	return v.ValidateBytes(data)
}

// ValidateBytes parses data as JSON and validates the result. Parse failures
// and non-object roots are returned as errors, not violations.
func (v *SchemaValidator) ValidateBytes(data []byte) (*ValidationResult, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyPayload
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrUnparseable)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	doc, ok := root.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	return v.Validate(doc), nil
}

// Validate checks a decoded document. Violations are reported in check order:
// top-level keys, sources, amenities, items, meta rules.
func (v *SchemaValidator) Validate(doc map[string]any) *ValidationResult {
	res := &ValidationResult{}

	for _, key := range TopLevelRequired {
		if _, ok := doc[key]; !ok {
			res.add(key, "missing")
		}
	}

	v.validateSources(res, doc)
	v.validateAmenities(res, doc)
	v.validateItems(res, doc)
	v.validateRules(res, doc)

	return res
}

func (v *SchemaValidator) validateSources(res *ValidationResult, doc map[string]any) {
	raw, present := doc["sources"]
	if !present {
		return
	}

	sources, ok := raw.(map[string]any)
	if !ok {
		res.add("sources", "must be an object")
		return
	}

	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, key := range keys {
		res.Stats.Sources++
		path := "sources." + key

		entry, ok := sources[key].(map[string]any)
		if !ok {
			res.add(path, "must be an object")
			continue
		}

		url, present := entry["url"]
		if !present {
			res.add(path+".url", "missing")
			continue
		}

		v.checkURL(res, path+".url", url)
	}
}

func (v *SchemaValidator) validateAmenities(res *ValidationResult, doc map[string]any) {
	raw, present := doc["alpenlodge"]
	if !present {
		return
	}

	lodge, ok := raw.(map[string]any)
	if !ok {
		res.add("alpenlodge", "must be an object")
		return
	}

	rawAmenities := lodge["amenities"]
	if rawAmenities == nil {
		return
	}

	amenities, ok := rawAmenities.([]any)
	if !ok {
		res.add("alpenlodge.amenities", "must be an array")
		return
	}

	for i, a := range amenities {
		res.Stats.Amenities++
		path := fmt.Sprintf("alpenlodge.amenities[%d]", i)

		amenity, ok := a.(map[string]any)
		if !ok {
			res.add(path, "must be an object")
			continue
		}

		if src, ok := amenity["source"]; ok {
			v.checkSource(res, path+".source", src)
		}

		if date, ok := amenity["last_verified_at"]; ok {
			v.checkDate(res, path+".last_verified_at", date)
		}
	}
}

func (v *SchemaValidator) validateItems(res *ValidationResult, doc map[string]any) {
	raw, present := doc["items"]
	if !present {
		return
	}

	items, ok := raw.([]any)
	if !ok {
		res.add("items", "must be an array")
		return
	}

	seen := make(map[string]int, len(items))

	for i, it := range items {
		res.Stats.Items++
		path := fmt.Sprintf("items[%d]", i)

		item, ok := it.(map[string]any)
		if !ok {
			res.add(path, "must be an object")
			continue
		}

		for _, key := range ItemRequired {
			if _, ok := item[key]; !ok {
				res.add(path+"."+key, "missing")
			}
		}

		v.checkItem(res, path, item, seen, i)
	}
}

func (v *SchemaValidator) checkItem(res *ValidationResult, path string, item map[string]any, seen map[string]int, index int) {
	if raw, ok := item["id"]; ok {
		id, isString := raw.(string)

		switch {
		case !isString:
			res.add(path+".id", "must be a string")
		case seen[id] > 0:
			res.add(path+".id", "duplicate id %q (first seen at items[%d])", v.text.TruncateString(id, maxValueWidth), seen[id]-1)
		default:
			seen[id] = index + 1
		}
	}

	if raw, ok := item["name"]; ok {
		if name, isString := raw.(string); !isString || strings.TrimSpace(name) == "" {
			res.add(path+".name", "must be a non-empty string")
		}
	}

	if raw, ok := item["lat"]; ok {
		v.checkCoordinate(res, path+".lat", raw, geo.ValidLat, "[-90, 90]")
	}

	if raw, ok := item["lon"]; ok {
		v.checkCoordinate(res, path+".lon", raw, geo.ValidLon, "[-180, 180]")
	}

	if raw, ok := item["url"]; ok {
		v.checkURL(res, path+".url", raw)
	}

	if raw, ok := item["source"]; ok {
		v.checkSource(res, path+".source", raw)
	}

	if raw, ok := item["last_verified_at"]; ok {
		v.checkDate(res, path+".last_verified_at", raw)
	}

	if raw, ok := item["tags"]; ok {
		v.checkTags(res, path+".tags", raw)
	}

	if raw, ok := item["approx_km_road"]; ok && raw != nil {
		if _, isNumber := raw.(float64); !isNumber {
			res.add(path+".approx_km_road", "must be a number or null")
		}
	}

	for _, key := range []string{"address", "phone"} {
		if raw, ok := item[key]; ok && raw != nil {
			if _, isString := raw.(string); !isString {
				res.add(path+"."+key, "must be a string or null")
			}
		}
	}
}

func (v *SchemaValidator) validateRules(res *ValidationResult, doc map[string]any) {
	var rules map[string]any

	if raw, present := doc["meta"]; present {
		meta, ok := raw.(map[string]any)
		if !ok {
			res.add("meta", "must be an object")
		} else if rawRules, present := meta["rules"]; present {
			if rules, ok = rawRules.(map[string]any); !ok {
				res.add("meta.rules", "must be an object")
			}
		}
	}

	for _, flag := range RequiredRules {
		if value, ok := rules[flag].(bool); !ok || !value {
			res.add("meta.rules."+flag, "must be true")
		}
	}
}

func (v *SchemaValidator) checkURL(res *ValidationResult, path string, raw any) {
	s, ok := raw.(string)
	if !ok {
		res.add(path, "must be an http(s) URL")
		return
	}

	switch ParseReference(s).Kind {
	case ReferenceExternal:
	case ReferenceInternal:
		res.add(path, "internal marker %q is not a URL", v.quote(s))
	default:
		res.add(path, "must be an http(s) URL, got %q", v.quote(s))
	}
}

func (v *SchemaValidator) checkSource(res *ValidationResult, path string, raw any) {
	s, ok := raw.(string)
	if !ok {
		res.add(path, "must be a string")
		return
	}

	refs := ParseSource(s)
	if len(refs) == 0 {
		res.add(path, "must contain at least one reference")
		return
	}

	for _, ref := range refs {
		if ref.Kind == ReferenceInvalid {
			res.add(path, "invalid reference %q: expected INTERNAL:... or an http(s) URL", v.quote(ref.Value))
		}
	}
}

func (v *SchemaValidator) checkDate(res *ValidationResult, path string, raw any) {
	s, ok := raw.(string)
	if !ok || !v.datePattern.MatchString(s) {
		res.add(path, "must be a YYYY-MM-DD date")
		return
	}

	if !metadata.IsCalendarDate(s) {
		res.add(path, "%q is not a valid calendar date", s)
	}
}

func (v *SchemaValidator) checkCoordinate(res *ValidationResult, path string, raw any, inRange func(float64) bool, bounds string) {
	n, ok := raw.(float64)
	if !ok {
		res.add(path, "must be a number")
		return
	}

	if !inRange(n) {
		res.add(path, "%v outside %s", n, bounds)
	}
}

func (v *SchemaValidator) checkTags(res *ValidationResult, path string, raw any) {
	tags, ok := raw.([]any)
	if !ok {
		res.add(path, "must be an array")
		return
	}

	for i, t := range tags {
		if _, isString := t.(string); !isString {
			res.add(fmt.Sprintf("%s[%d]", path, i), "must be a string")
		}
	}
}

func (v *SchemaValidator) quote(s string) string {
	return v.text.TruncateString(s, maxValueWidth)
}
