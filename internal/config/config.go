// Package config provides configuration management for the POI scanner.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"alpenlodge/internal/geo"
	"alpenlodge/internal/models"
)

// Defaults applied to optional scan config fields.
const (
	DefaultMaintainer     = "ALPENLODGE-Team"
	DefaultLanguage       = "de"
	DefaultLodgeName      = "ALPENLODGE"
	DefaultMaxPerCategory = 2000
)

// Configuration validation errors.
var (
	ErrMissingKeys             = errors.New("missing required config keys")
	ErrNotAnObject             = errors.New("config top level must be an object")
	ErrInvalidCenter           = errors.New("center must be a valid lat/lon coordinate")
	ErrInvalidRadius           = errors.New("meta.rules.radius_km must be a positive number")
	ErrRulesNotTrue            = errors.New("publishing rule flag must be true")
	ErrNoCategories            = errors.New("at least one osm category is required")
	ErrCategoryMissingType     = errors.New("osm category type is required")
	ErrCategoryMissingValues   = errors.New("osm category needs at least one value")
	ErrCategoryEmptyValue      = errors.New("osm category values must be non-empty")
	ErrInvalidMaxPerCategory   = errors.New("advanced.max_per_category must be non-negative")
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")
)

// RequiredKeys lists the dotted paths every scan config must carry.
var RequiredKeys = []string{
	"center.lat",
	"center.lon",
	"meta.rules.radius_km",
	"meta.timezone",
	"meta.version",
	"meta.notes",
	"osm_categories",
}

// RequiredRules lists the meta.rules flags a scan config must set to true.
// They are copied into every generated document.
var RequiredRules = []string{models.RuleLinksOnlyHTTPHTTPS, models.RuleNeverInvent}

// ScanConfig represents the complete scanner configuration.
type ScanConfig struct {
	Center     geo.Coordinate `json:"center" yaml:"center"`
	Meta       MetaConfig     `json:"meta" yaml:"meta"`
	Alpenlodge LodgeConfig    `json:"alpenlodge" yaml:"alpenlodge"`
	Categories []Category     `json:"osm_categories" yaml:"osm_categories"`
	Advanced   AdvancedConfig `json:"advanced" yaml:"advanced"`
}

// MetaConfig is echoed into the output document's meta section.
type MetaConfig struct {
	Rules      map[string]any `json:"rules" yaml:"rules"`
	Version    string         `json:"version" yaml:"version"`
	Timezone   string         `json:"timezone" yaml:"timezone"`
	Maintainer string         `json:"maintainer" yaml:"maintainer"`
	Language   string         `json:"language" yaml:"language"`
	Notes      []string       `json:"notes" yaml:"notes"`
}

// LodgeConfig describes the subject entity.
type LodgeConfig struct {
	Name string `json:"name" yaml:"name"`
}

// Category is one Overpass query category: a tag key and the accepted values.
type Category struct {
	Type   string   `json:"type" yaml:"type"`
	Values []string `json:"values" yaml:"values"`
}

// AdvancedConfig contains advanced settings.
type AdvancedConfig struct {
	MaxPerCategory       int  `json:"max_per_category" yaml:"max_per_category"`
	ContinueOnFetchError bool `json:"continue_on_fetch_error" yaml:"continue_on_fetch_error"`
}

// LoadScanConfig loads a scan configuration from a JSON or YAML file.
// Missing required keys are reported together before any typed decoding.
func LoadScanConfig(path string) (*ScanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseScanConfig(data, formatFor(path))
}

// ParseScanConfig parses raw config bytes in the given format ("json" or "yaml").
func ParseScanConfig(data []byte, format string) (*ScanConfig, error) {
	var tree any
	if err := unmarshal(data, format, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	root, ok := tree.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}

	if missing := MissingKeys(root); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingKeys, strings.Join(missing, ", "))
	}

	var cfg ScanConfig
	if err := unmarshal(data, format, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MissingKeys returns every RequiredKeys path absent from root, in declaration order.
func MissingKeys(root map[string]any) []string {
	var missing []string

	for _, key := range RequiredKeys {
		if !hasPath(root, strings.Split(key, ".")) {
			missing = append(missing, key)
		}
	}

	return missing
}

func hasPath(node map[string]any, parts []string) bool {
	v, ok := node[parts[0]]
	if !ok {
		return false
	}

	if len(parts) == 1 {
		return true
	}

	child, ok := v.(map[string]any)
	if !ok {
		return false
	}

	return hasPath(child, parts[1:])
}

// ApplyDefaults fills optional fields.
func (c *ScanConfig) ApplyDefaults() {
	if c.Meta.Maintainer == "" {
		c.Meta.Maintainer = DefaultMaintainer
	}

	if c.Meta.Language == "" {
		c.Meta.Language = DefaultLanguage
	}

	if c.Alpenlodge.Name == "" {
		c.Alpenlodge.Name = DefaultLodgeName
	}

	if c.Advanced.MaxPerCategory == 0 {
		c.Advanced.MaxPerCategory = DefaultMaxPerCategory
	}
}

// Validate validates the configuration.
func (c *ScanConfig) Validate() error {
	if !c.Center.Valid() {
		return ErrInvalidCenter
	}

	radius, ok := c.RadiusKm()
	if !ok || radius <= 0 {
		return ErrInvalidRadius
	}

	for _, flag := range RequiredRules {
		if v, ok := c.Meta.Rules[flag].(bool); !ok || !v {
			return fmt.Errorf("%w: meta.rules.%s", ErrRulesNotTrue, flag)
		}
	}

	if len(c.Categories) == 0 {
		return ErrNoCategories
	}

	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Type) == "" {
			return fmt.Errorf("%w: osm_categories[%d]", ErrCategoryMissingType, i)
		}

		if len(cat.Values) == 0 {
			return fmt.Errorf("%w: osm_categories[%d]", ErrCategoryMissingValues, i)
		}

		for j, v := range cat.Values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: osm_categories[%d].values[%d]", ErrCategoryEmptyValue, i, j)
			}
		}
	}

	if c.Advanced.MaxPerCategory < 0 {
		return ErrInvalidMaxPerCategory
	}

	return nil
}

// RadiusKm returns meta.rules.radius_km as a float, and false when it is absent
// or not numeric.
func (c *ScanConfig) RadiusKm() (float64, bool) {
	return toFloat(c.Meta.Rules[models.RuleRadiusKm])
}

// String returns a string representation of the config.
func (c *ScanConfig) String() string {
	radius, _ := c.RadiusKm()

	return fmt.Sprintf(
		"ScanConfig{Center: %.5f,%.5f, RadiusKm: %g, Categories: %d, Version: %s}",
		c.Center.Lat,
		c.Center.Lon,
		radius,
		len(c.Categories),
		c.Meta.Version,
	)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func unmarshal(data []byte, format string, v any) error {
	switch format {
	case "json":
		return json.Unmarshal(data, v)
	case "yaml":
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, format)
	}
}
