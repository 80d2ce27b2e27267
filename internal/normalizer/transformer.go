package normalizer

import (
	"strconv"
	"strings"

	"alpenlodge/pkg/utils"
)

// Tag precedence lists, highest priority first.
var (
	nameKeys     = []string{"name", "brand", "operator"}
	locationKeys = []string{"addr:city", "addr:place", "addr:suburb"}
	websiteKeys  = []string{"website", "contact:website"}
	phoneKeys    = []string{"phone", "contact:phone"}
)

// Fixed German texts of the published knowledge base.
const (
	summaryText          = "Quelle: OpenStreetMap (Details siehe Link)."
	openingHoursTemplate = "Öffnungszeiten siehe Website/OSM (Stand %s)."
)

// Transformer derives canonical item fields from free-form OSM tags.
type Transformer struct {
	text *utils.StringHelper
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		text: utils.NewStringHelper(),
	}
}

// lookup returns the first candidate key whose normalized value is non-empty.
func (t *Transformer) lookup(tags map[string]string, keys []string) (string, bool) {
	for _, k := range keys {
		if v := t.text.NormalizeText(tags[k]); v != "" {
			return v, true
		}
	}

	return "", false
}

// Name returns the display name by name, brand, then operator.
func (t *Transformer) Name(tags map[string]string) (string, bool) {
	return t.lookup(tags, nameKeys)
}

// LocationName returns city, place, then suburb; empty when none is tagged.
func (t *Transformer) LocationName(tags map[string]string) string {
	v, _ := t.lookup(tags, locationKeys)

	return v
}

// URL returns the first tagged website that is an http(s) link, otherwise fallback.
func (t *Transformer) URL(tags map[string]string, fallback string) string {
	for _, k := range websiteKeys {
		if v := strings.TrimSpace(tags[k]); utils.IsHTTPURL(v) {
			return v
		}
	}

	return fallback
}

// Phone returns the tagged phone number or nil.
func (t *Transformer) Phone(tags map[string]string) *string {
	v, ok := t.lookup(tags, phoneKeys)
	if !ok {
		return nil
	}

	return &v
}

// RadiusTag renders the radius marker tag, e.g. "within_50km".
func RadiusTag(radiusKm float64) string {
	return "within_" + strconv.FormatFloat(radiusKm, 'f', -1, 64) + "km"
}
