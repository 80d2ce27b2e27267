// Package normalizer turns raw Overpass elements into canonical knowledge-base items.
package normalizer

import (
	"fmt"

	"alpenlodge/internal/geo"
	"alpenlodge/internal/models"
)

// Reason explains why an element was rejected; ReasonAccepted means it was not.
type Reason string

// Rejection reasons.
const (
	ReasonAccepted          Reason = ""
	ReasonNoCoordinate      Reason = "no_coordinate"
	ReasonInvalidCoordinate Reason = "invalid_coordinate"
	ReasonOutOfRadius       Reason = "out_of_radius"
	ReasonDuplicate         Reason = "duplicate"
	ReasonUnnamed           Reason = "unnamed"
)

// Processor normalizes elements for one ingestion run. It remembers every id it
// has emitted, so one Processor must not be shared between runs.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	seen        map[string]struct{}
	runDate     string
	radiusTag   string
}

// NewProcessor creates a processor for a run on runDate (YYYY-MM-DD).
func NewProcessor(center geo.Coordinate, radiusKm float64, runDate string) *Processor {
	return &Processor{
		validator:   NewValidator(center, radiusKm),
		transformer: NewTransformer(),
		seen:        make(map[string]struct{}),
		runDate:     runDate,
		radiusTag:   RadiusTag(radiusKm),
	}
}

// Process maps el, produced by the query for category, to a canonical item.
// It returns nil and the rejection reason when the element is not usable.
func (p *Processor) Process(el *models.Element, category string) (*models.Item, Reason) {
	coord, _, reason := p.validator.Locate(el)
	if reason != ReasonAccepted {
		return nil, reason
	}

	id := el.ItemID()
	if _, dup := p.seen[id]; dup {
		return nil, ReasonDuplicate
	}

	p.seen[id] = struct{}{}

	name, ok := p.transformer.Name(el.Tags)
	if !ok {
		return nil, ReasonUnnamed
	}

	objectURL := el.ObjectURL()

	return &models.Item{
		ID:               id,
		Type:             category,
		Name:             name,
		LocationName:     p.transformer.LocationName(el.Tags),
		Coordinate:       coord,
		Summary:          summaryText,
		URL:              p.transformer.URL(el.Tags, objectURL),
		Source:           objectURL,
		Status:           models.StatusActive,
		Tags:             []string{p.radiusTag, category},
		ApproxKmRoad:     nil,
		Address:          nil,
		Phone:            p.transformer.Phone(el.Tags),
		OpeningHoursNote: fmt.Sprintf(openingHoursTemplate, p.runDate),
		LastVerifiedAt:   p.runDate,
	}, ReasonAccepted
}

// Seen reports how many distinct ids this processor has claimed.
func (p *Processor) Seen() int {
	return len(p.seen)
}
