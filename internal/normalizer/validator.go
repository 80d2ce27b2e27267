package normalizer

import (
	"alpenlodge/internal/geo"
	"alpenlodge/internal/models"
)

// Validator screens raw elements for a usable position inside the scan radius.
type Validator struct {
	center   geo.Coordinate
	radiusKm float64
}

// NewValidator creates a validator for the given center and radius.
func NewValidator(center geo.Coordinate, radiusKm float64) *Validator {
	return &Validator{
		center:   center,
		radiusKm: radiusKm,
	}
}

// Locate returns the element's coordinate and its distance from the center, or
// a rejection reason. The query's own radius filter is not trusted: distances
// strictly greater than the radius are rejected here.
func (v *Validator) Locate(el *models.Element) (geo.Coordinate, float64, Reason) {
	coord, ok := el.Coordinate()
	if !ok {
		return geo.Coordinate{}, 0, ReasonNoCoordinate
	}

	if !coord.Valid() {
		return geo.Coordinate{}, 0, ReasonInvalidCoordinate
	}

	dist := geo.Distance(v.center, coord)
	if dist > v.radiusKm {
		return geo.Coordinate{}, dist, ReasonOutOfRadius
	}

	return coord, dist, ReasonAccepted
}
