package models

import "alpenlodge/internal/geo"

// StatusActive is the default item status.
const StatusActive = "active"

// Item is one canonical POI record of the knowledge base.
// Field order matches the published JSON layout.
type Item struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	LocationName string `json:"location_name"`
	geo.Coordinate
	Summary          string   `json:"summary"`
	URL              string   `json:"url"`
	Source           string   `json:"source"`
	Status           string   `json:"status"`
	Tags             []string `json:"tags"`
	ApproxKmRoad     *float64 `json:"approx_km_road"`
	Address          *string  `json:"address"`
	Phone            *string  `json:"phone"`
	OpeningHoursNote string   `json:"opening_hours_note"`
	LastVerifiedAt   string   `json:"last_verified_at"`
}
