package models

import (
	"fmt"

	"alpenlodge/internal/geo"
)

// Overpass element kinds.
const (
	KindNode     = "node"
	KindWay      = "way"
	KindRelation = "relation"
)

// OSMBaseURL is the OpenStreetMap site every object page lives under.
const OSMBaseURL = "https://www.openstreetmap.org"

// OverpassResponse is the JSON body returned by an Overpass interpreter.
type OverpassResponse struct {
	Remark   string    `json:"remark,omitempty"`
	Elements []Element `json:"elements"`
}

// Element is a raw OSM object as returned with "out center tags".
type Element struct {
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Point            `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
}

// Point is an optional lat/lon pair; either side may be absent on the wire.
type Point struct {
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

// Coordinate returns the element's own coordinate for nodes, the representative
// center for ways and relations, and false when neither is available.
func (e *Element) Coordinate() (geo.Coordinate, bool) {
	if e.Type == KindNode && e.Lat != nil && e.Lon != nil {
		return geo.Coordinate{Lat: *e.Lat, Lon: *e.Lon}, true
	}

	if e.Center != nil && e.Center.Lat != nil && e.Center.Lon != nil {
		return geo.Coordinate{Lat: *e.Center.Lat, Lon: *e.Center.Lon}, true
	}

	return geo.Coordinate{}, false
}

// ItemID derives the stable knowledge-base id for the element.
func (e *Element) ItemID() string {
	return fmt.Sprintf("osm_%s_%d", e.Type, e.ID)
}

// ObjectURL returns the element's page on openstreetmap.org.
func (e *Element) ObjectURL() string {
	switch e.Type {
	case KindNode, KindWay, KindRelation:
		return fmt.Sprintf("%s/%s/%d", OSMBaseURL, e.Type, e.ID)
	default:
		return OSMBaseURL + "/"
	}
}
