package roadnet

import (
	"encoding/json"
	"fmt"
	"io"
)

// rawMap mirrors the on-disk JSON shape for a map file: a flat list of
// intersections and a flat list of directed roads between them. This is
// the narrow surface a real OSM/KML ingestion pipeline would produce;
// building that pipeline is out of scope here.
type rawMap struct {
	Intersections []rawIntersection `json:"intersections"`
	Roads         []rawRoad         `json:"roads"`
}

type rawIntersection struct {
	ID  int     `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type rawRoad struct {
	ID       int     `json:"id"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Duration float64 `json:"duration_seconds"`
}

// LoadFromReader decodes a map file and builds an InMemoryMap from it.
func LoadFromReader(r io.Reader) (*InMemoryMap, error) {
	var raw rawMap
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("roadnet: decode map: %w", err)
	}
	intersections := make([]Intersection, 0, len(raw.Intersections))
	for _, in := range raw.Intersections {
		intersections = append(intersections, Intersection{ID: in.ID, Lat: in.Lat, Lng: in.Lng})
	}
	roads := make([]Road, 0, len(raw.Roads))
	for _, r := range raw.Roads {
		roads = append(roads, Road{ID: r.ID, From: r.From, To: r.To, Duration: r.Duration})
	}
	return NewInMemoryMap(intersections, roads)
}
