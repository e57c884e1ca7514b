// Package roadnet models the road network the simulator runs over: a
// directed graph of intersections and roads, plus the narrow read-only
// views the kernel hands to external collaborators (the travel-time
// oracle and the agent search strategy).
//
// Building a road network from real map data (OSM/KML ingestion, polygon
// clipping, map-matching of raw trip records) is explicitly out of scope
// for this package; it only defines the shapes those external builders
// must produce and ships one small in-memory implementation good enough
// to run tests and demos against.
package roadnet

import (
	"fmt"
	"math"
)

// Intersection is a stable node in the road graph. Immutable after the
// map is built.
type Intersection struct {
	ID  int
	Lat float64
	Lng float64
}

// Road is a directed edge from Intersection From to Intersection To,
// with a fixed traversal duration in seconds. Immutable after the map is
// built.
type Road struct {
	ID       int
	From     int
	To       int
	Duration float64 // seconds, at full speed
}

// LocationOnRoad is a point along a Road, expressed as the travel time
// already elapsed from the road's start intersection. Every position the
// kernel reasons about is expressed this way; it never carries raw
// coordinates itself.
type LocationOnRoad struct {
	Road       int
	OffsetSecs float64
}

// AtIntersection reports whether the location sits exactly on the road's
// start intersection.
func (l LocationOnRoad) AtIntersection() bool { return l.OffsetSecs == 0 }

// Map is the narrow, read-only surface the kernel and its collaborators
// use. A concrete Map value's identity never changes after construction: no
// method here can mutate it.
type Map interface {
	Intersections() []Intersection
	Intersection(id int) (Intersection, bool)
	RoadsFrom(intersectionID int) []Road
	Road(id int) (Road, bool)
	// LocationAtIntersection is a convenience for placing an agent or
	// resource exactly at a node: it returns a LocationOnRoad on some
	// outgoing road of the intersection with a zero offset, or an
	// incoming road at full offset if the intersection has no outgoing
	// roads (a dead end).
	LocationAtIntersection(intersectionID int) (LocationOnRoad, bool)
}

// Oracle answers travel-time queries between two positions on the map.
// Implementations may use all-pairs shortest paths, live routing, or
// (as in InMemoryMap's DirectOracle) a straight-line approximation; the
// kernel only ever depends on this interface.
type Oracle interface {
	TravelTime(from, to LocationOnRoad) float64
}

// InMemoryMap is a small, concrete Map good enough for tests and
// standalone demos. It is not a substitute for a production map
// builder — it is the reference implementation behind the narrow
// interface above.
type InMemoryMap struct {
	intersections map[int]Intersection
	roadsFrom     map[int][]Road
	roads         map[int]Road
}

// NewInMemoryMap builds a map from the given intersections and roads.
// Roads referencing an unknown intersection are rejected.
func NewInMemoryMap(intersections []Intersection, roads []Road) (*InMemoryMap, error) {
	m := &InMemoryMap{
		intersections: make(map[int]Intersection, len(intersections)),
		roadsFrom:     make(map[int][]Road),
		roads:         make(map[int]Road, len(roads)),
	}
	for _, in := range intersections {
		m.intersections[in.ID] = in
	}
	for _, r := range roads {
		if _, ok := m.intersections[r.From]; !ok {
			return nil, fmt.Errorf("road %d: unknown from-intersection %d", r.ID, r.From)
		}
		if _, ok := m.intersections[r.To]; !ok {
			return nil, fmt.Errorf("road %d: unknown to-intersection %d", r.ID, r.To)
		}
		if r.Duration <= 0 {
			return nil, fmt.Errorf("road %d: non-positive duration %v", r.ID, r.Duration)
		}
		m.roads[r.ID] = r
		m.roadsFrom[r.From] = append(m.roadsFrom[r.From], r)
	}
	return m, nil
}

func (m *InMemoryMap) Intersections() []Intersection {
	out := make([]Intersection, 0, len(m.intersections))
	for _, in := range m.intersections {
		out = append(out, in)
	}
	return out
}

func (m *InMemoryMap) Intersection(id int) (Intersection, bool) {
	in, ok := m.intersections[id]
	return in, ok
}

func (m *InMemoryMap) RoadsFrom(intersectionID int) []Road {
	rs := m.roadsFrom[intersectionID]
	out := make([]Road, len(rs))
	copy(out, rs)
	return out
}

func (m *InMemoryMap) Road(id int) (Road, bool) {
	r, ok := m.roads[id]
	return r, ok
}

func (m *InMemoryMap) LocationAtIntersection(intersectionID int) (LocationOnRoad, bool) {
	if _, ok := m.intersections[intersectionID]; !ok {
		return LocationOnRoad{}, false
	}
	if rs := m.roadsFrom[intersectionID]; len(rs) > 0 {
		return LocationOnRoad{Road: rs[0].ID, OffsetSecs: 0}, true
	}
	// Dead end: look for an incoming road and sit at its far end.
	for _, r := range m.roads {
		if r.To == intersectionID {
			return LocationOnRoad{Road: r.ID, OffsetSecs: r.Duration}, true
		}
	}
	return LocationOnRoad{}, false
}

// ForStrategy returns a read-only view of m suitable for handing to an
// external search strategy. The concrete type behind the returned Map is
// unexported, so a strategy cannot type-assert its way back to a mutable
// map even if m itself is later extended with mutating methods.
func (m *InMemoryMap) ForStrategy() Map {
	return &readOnlyMap{m}
}

type readOnlyMap struct {
	m *InMemoryMap
}

func (r *readOnlyMap) Intersections() []Intersection { return r.m.Intersections() }
func (r *readOnlyMap) Intersection(id int) (Intersection, bool) {
	return r.m.Intersection(id)
}
func (r *readOnlyMap) RoadsFrom(id int) []Road { return r.m.RoadsFrom(id) }
func (r *readOnlyMap) Road(id int) (Road, bool) { return r.m.Road(id) }
func (r *readOnlyMap) LocationAtIntersection(id int) (LocationOnRoad, bool) {
	return r.m.LocationAtIntersection(id)
}

// DirectOracle answers TravelTime for two locations on the same road with
// their offset difference (0 when the target lies behind the origin).
// For locations on different roads it adds the time left on the origin
// road, a straight-line haversine estimate at FallbackKmh from that
// road's end intersection to the target road's start intersection, and
// the target's offset. It is a reference oracle for tests and demos, not a
// precomputed all-pairs shortest-path table (that precomputation is an
// out-of-scope external collaborator per the map-building boundary
// above).
type DirectOracle struct {
	M           *InMemoryMap
	FallbackKmh float64 // speed assumed for straight-line fallback
}

func NewDirectOracle(m *InMemoryMap) *DirectOracle {
	return &DirectOracle{M: m, FallbackKmh: 30}
}

func (o *DirectOracle) TravelTime(from, to LocationOnRoad) float64 {
	if from.Road == to.Road {
		d := to.OffsetSecs - from.OffsetSecs
		if d < 0 {
			d = 0
		}
		return d
	}
	fr, ok1 := o.M.Road(from.Road)
	tr, ok2 := o.M.Road(to.Road)
	if !ok1 || !ok2 {
		return 0
	}
	remaining := fr.Duration - from.OffsetSecs
	if remaining < 0 {
		remaining = 0
	}
	fromEnd, _ := o.M.Intersection(fr.To)
	toStart, _ := o.M.Intersection(tr.From)
	straight := haversineSeconds(fromEnd, toStart, o.FallbackKmh)
	return remaining + straight + to.OffsetSecs
}

func haversineSeconds(a, b Intersection, kmh float64) float64 {
	const rEarthKm = 6371.0088
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(la1)*math.Cos(la2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	km := rEarthKm * c
	if kmh <= 0 {
		kmh = 30
	}
	hours := km / kmh
	return hours * 3600
}
