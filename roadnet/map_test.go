package roadnet

import "testing"

func sampleGraph() ([]Intersection, []Road) {
	return []Intersection{
			{ID: 1, Lat: 0, Lng: 0},
			{ID: 2, Lat: 0, Lng: 1},
		}, []Road{
			{ID: 1, From: 1, To: 2, Duration: 60},
		}
}

func TestNewInMemoryMapRejectsUnknownFrom(t *testing.T) {
	intersections, _ := sampleGraph()
	_, err := NewInMemoryMap(intersections, []Road{{ID: 9, From: 99, To: 1, Duration: 10}})
	if err == nil {
		t.Fatal("expected an error for an unknown from-intersection")
	}
}

func TestNewInMemoryMapRejectsNonPositiveDuration(t *testing.T) {
	intersections, _ := sampleGraph()
	_, err := NewInMemoryMap(intersections, []Road{{ID: 1, From: 1, To: 2, Duration: 0}})
	if err == nil {
		t.Fatal("expected an error for a non-positive duration")
	}
}

func TestRoadsFromReturnsOutgoingRoadsOnly(t *testing.T) {
	intersections, roads := sampleGraph()
	m, err := NewInMemoryMap(intersections, roads)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	if got := m.RoadsFrom(1); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected one outgoing road from 1, got %v", got)
	}
	if got := m.RoadsFrom(2); len(got) != 0 {
		t.Fatalf("expected no outgoing roads from 2, got %v", got)
	}
}

func TestLocationAtIntersectionDeadEndUsesIncomingRoad(t *testing.T) {
	intersections, roads := sampleGraph()
	m, err := NewInMemoryMap(intersections, roads)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	loc, ok := m.LocationAtIntersection(2)
	if !ok {
		t.Fatal("expected a location at the dead end")
	}
	if loc.Road != 1 || loc.OffsetSecs != 60 {
		t.Fatalf("expected {road 1, offset 60}, got %+v", loc)
	}
	if !loc.AtIntersection() {
		t.Fatalf("expected a zero-offset location to report AtIntersection")
	}
}

func TestForStrategyIsReadOnly(t *testing.T) {
	intersections, roads := sampleGraph()
	m, err := NewInMemoryMap(intersections, roads)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	view := m.ForStrategy()
	if _, ok := view.(*InMemoryMap); ok {
		t.Fatal("ForStrategy must not expose the concrete mutable map type")
	}
	if got := view.RoadsFrom(1); len(got) != 1 {
		t.Fatalf("expected the read-only view to answer the same queries, got %v", got)
	}
}

func TestDirectOracleSameRoadIsOffsetDifference(t *testing.T) {
	intersections, roads := sampleGraph()
	m, err := NewInMemoryMap(intersections, roads)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	o := NewDirectOracle(m)
	got := o.TravelTime(LocationOnRoad{Road: 1, OffsetSecs: 10}, LocationOnRoad{Road: 1, OffsetSecs: 40})
	if got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
}
