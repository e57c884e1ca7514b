package model

import "testing"

func TestNewAgentStartsSearching(t *testing.T) {
	a := NewAgent(1, RoadPos{Road: 1}, 5)
	if a.State != Searching {
		t.Fatalf("expected Searching, got %v", a.State)
	}
	if a.SearchStartTime != 5 {
		t.Fatalf("expected search start time 5, got %v", a.SearchStartTime)
	}
	if a.Generation != 0 {
		t.Fatalf("expected generation 0, got %d", a.Generation)
	}
}

func TestAgentReserveBumpsGeneration(t *testing.T) {
	a := NewAgent(1, RoadPos{}, 0)
	a.Reserve(42, 12)
	if a.State != Approaching {
		t.Fatalf("expected Approaching, got %v", a.State)
	}
	if a.AssignedResource != 42 || a.PickupTime != 12 {
		t.Fatalf("unexpected reservation fields: %+v", a)
	}
	if a.Generation != 1 {
		t.Fatalf("expected generation bumped to 1, got %d", a.Generation)
	}
}

func TestAgentFullTripCycle(t *testing.T) {
	a := NewAgent(1, RoadPos{Road: 1}, 0)
	a.Reserve(1, 10)
	a.Occupy(RoadPos{Road: 2, OffsetSecs: 0})
	if a.State != Occupied {
		t.Fatalf("expected Occupied, got %v", a.State)
	}
	a.ReturnToSearching(RoadPos{Road: 3, OffsetSecs: 0}, 100)
	if a.State != Searching {
		t.Fatalf("expected Searching, got %v", a.State)
	}
	if a.TripsCompleted != 1 {
		t.Fatalf("expected 1 trip completed, got %d", a.TripsCompleted)
	}
	if a.SearchStartTime != 100 {
		t.Fatalf("expected search clock reset to 100, got %v", a.SearchStartTime)
	}
	if a.Generation != 2 {
		t.Fatalf("expected generation 2 after reserve+return, got %d", a.Generation)
	}
}
