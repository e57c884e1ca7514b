package feed

import (
	"strings"
	"testing"

	"ridesim/roadnet"
)

func testMap(t *testing.T) *roadnet.InMemoryMap {
	t.Helper()
	m, err := roadnet.NewInMemoryMap(
		[]roadnet.Intersection{
			{ID: 1, Lat: 0, Lng: 0},
			{ID: 2, Lat: 0, Lng: 1},
		},
		[]roadnet.Road{
			{ID: 1, From: 1, To: 2, Duration: 60},
			{ID: 2, From: 2, To: 1, Duration: 60},
		},
	)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	return m
}

func TestReadJSONDecodesRecords(t *testing.T) {
	const doc = `[{"announce_time": 1, "pickup_lat": 0, "pickup_lon": 0, "dropoff_lat": 0, "dropoff_lon": 1, "fare": 12.5}]`
	records, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].Fare != 12.5 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestMapMatchSnapsToNearestIntersection(t *testing.T) {
	m := testMap(t)
	oracle := roadnet.NewDirectOracle(m)
	records := []Record{
		{AnnounceTime: 0, PickupLat: 0.001, PickupLon: 0.001, DropoffLat: 0.001, DropoffLon: 0.999, Fare: 10},
	}
	resources, err := MapMatch(records, m, oracle, 300)
	if err != nil {
		t.Fatalf("map-match: %v", err)
	}
	if len(resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resources))
	}
	if resources[0].ExpirationTime != 300 {
		t.Fatalf("expected expiration time 300, got %v", resources[0].ExpirationTime)
	}
	// Pickup snaps to intersection 1 (start of road 1), dropoff to
	// intersection 2 (start of road 2).
	if resources[0].PickupLoc.Road != 1 || resources[0].PickupLoc.OffsetSecs != 0 {
		t.Fatalf("expected pickup at {road 1, offset 0}, got %+v", resources[0].PickupLoc)
	}
	if resources[0].DropoffLoc.Road != 2 || resources[0].DropoffLoc.OffsetSecs != 0 {
		t.Fatalf("expected dropoff at {road 2, offset 0}, got %+v", resources[0].DropoffLoc)
	}
}

func TestMapMatchRejectsNonMonotonicAnnounceTime(t *testing.T) {
	m := testMap(t)
	oracle := roadnet.NewDirectOracle(m)
	records := []Record{
		{AnnounceTime: 10, PickupLat: 0, PickupLon: 0, DropoffLat: 0, DropoffLon: 1, Fare: 5},
		{AnnounceTime: 5, PickupLat: 0, PickupLon: 0, DropoffLat: 0, DropoffLon: 1, Fare: 5},
	}
	if _, err := MapMatch(records, m, oracle, 300); err == nil {
		t.Fatal("expected a DataError for non-monotonic announce times")
	}
}

func TestMapMatchRejectsNonPositiveFare(t *testing.T) {
	m := testMap(t)
	oracle := roadnet.NewDirectOracle(m)
	records := []Record{{AnnounceTime: 0, Fare: 0}}
	if _, err := MapMatch(records, m, oracle, 300); err == nil {
		t.Fatal("expected a DataError for a non-positive fare")
	}
}
