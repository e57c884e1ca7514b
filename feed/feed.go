// Package feed implements the Resource Feed external collaborator
// (§6): an ordered stream of raw ride requests, plus the map-matching
// step that turns each one into a model.Resource with LocationOnRoad
// positions before the kernel ever sees it. Building a real map-matcher
// against arbitrary GPS traces is out of scope; MapMatch here does the
// simplest thing that produces valid kernel input — snapping to the
// nearest intersection.
package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"ridesim/errs"
	"ridesim/model"
	"ridesim/roadnet"
)

// Record is one raw resource announcement as it comes off the feed,
// before map-matching.
type Record struct {
	AnnounceTime float64
	PickupLat    float64
	PickupLon    float64
	DropoffLat   float64
	DropoffLon   float64
	Fare         float64
}

type rawRecord struct {
	AnnounceTime float64 `json:"announce_time"`
	PickupLat    float64 `json:"pickup_lat"`
	PickupLon    float64 `json:"pickup_lon"`
	DropoffLat   float64 `json:"dropoff_lat"`
	DropoffLon   float64 `json:"dropoff_lon"`
	Fare         float64 `json:"fare"`
}

// ReadJSON decodes a JSON array of raw records, in the announce-time
// order they appear in the file. It does not validate monotonicity;
// that check happens in MapMatch, alongside the other DataError
// conditions, since both need the same "fatal during configure" moment.
func ReadJSON(r io.Reader) ([]Record, error) {
	var raw []rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errs.NewDataError("resource feed", err)
	}
	out := make([]Record, len(raw))
	for i, rr := range raw {
		out[i] = Record{
			AnnounceTime: rr.AnnounceTime,
			PickupLat:    rr.PickupLat,
			PickupLon:    rr.PickupLon,
			DropoffLat:   rr.DropoffLat,
			DropoffLon:   rr.DropoffLon,
			Fare:         rr.Fare,
		}
	}
	return out, nil
}

// MapMatch converts records into kernel-ready resources: each lat/lon
// pair snaps to its nearest intersection, trip duration comes from the
// oracle, and expiration_time is announce_time + maxLifetime. Resource
// ids are assigned in the order given, which must already be
// non-decreasing by AnnounceTime — the Resource Feed contract (§6) puts
// that ordering on the producer, so a violation here is a DataError, not
// a silent re-sort.
func MapMatch(records []Record, m *roadnet.InMemoryMap, oracle roadnet.Oracle, maxLifetime float64) ([]*model.Resource, error) {
	intersections := m.Intersections()
	if len(intersections) == 0 {
		return nil, errs.NewDataError("resource feed", fmt.Errorf("map has no intersections to match against"))
	}
	sort.Slice(intersections, func(i, j int) bool { return intersections[i].ID < intersections[j].ID })

	out := make([]*model.Resource, 0, len(records))
	lastAnnounce := math.Inf(-1)
	for i, rec := range records {
		if rec.AnnounceTime < lastAnnounce {
			return nil, errs.NewDataError("resource feed", fmt.Errorf("record %d: announce_time %v precedes previous %v", i, rec.AnnounceTime, lastAnnounce))
		}
		lastAnnounce = rec.AnnounceTime
		if rec.Fare <= 0 {
			return nil, errs.NewDataError("resource feed", fmt.Errorf("record %d: fare must be positive, got %v", i, rec.Fare))
		}
		pickupID, ok := nearest(intersections, rec.PickupLat, rec.PickupLon)
		if !ok {
			return nil, errs.NewDataError("resource feed", fmt.Errorf("record %d: pickup off the map", i))
		}
		dropoffID, ok := nearest(intersections, rec.DropoffLat, rec.DropoffLon)
		if !ok {
			return nil, errs.NewDataError("resource feed", fmt.Errorf("record %d: dropoff off the map", i))
		}
		pickupLoc, ok := m.LocationAtIntersection(pickupID)
		if !ok {
			return nil, errs.NewDataError("resource feed", fmt.Errorf("record %d: pickup intersection %d unreachable", i, pickupID))
		}
		dropoffLoc, ok := m.LocationAtIntersection(dropoffID)
		if !ok {
			return nil, errs.NewDataError("resource feed", fmt.Errorf("record %d: dropoff intersection %d unreachable", i, dropoffID))
		}
		tripDuration := oracle.TravelTime(pickupLoc, dropoffLoc)

		out = append(out, model.NewResource(
			i,
			rec.AnnounceTime,
			model.RoadPos{Road: pickupLoc.Road, OffsetSecs: pickupLoc.OffsetSecs},
			model.RoadPos{Road: dropoffLoc.Road, OffsetSecs: dropoffLoc.OffsetSecs},
			tripDuration,
			rec.Fare,
			maxLifetime,
		))
	}
	return out, nil
}

func nearest(intersections []roadnet.Intersection, lat, lon float64) (int, bool) {
	if len(intersections) == 0 {
		return 0, false
	}
	best := intersections[0]
	bestDist := haversineKm(best.Lat, best.Lng, lat, lon)
	for _, in := range intersections[1:] {
		d := haversineKm(in.Lat, in.Lng, lat, lon)
		if d < bestDist {
			bestDist = d
			best = in
		}
	}
	return best.ID, true
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const r = 6371.0088
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return r * c
}
