// Package model holds the simulator's two mutable entity kinds, Resource
// and Agent, and their lifecycle state machines. Both are referenced
// elsewhere by integer id into the registries that own them, never by
// pointer cycles: an event names a resource or agent id, and the
// registry looks up current state at dispatch time.
package model

import "fmt"

// ResourceState is a ride request's position in its lifecycle.
type ResourceState int

const (
	ResourceAnnounced ResourceState = iota
	ResourceWaiting
	ResourceAssigned
	ResourceExpired
)

func (s ResourceState) String() string {
	switch s {
	case ResourceAnnounced:
		return "Announced"
	case ResourceWaiting:
		return "Waiting"
	case ResourceAssigned:
		return "Assigned"
	case ResourceExpired:
		return "Expired"
	default:
		return fmt.Sprintf("ResourceState(%d)", int(s))
	}
}

// Resource is a ride request: a pickup and dropoff location, a fare, and
// a window of time in which it must be picked up.
type Resource struct {
	ID           int
	AnnounceTime float64
	PickupLoc    RoadPos
	DropoffLoc   RoadPos
	TripDuration float64 // seconds, pickup to dropoff, under the oracle
	Fare         float64

	MaxLifetime    float64
	ExpirationTime float64 // AnnounceTime + MaxLifetime

	State ResourceState

	// AssignedAgent is only meaningful when State == ResourceAssigned.
	AssignedAgent int
}

// RoadPos is a copy of roadnet.LocationOnRoad, kept independent of the
// roadnet package so model has no import-time dependency on how the map
// represents positions beyond the (road id, offset) pair every position
// on it reduces to.
type RoadPos struct {
	Road       int
	OffsetSecs float64
}

// NewResource builds a resource in the Announced state. Callers are
// expected to have already validated Fare > 0 and non-decreasing
// AnnounceTime elsewhere (the DataError boundary), not here.
func NewResource(id int, announceTime float64, pickup, dropoff RoadPos, tripDuration, fare, maxLifetime float64) *Resource {
	return &Resource{
		ID:             id,
		AnnounceTime:   announceTime,
		PickupLoc:      pickup,
		DropoffLoc:     dropoff,
		TripDuration:   tripDuration,
		Fare:           fare,
		MaxLifetime:    maxLifetime,
		ExpirationTime: announceTime + maxLifetime,
		State:          ResourceAnnounced,
	}
}

// RemainingLifetime returns how long, from `now`, the resource has left
// before it expires. Negative once past ExpirationTime.
func (r *Resource) RemainingLifetime(now float64) float64 {
	return r.ExpirationTime - now
}
