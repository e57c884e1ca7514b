package model

import "fmt"

// AgentState is a driver's position in its Searching/Approaching/Occupied
// cycle.
type AgentState int

const (
	Searching AgentState = iota
	Approaching
	Occupied
)

func (s AgentState) String() string {
	switch s {
	case Searching:
		return "Searching"
	case Approaching:
		return "Approaching"
	case Occupied:
		return "Occupied"
	default:
		return fmt.Sprintf("AgentState(%d)", int(s))
	}
}

// Agent is a driver/vehicle unit. It cruises the map while Searching,
// approaches a pickup once reserved for a Resource, and carries that
// resource to its dropoff while Occupied — one resource at a time,
// forever (see the Non-goals on multi-rider pooling).
type Agent struct {
	ID       int
	Loc      RoadPos
	State    AgentState
	Strategy any // opaque state owned by the external search strategy

	SearchStartTime float64

	// Generation is bumped every time a pending AgentMove for this agent
	// is superseded by a reservation. A popped AgentMove event carries
	// the generation it was created under; if that no longer matches,
	// the dispatcher discards it silently (lazy cancellation, per the
	// kernel's ordering guarantees — never a heap removal).
	Generation int

	// AssignedResource is only meaningful in Approaching/Occupied.
	AssignedResource int
	PickupTime       float64 // travel time from reservation position to pickup

	// TripsCompleted is a supplementary counter, never consulted by the
	// kernel's own correctness contracts; the persisted run report does
	// not include it.
	TripsCompleted int
}

// NewAgent creates an agent in the Searching state at loc, with
// search_start_time = startTime.
func NewAgent(id int, loc RoadPos, startTime float64) *Agent {
	return &Agent{
		ID:              id,
		Loc:             loc,
		State:           Searching,
		SearchStartTime: startTime,
	}
}

// Reserve transitions the agent from Searching to Approaching for the
// given resource, bumping Generation so any pending AgentMove event is
// invalidated on pop.
func (a *Agent) Reserve(resourceID int, pickupTime float64) {
	a.State = Approaching
	a.AssignedResource = resourceID
	a.PickupTime = pickupTime
	a.Generation++
}

// Occupy transitions the agent from Approaching to Occupied at the given
// location (the resource's pickup location).
func (a *Agent) Occupy(loc RoadPos) {
	a.State = Occupied
	a.Loc = loc
}

// ReturnToSearching transitions the agent back to Searching at loc (the
// resource's dropoff location for the trip just completed), resetting
// its search clock and bumping Generation so a fresh AgentMove can be
// scheduled under the new generation.
func (a *Agent) ReturnToSearching(loc RoadPos, now float64) {
	a.State = Searching
	a.Loc = loc
	a.SearchStartTime = now
	a.AssignedResource = 0
	a.TripsCompleted++
	a.Generation++
}
