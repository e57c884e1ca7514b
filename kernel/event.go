// Package kernel implements the discrete-event simulation core: the
// event queue, agent and resource registries, the event dispatcher, the
// batching window, the cost-matrix builder, the two matchers, and the
// scoreboard. Nothing in this package performs I/O or blocks; simulated
// time only ever advances by popping the event queue.
package kernel

// Base carries the fields common to every event variant: the time it
// fires and a monotonically assigned insertion sequence number used to
// break ties between events with equal Time (first inserted, first
// fired — required for reproducibility).
type Base struct {
	Time float64
	Seq  int64
}

func (b Base) When() float64    { return b.Time }
func (b Base) Sequence() int64  { return b.Seq }

// Event is the tagged-variant type the queue and dispatcher operate on.
// The Java source's inheritance hierarchy (event subclasses of a common
// abstract event) collapses to this marker interface plus one concrete
// struct per variant named in the data model.
type Event interface {
	isEvent()
	When() float64
	Sequence() int64
}

// AgentMoveEvent fires when an agent finishes traversing a road while
// Searching; Generation must match the agent's current generation or the
// event is a stale, lazily-cancelled one and is discarded on pop.
type AgentMoveEvent struct {
	Base
	AgentID    int
	Generation int
}

func (AgentMoveEvent) isEvent() {}

// ResourceAnnounceEvent fires when a resource becomes available.
type ResourceAnnounceEvent struct {
	Base
	ResourceID int
}

func (ResourceAnnounceEvent) isEvent() {}

// ResourceExpireEvent is synthetic: scheduled by the batching window
// once a waiting resource's expiration becomes inevitable within the
// closing window, at exactly the resource's ExpirationTime.
type ResourceExpireEvent struct {
	Base
	ResourceID int
}

func (ResourceExpireEvent) isEvent() {}

// AgentArriveAtResourceEvent fires when an Approaching agent reaches its
// reserved pickup.
type AgentArriveAtResourceEvent struct {
	Base
	AgentID    int
	ResourceID int
	Generation int
}

func (AgentArriveAtResourceEvent) isEvent() {}

// AgentArriveAtDropoffEvent fires when an Occupied agent completes its
// trip.
type AgentArriveAtDropoffEvent struct {
	Base
	AgentID    int
	ResourceID int
	Generation int
}

func (AgentArriveAtDropoffEvent) isEvent() {}
