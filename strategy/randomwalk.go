// Package strategy provides a default, deterministic implementation of
// the search-strategy capability set the kernel consumes (§6, §9). It
// is a reference collaborator, not part of the kernel's correctness
// contract: any implementation satisfying kernel.SearchStrategy can be
// substituted at Configure time.
package strategy

import (
	"fmt"
	"math/rand"

	"ridesim/kernel"
	"ridesim/model"
	"ridesim/roadnet"
)

// RandomWalk sends each empty agent down a uniformly random outgoing
// road, mirroring the way the teacher's bus simulator advances a
// vehicle to whichever stop its route dictates next, generalized here
// from a fixed linear route to an arbitrary graph with real branching.
// It is deterministic for a given seed: each agent gets its own
// *rand.Rand derived from the shared seed, so agent iteration order
// never affects the sequence of choices any single agent makes.
type RandomWalk struct {
	rngs map[int]*rand.Rand
	seed int64
}

// NewRandomWalk returns a RandomWalk seeded from seed. Per-agent
// generators are created lazily on first use so the strategy can be
// constructed before the agent population is known.
func NewRandomWalk(seed int64) *RandomWalk {
	return &RandomWalk{rngs: make(map[int]*rand.Rand), seed: seed}
}

func (w *RandomWalk) rngFor(agentID int) *rand.Rand {
	r, ok := w.rngs[agentID]
	if !ok {
		r = rand.New(rand.NewSource(w.seed ^ int64(agentID)*2654435761))
		w.rngs[agentID] = r
	}
	return r
}

// NextIntersection implements kernel.SearchStrategy.
func (w *RandomWalk) NextIntersection(agent *model.Agent, current roadnet.Intersection, m roadnet.Map) (roadnet.Intersection, error) {
	roads := m.RoadsFrom(current.ID)
	if len(roads) == 0 {
		return roadnet.Intersection{}, fmt.Errorf("intersection %d is a dead end", current.ID)
	}
	r := roads[w.rngFor(agent.ID).Intn(len(roads))]
	next, ok := m.Intersection(r.To)
	if !ok {
		return roadnet.Intersection{}, fmt.Errorf("road %d points to unknown intersection %d", r.ID, r.To)
	}
	return next, nil
}

// OnAssignment implements kernel.SearchStrategy; RandomWalk has no
// per-agent state that an assignment would invalidate.
func (w *RandomWalk) OnAssignment(agentID, resourceID int) {}

var _ kernel.SearchStrategy = (*RandomWalk)(nil)
