package kernel

import (
	"fmt"
	"math"

	"ridesim/errs"
	"ridesim/model"
)

// Scoreboard accumulates the counters described in §4.8 and renders the
// final report. Every field it exposes is written by the simulator as
// events are dispatched; nothing here drives simulated time itself.
type Scoreboard struct {
	TotalResources         int
	ExpiredResources       int
	totalAssignments       int // incremented per assignment; cross-checked at Finalize
	TotalFare              float64
	TotalResourceWaitTime  float64
	TotalResourceTripTime  float64
	TotalAgentSearchTime   float64
	TotalAgentApproachTime float64
	PoolCount              int
	TotalBenefitFactor     float64

	// remainSearchTime is the original's separate "still searching at
	// the end" accumulator (§10), folded into the average search time
	// numerator at Finalize but kept as a named field for readability.
	remainSearchTime float64
	stillSearching   int

	finalized       bool
	finalAssignments int
	totalAgents     int
}

func NewScoreboard() *Scoreboard { return &Scoreboard{} }

// RecordAnnounce is called once per resource seen, at ResourceAnnounce
// dispatch time.
func (s *Scoreboard) RecordAnnounce() { s.TotalResources++ }

// RecordExpiration is called once per resource that reaches Expired.
func (s *Scoreboard) RecordExpiration() { s.ExpiredResources++ }

// RecordPoolClosed is called once per batching-window flush.
func (s *Scoreboard) RecordPoolClosed() { s.PoolCount++ }

// RecordAssignment folds in one matched (resource, agent) pair: fare,
// wait time (announce to pickup arrival is recorded separately, at
// AgentArriveAtResource — see RecordPickupArrival), and the selected
// cost-matrix cell weight when the policy is Optimum (0 for Fair, per
// §4.8's "0 for P1").
func (s *Scoreboard) RecordAssignment(res *model.Resource, benefitWeight float64, algo Algorithm) {
	s.totalAssignments++
	s.TotalFare += res.Fare
	if algo == Optimum {
		s.TotalBenefitFactor += benefitWeight
	}
}

// RecordPickupArrival is called when an Approaching agent reaches its
// resource: it folds in resource_wait_time and resource_trip_time and
// the agent's approach time, per §4.3.
func (s *Scoreboard) RecordPickupArrival(waitTime, tripDuration, approachTime float64) {
	s.TotalResourceWaitTime += waitTime
	s.TotalResourceTripTime += tripDuration
	s.TotalAgentApproachTime += approachTime
}

// RecordSearchSpan folds in the search time an agent accumulated before
// being reserved (called when a Searching agent transitions to
// Approaching).
func (s *Scoreboard) RecordSearchSpan(seconds float64) {
	s.TotalAgentSearchTime += seconds
}

// Finalize closes the scoreboard against the final agent registry and
// simulation end time, per §4.8's termination step, and cross-checks the
// incrementally-maintained totalAssignments against
// totalResources - expiredResources — the source ambiguity flagged in
// §9 is resolved here as a checked invariant rather than a silent
// overwrite: a mismatch is a bug, and Finalize returns an
// InvariantViolation instead of hiding it.
func (s *Scoreboard) Finalize(simEndTime float64, agents []*model.Agent) error {
	s.totalAgents = len(agents)
	for _, a := range agents {
		if a.State == model.Searching {
			s.remainSearchTime += simEndTime - a.SearchStartTime
			s.stillSearching++
		}
	}
	recomputed := s.TotalResources - s.ExpiredResources
	if recomputed != s.totalAssignments {
		return errs.NewInvariantViolation(fmt.Sprintf(
			"totalAssignments mismatch: incremental=%d recomputed=%d (totalResources=%d expiredResources=%d)",
			s.totalAssignments, recomputed, s.TotalResources, s.ExpiredResources))
	}
	s.finalAssignments = recomputed
	s.finalized = true
	return nil
}

// floorDiv matches the original tool's integer-style average: floor of
// the ratio, defined as 0 when the denominator is 0.
func floorDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return math.Floor(num / den)
}

// Report renders the scoreboard using the original tool's exact labels
// (§6: "the labels must match so downstream scripts can grep").
// Finalize must be called first.
func (s *Scoreboard) Report() string {
	if !s.finalized {
		return "scoreboard: Report called before Finalize"
	}
	avgSearch := floorDiv(s.TotalAgentSearchTime+s.remainSearchTime, float64(s.totalAssignments+s.stillSearching))
	avgWait := floorDiv(s.TotalResourceWaitTime, float64(s.TotalResources))
	var expirationPct float64
	if s.TotalResources > 0 {
		expirationPct = 100 * float64(s.ExpiredResources) / float64(s.TotalResources)
	}
	var avgBenefit float64
	if s.totalAgents > 0 {
		avgBenefit = s.TotalBenefitFactor / float64(s.totalAgents)
	}

	return fmt.Sprintf(
		"Total Fare earned from allocation: %v \n"+
			"Number of Pools processed: %d \n"+
			"average agent search time: %v seconds \n"+
			"average resource wait time: %v seconds \n"+
			"resource expiration percentage: %v%%\n"+
			"average benefit factor: %v\n"+
			"\n"+
			"total number of assignments: %d\n",
		s.TotalFare, s.PoolCount, avgSearch, avgWait, expirationPct, avgBenefit, s.finalAssignments)
}

// TotalAssignments exposes the finalized assignment count (valid only
// after Finalize).
func (s *Scoreboard) TotalAssignments() int { return s.finalAssignments }
