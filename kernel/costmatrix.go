package kernel

import (
	"sort"

	"ridesim/model"
	"ridesim/roadnet"
)

// InfeasibleWeight is the sentinel value written into a cost-matrix cell
// that has no candidate. It is intentionally far above any weight the
// domain can legitimately produce (pickup times are bounded by the
// simulation horizon and fares are strictly positive), and it is never
// trusted on its own: every cell also carries a Feasible flag, so a
// weight merely reaching this magnitude by coincidence can never be
// mistaken for "no candidate" the way a bare sentinel comparison could.
//
// This resolves the source ambiguity around the original 50000.0
// constant, which could in principle collide with a legitimate
// pickup_time/fare weight when fares are small.
const InfeasibleWeight = 1e12

// Candidate is one (agent, pickup_time) pair for a resource.
type Candidate struct {
	AgentID    int
	PickupTime float64
}

// BuildCandidates enumerates, for every resource in the batch, the
// pickup time from every currently-empty agent. Order within each
// resource's candidate list follows the sorted agent id order returned
// by the registry, which is what makes the greedy matcher's scan order
// deterministic.
func BuildCandidates(batch []*model.Resource, agents *AgentRegistry, oracle roadnet.Oracle) map[int][]Candidate {
	out := make(map[int][]Candidate, len(batch))
	emptyIDs := agents.EmptyAgentIDs()
	for _, r := range batch {
		cands := make([]Candidate, 0, len(emptyIDs))
		for _, aid := range emptyIDs {
			a, ok := agents.Get(aid)
			if !ok {
				continue
			}
			pt := oracle.TravelTime(toLocation(a.Loc), toLocation(r.PickupLoc))
			cands = append(cands, Candidate{AgentID: aid, PickupTime: pt})
		}
		out[r.ID] = cands
	}
	return out
}

func toLocation(p model.RoadPos) roadnet.LocationOnRoad {
	return roadnet.LocationOnRoad{Road: p.Road, OffsetSecs: p.OffsetSecs}
}

// CostMatrix is the dense weight table the optimal matcher runs on.
// Rows index batch resources in the order given to BuildCostMatrix;
// columns index the sorted distinct agent ids that appeared in any
// resource's candidate list.
type CostMatrix struct {
	ResourceIDs []int
	AgentIDs    []int
	W           [][]float64
	Feasible    [][]bool
	PickupTime  [][]float64
}

// BuildCostMatrix assembles the dense matrix from per-resource candidate
// lists, per §4.5: infeasible cells hold InfeasibleWeight and
// Feasible=false; feasible cells hold algo.Weight(pickupTime, fare).
func BuildCostMatrix(batch []*model.Resource, candidates map[int][]Candidate, algo Algorithm) *CostMatrix {
	agentSet := make(map[int]struct{})
	for _, r := range batch {
		for _, c := range candidates[r.ID] {
			agentSet[c.AgentID] = struct{}{}
		}
	}
	agentIDs := make([]int, 0, len(agentSet))
	for id := range agentSet {
		agentIDs = append(agentIDs, id)
	}
	sort.Ints(agentIDs)
	col := make(map[int]int, len(agentIDs))
	for i, id := range agentIDs {
		col[id] = i
	}

	m := len(batch)
	n := len(agentIDs)
	cm := &CostMatrix{
		ResourceIDs: make([]int, m),
		AgentIDs:    agentIDs,
		W:           make([][]float64, m),
		Feasible:    make([][]bool, m),
		PickupTime:  make([][]float64, m),
	}
	for i, r := range batch {
		cm.ResourceIDs[i] = r.ID
		cm.W[i] = make([]float64, n)
		cm.Feasible[i] = make([]bool, n)
		cm.PickupTime[i] = make([]float64, n)
		for j := range cm.W[i] {
			cm.W[i][j] = InfeasibleWeight
		}
		for _, c := range candidates[r.ID] {
			j := col[c.AgentID]
			cm.W[i][j] = algo.Weight(c.PickupTime, r.Fare)
			cm.Feasible[i][j] = true
			cm.PickupTime[i][j] = c.PickupTime
		}
	}
	return cm
}
