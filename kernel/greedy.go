package kernel

import "ridesim/model"

// Assignment is one matcher result: resource r goes to agent a, reached
// after pickupTime seconds from a's reservation position.
type Assignment struct {
	ResourceID int
	AgentID    int
	PickupTime float64
}

// GreedyMatch implements policy P1 (§4.6): repeatedly take the globally
// minimum pickup time among all remaining (resource, agent) candidate
// pairs, reserve that agent, and drop every other pair that references
// either the matched resource or the matched agent. Ties are broken by
// scan order — batch order, then candidate-list order — so the result is
// deterministic for a given candidate map.
//
// candidates is not modified: matched resources and taken agents are
// tracked in local sets and skipped on later scans. Resources left with
// no usable candidates when the scan terminates are reported as
// unmatched.
func GreedyMatch(batch []*model.Resource, candidates map[int][]Candidate) (assignments []Assignment, unmatched []*model.Resource) {
	taken := make(map[int]bool)
	resolved := make(map[int]bool)

	for {
		bestResource := -1
		bestIdx := -1
		bestPickup := 0.0
		found := false

		for _, r := range batch {
			if resolved[r.ID] {
				continue
			}
			list := candidates[r.ID]
			for idx, c := range list {
				if taken[c.AgentID] {
					continue
				}
				if !found || c.PickupTime < bestPickup {
					found = true
					bestResource = r.ID
					bestIdx = idx
					bestPickup = c.PickupTime
				}
			}
		}
		if !found {
			break
		}
		agentID := candidates[bestResource][bestIdx].AgentID
		assignments = append(assignments, Assignment{ResourceID: bestResource, AgentID: agentID, PickupTime: bestPickup})
		taken[agentID] = true
		resolved[bestResource] = true
	}

	for _, r := range batch {
		if !resolved[r.ID] {
			unmatched = append(unmatched, r)
		}
	}
	return assignments, unmatched
}
