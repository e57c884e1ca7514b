package kernel

import (
	"ridesim/model"
	"ridesim/roadnet"
)

// SearchStrategy is the capability set the pluggable agent strategy
// collapses to (§9): where an empty agent goes next, and an optional
// hook fired when the kernel reserves one of its agents for a resource.
// Implementations must be deterministic for a given seed and must never
// mutate the roadnet.Map view they are handed.
type SearchStrategy interface {
	NextIntersection(agent *model.Agent, current roadnet.Intersection, m roadnet.Map) (roadnet.Intersection, error)
	OnAssignment(agentID, resourceID int)
}
