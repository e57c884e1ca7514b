package kernel

import (
	"sort"

	"ridesim/model"
)

// AgentRegistry owns every agent and tracks which are currently empty
// (Searching), ordered by id.
type AgentRegistry struct {
	agents map[int]*model.Agent
	empty  map[int]struct{}
}

func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[int]*model.Agent),
		empty:  make(map[int]struct{}),
	}
}

func (r *AgentRegistry) Add(a *model.Agent) {
	r.agents[a.ID] = a
	if a.State == model.Searching {
		r.empty[a.ID] = struct{}{}
	}
}

func (r *AgentRegistry) Get(id int) (*model.Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}

func (r *AgentRegistry) MarkEmpty(id int)   { r.empty[id] = struct{}{} }
func (r *AgentRegistry) MarkReserved(id int) { delete(r.empty, id) }

// EmptyAgentIDs returns the ids of currently-empty agents, sorted.
func (r *AgentRegistry) EmptyAgentIDs() []int {
	out := make([]int, 0, len(r.empty))
	for id := range r.empty {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// EmptyCount reports how many agents are currently Searching.
func (r *AgentRegistry) EmptyCount() int { return len(r.empty) }

// All returns every registered agent, sorted by id, for scoreboard
// finalization.
func (r *AgentRegistry) All() []*model.Agent {
	ids := make([]int, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*model.Agent, len(ids))
	for i, id := range ids {
		out[i] = r.agents[id]
	}
	return out
}

// ResourceRegistry owns every resource seen so far, keyed by id.
type ResourceRegistry struct {
	resources map[int]*model.Resource
}

func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{resources: make(map[int]*model.Resource)}
}

func (r *ResourceRegistry) Add(res *model.Resource) { r.resources[res.ID] = res }

func (r *ResourceRegistry) Get(id int) (*model.Resource, bool) {
	res, ok := r.resources[id]
	return res, ok
}
