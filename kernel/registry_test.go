package kernel

import (
	"testing"

	"ridesim/model"
)

func TestAgentRegistryTracksEmptyAgents(t *testing.T) {
	reg := NewAgentRegistry()
	a1 := model.NewAgent(1, model.RoadPos{}, 0)
	a2 := model.NewAgent(2, model.RoadPos{}, 0)
	reg.Add(a1)
	reg.Add(a2)

	if reg.EmptyCount() != 2 {
		t.Fatalf("expected 2 empty agents, got %d", reg.EmptyCount())
	}
	reg.MarkReserved(1)
	if reg.EmptyCount() != 1 {
		t.Fatalf("expected 1 empty agent after reservation, got %d", reg.EmptyCount())
	}
	ids := reg.EmptyAgentIDs()
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected only agent 2 empty, got %v", ids)
	}
	reg.MarkEmpty(1)
	if reg.EmptyCount() != 2 {
		t.Fatalf("expected 2 empty agents after re-marking, got %d", reg.EmptyCount())
	}
}

func TestAgentRegistryAllIsSortedByID(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Add(model.NewAgent(3, model.RoadPos{}, 0))
	reg.Add(model.NewAgent(1, model.RoadPos{}, 0))
	reg.Add(model.NewAgent(2, model.RoadPos{}, 0))

	all := reg.All()
	for i, a := range all {
		if a.ID != i+1 {
			t.Fatalf("expected sorted ids 1,2,3; got id %d at position %d", a.ID, i)
		}
	}
}

func TestResourceRegistryGet(t *testing.T) {
	reg := NewResourceRegistry()
	r := model.NewResource(1, 0, model.RoadPos{}, model.RoadPos{}, 1, 10, 60)
	reg.Add(r)
	got, ok := reg.Get(1)
	if !ok || got.ID != 1 {
		t.Fatalf("expected to find resource 1, got %+v ok=%v", got, ok)
	}
	if _, ok := reg.Get(999); ok {
		t.Fatal("expected no resource for an unknown id")
	}
}
