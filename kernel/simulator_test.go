package kernel_test

import (
	"testing"

	"ridesim/kernel"
	"ridesim/model"
	"ridesim/roadnet"
	"ridesim/strategy"
)

// twoNodeMap builds a minimal bidirectional map: intersection 1 <-> 2,
// each direction a 50-second road. Good enough to exercise the batching
// window and the matchers without needing real geography.
func twoNodeMap(t *testing.T) *roadnet.InMemoryMap {
	t.Helper()
	m, err := roadnet.NewInMemoryMap(
		[]roadnet.Intersection{{ID: 1, Lat: 0, Lng: 0}, {ID: 2, Lat: 0, Lng: 1}},
		[]roadnet.Road{
			{ID: 1, From: 1, To: 2, Duration: 50},
			{ID: 2, From: 2, To: 1, Duration: 50},
		},
	)
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	return m
}

func pickupAndDropoff(t *testing.T, m *roadnet.InMemoryMap) (model.RoadPos, model.RoadPos) {
	t.Helper()
	pl, ok := m.LocationAtIntersection(1)
	if !ok {
		t.Fatal("intersection 1 unreachable")
	}
	dl, ok := m.LocationAtIntersection(2)
	if !ok {
		t.Fatal("intersection 2 unreachable")
	}
	return model.RoadPos{Road: pl.Road, OffsetSecs: pl.OffsetSecs}, model.RoadPos{Road: dl.Road, OffsetSecs: dl.OffsetSecs}
}

// TestSimulatorMatchesAcrossSuccessiveWindows exercises the batching
// window's overflow-close rule (§4.4): three resources, each announced
// far enough apart to force the previous window closed, so the first two
// get matched against the two-agent fleet and the third is still open
// when the simulation ends and is counted as expired.
func TestSimulatorMatchesAcrossSuccessiveWindows(t *testing.T) {
	m := twoNodeMap(t)
	pickup, dropoff := pickupAndDropoff(t, m)
	oracle := roadnet.NewDirectOracle(m)

	resources := []*model.Resource{
		model.NewResource(1, 0, pickup, dropoff, 1, 10, 100),
		model.NewResource(2, 20, pickup, dropoff, 1, 10, 100),
		model.NewResource(3, 40, pickup, dropoff, 1, 10, 100),
	}

	sim := kernel.NewSimulator(m, oracle, strategy.NewRandomWalk(7))
	if err := sim.Configure(kernel.Config{
		NumberOfAgents:   2,
		AssignmentPeriod: 10,
		Algorithm:        kernel.Fair,
		Seed:             7,
		Sink:             kernel.NoopSink{},
	}, resources); err != nil {
		t.Fatalf("configure: %v", err)
	}

	score, err := sim.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if score.TotalAssignments() != 2 {
		t.Fatalf("expected 2 assignments (resources 1 and 2), got %d", score.TotalAssignments())
	}
	if score.ExpiredResources != 1 {
		t.Fatalf("expected resource 3 to expire at simulation end, got %d expired", score.ExpiredResources)
	}
	if score.TotalResources != 3 {
		t.Fatalf("expected 3 total resources announced, got %d", score.TotalResources)
	}
}

// TestSimulatorExpiresLoneResourceAtSimulationEnd confirms §4.4's final
// rule: a resource sitting alone in an open window — nothing ever arrives
// to close it — is counted Expired at simulation end even though an agent
// was available the whole time, never force-matched just because the run
// is ending.
func TestSimulatorExpiresLoneResourceAtSimulationEnd(t *testing.T) {
	m := twoNodeMap(t)
	pickup, dropoff := pickupAndDropoff(t, m)
	oracle := roadnet.NewDirectOracle(m)

	resources := []*model.Resource{
		model.NewResource(1, 0, pickup, dropoff, 1, 10, 30),
	}
	sim := kernel.NewSimulator(m, oracle, strategy.NewRandomWalk(1))
	if err := sim.Configure(kernel.Config{
		NumberOfAgents:   1,
		AssignmentPeriod: 5,
		Algorithm:        kernel.Fair,
		Seed:             1,
	}, resources); err != nil {
		t.Fatalf("configure: %v", err)
	}
	score, err := sim.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if score.ExpiredResources != 1 {
		t.Fatalf("expected the sole resource to expire (no closing arrival ever came), got %d", score.ExpiredResources)
	}
	if score.TotalAssignments() != 0 {
		t.Fatalf("expected 0 assignments, got %d", score.TotalAssignments())
	}
}

func TestConfigureRejectsNonPositiveAgentCount(t *testing.T) {
	m := twoNodeMap(t)
	oracle := roadnet.NewDirectOracle(m)
	sim := kernel.NewSimulator(m, oracle, strategy.NewRandomWalk(1))
	err := sim.Configure(kernel.Config{NumberOfAgents: 0, AssignmentPeriod: 5, Algorithm: kernel.Fair}, nil)
	if err == nil {
		t.Fatal("expected a ConfigError for zero agents")
	}
}

func TestConfigureRejectsResourceOffMap(t *testing.T) {
	m := twoNodeMap(t)
	oracle := roadnet.NewDirectOracle(m)
	sim := kernel.NewSimulator(m, oracle, strategy.NewRandomWalk(1))
	bad := model.NewResource(1, 0, model.RoadPos{Road: 999}, model.RoadPos{Road: 999}, 1, 10, 30)
	err := sim.Configure(kernel.Config{NumberOfAgents: 1, AssignmentPeriod: 5, Algorithm: kernel.Fair}, []*model.Resource{bad})
	if err == nil {
		t.Fatal("expected a DataError for a pickup road not on the map")
	}
}
