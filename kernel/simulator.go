package kernel

import (
	"fmt"
	"math/rand"

	"ridesim/errs"
	"ridesim/model"
	"ridesim/roadnet"
)

// Simulator is the discrete-event kernel: it owns the event queue, the
// agent and resource registries, the current batching window, and the
// scoreboard, and drives all of them from a single-threaded Run loop.
// Nothing here spawns a goroutine or sleeps; simulated time advances
// only by popping the queue, per §5.
type Simulator struct {
	Map      *roadnet.InMemoryMap
	mapView  roadnet.Map
	Oracle   roadnet.Oracle
	Strategy SearchStrategy
	Sink     ProgressSink

	Agents    *AgentRegistry
	Resources *ResourceRegistry
	Queue     *EventQueue
	Score     *Scoreboard

	Algorithm         Algorithm
	BatchFrame        float64
	SimulationEndTime float64

	window      []*model.Resource
	windowStart float64
	windowSet   bool

	totalEvents int
}

// Config bundles the parameters Configure needs beyond the map, oracle,
// and strategy: the loaded resource stream and the agent fleet size and
// placement seed, mirroring the configuration surface of §6.
type Config struct {
	NumberOfAgents   int
	AssignmentPeriod float64 // seconds; the batch frame
	Algorithm        Algorithm
	Seed             int64
	Sink             ProgressSink
}

// NewSimulator builds a Simulator with empty registries and an empty
// queue; call Configure to seed it before Run.
func NewSimulator(m *roadnet.InMemoryMap, oracle roadnet.Oracle, strategy SearchStrategy) *Simulator {
	sink := ProgressSink(NoopSink{})
	return &Simulator{
		Map:       m,
		mapView:   m.ForStrategy(),
		Oracle:    oracle,
		Strategy:  strategy,
		Sink:      sink,
		Agents:    NewAgentRegistry(),
		Resources: NewResourceRegistry(),
		Queue:     NewEventQueue(),
		Score:     NewScoreboard(),
	}
}

// Configure seeds the event queue with one ResourceAnnounce event per
// resource and one AgentMove per agent (after placing agents), and sets
// SimulationEndTime to the last resource's expiration time, per §2's
// Flow and §4.2's termination rule.
func (s *Simulator) Configure(cfg Config, resources []*model.Resource) error {
	if cfg.NumberOfAgents <= 0 {
		return errs.NewConfigError("numberOfAgents", fmt.Errorf("must be positive, got %d", cfg.NumberOfAgents))
	}
	if cfg.AssignmentPeriod <= 0 {
		return errs.NewConfigError("assignmentPeriod", fmt.Errorf("must be positive, got %v", cfg.AssignmentPeriod))
	}
	if cfg.Sink != nil {
		s.Sink = cfg.Sink
	}
	s.Algorithm = cfg.Algorithm
	s.BatchFrame = cfg.AssignmentPeriod

	intersections := s.Map.Intersections()
	if len(intersections) == 0 {
		return errs.NewDataError("map", fmt.Errorf("map has no intersections"))
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	for i := 0; i < cfg.NumberOfAgents; i++ {
		pick := intersections[rng.Intn(len(intersections))]
		loc, ok := s.Map.LocationAtIntersection(pick.ID)
		if !ok {
			return errs.NewDataError("map", fmt.Errorf("intersection %d has no adjacent road", pick.ID))
		}
		a := model.NewAgent(i, model.RoadPos{Road: loc.Road, OffsetSecs: loc.OffsetSecs}, 0)
		s.Agents.Add(a)
	}

	maxExpiration := 0.0
	for _, r := range resources {
		if err := s.validateResource(r); err != nil {
			return err
		}
		s.Resources.Add(r)
		if r.ExpirationTime > maxExpiration {
			maxExpiration = r.ExpirationTime
		}
		seq := s.Queue.NextSeq()
		s.Queue.Push(ResourceAnnounceEvent{Base: Base{Time: r.AnnounceTime, Seq: seq}, ResourceID: r.ID})
	}
	s.SimulationEndTime = maxExpiration

	for _, a := range s.Agents.All() {
		if err := s.scheduleNextMove(a, s.intersectionOf(a.Loc), 0); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) validateResource(r *model.Resource) error {
	if r.Fare <= 0 {
		return errs.NewDataError("resource", fmt.Errorf("resource %d: fare must be positive, got %v", r.ID, r.Fare))
	}
	if _, ok := s.Map.Road(r.PickupLoc.Road); !ok {
		return errs.NewDataError("resource", fmt.Errorf("resource %d: pickup road %d not on map", r.ID, r.PickupLoc.Road))
	}
	if _, ok := s.Map.Road(r.DropoffLoc.Road); !ok {
		return errs.NewDataError("resource", fmt.Errorf("resource %d: dropoff road %d not on map", r.ID, r.DropoffLoc.Road))
	}
	return nil
}

// intersectionOf returns the intersection a RoadPos sits at, assuming
// (per this kernel's placement and dispatch conventions) every position
// handed between components is either the start or the end of its road:
// offset 0 means "at the road's From intersection", full duration means
// "at the road's To intersection". No component ever needs a
// mid-traversal position, so this simplification never loses
// information the kernel actually consumes.
func (s *Simulator) intersectionOf(loc model.RoadPos) int {
	r, ok := s.Map.Road(loc.Road)
	if !ok {
		return -1
	}
	if loc.OffsetSecs >= r.Duration {
		return r.To
	}
	return r.From
}

// scheduleNextMove asks the strategy for the next intersection from
// atIntersection and enqueues the resulting AgentMove, per §4.3's
// Searching-state loop.
func (s *Simulator) scheduleNextMove(a *model.Agent, atIntersection int, now float64) error {
	current, ok := s.Map.Intersection(atIntersection)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("agent %d: unknown intersection %d", a.ID, atIntersection))
	}
	next, err := s.Strategy.NextIntersection(a, current, s.mapView)
	if err != nil {
		return errs.NewStrategyError(a.ID, err)
	}
	var chosen *roadnet.Road
	for _, r := range s.Map.RoadsFrom(atIntersection) {
		if r.To == next.ID {
			rr := r
			chosen = &rr
			break
		}
	}
	if chosen == nil {
		return errs.NewStrategyError(a.ID, fmt.Errorf("strategy returned non-adjacent intersection %d from %d", next.ID, atIntersection))
	}
	a.Loc = model.RoadPos{Road: chosen.ID, OffsetSecs: 0}
	seq := s.Queue.NextSeq()
	s.Queue.Push(AgentMoveEvent{Base: Base{Time: now + chosen.Duration, Seq: seq}, AgentID: a.ID, Generation: a.Generation})
	return nil
}

// Run drives the dispatcher loop to completion (§4.2) and returns the
// finalized scoreboard.
func (s *Simulator) Run() (*Scoreboard, error) {
	for {
		next, ok := s.Queue.Peek()
		if !ok || next.When() > s.SimulationEndTime {
			break
		}
		ev := s.Queue.Pop()
		s.totalEvents++
		s.Sink.OnEvent(s.totalEvents, s.Queue.Len()+s.totalEvents)

		var err error
		switch e := ev.(type) {
		case ResourceExpireEvent:
			err = s.handleExpire(e)
		case ResourceAnnounceEvent:
			err = s.handleAnnounce(e)
		case AgentMoveEvent:
			err = s.handleAgentMove(e)
		case AgentArriveAtResourceEvent:
			err = s.handleArriveAtResource(e)
		case AgentArriveAtDropoffEvent:
			err = s.handleArriveAtDropoff(e)
		default:
			err = errs.NewInvariantViolation(fmt.Sprintf("unknown event type %T", ev))
		}
		if err != nil {
			return nil, err
		}
	}

	// Simulation end: everything still sitting in the open window
	// expires, per §4.4's closing rule.
	for _, r := range s.window {
		r.State = model.ResourceExpired
		s.Score.RecordExpiration()
	}
	s.window = nil

	if err := s.Score.Finalize(s.SimulationEndTime, s.Agents.All()); err != nil {
		return nil, err
	}
	return s.Score, nil
}

func (s *Simulator) handleExpire(e ResourceExpireEvent) error {
	r, ok := s.Resources.Get(e.ResourceID)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("expire event for unknown resource %d", e.ResourceID))
	}
	if r.State == model.ResourceWaiting {
		r.State = model.ResourceExpired
		s.Score.RecordExpiration()
	}
	return nil
}

func (s *Simulator) handleAnnounce(e ResourceAnnounceEvent) error {
	r, ok := s.Resources.Get(e.ResourceID)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("announce event for unknown resource %d", e.ResourceID))
	}
	s.Score.RecordAnnounce()
	return s.arriveInWindow(r)
}

func (s *Simulator) handleAgentMove(e AgentMoveEvent) error {
	a, ok := s.Agents.Get(e.AgentID)
	if !ok || a.Generation != e.Generation {
		return nil // stale, lazily cancelled
	}
	r, ok := s.Map.Road(a.Loc.Road)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("agent %d: unknown road %d", a.ID, a.Loc.Road))
	}
	return s.scheduleNextMove(a, r.To, s.Queue.CurrentTime())
}

func (s *Simulator) handleArriveAtResource(e AgentArriveAtResourceEvent) error {
	a, ok := s.Agents.Get(e.AgentID)
	if !ok || a.Generation != e.Generation {
		return nil // stale
	}
	res, ok := s.Resources.Get(e.ResourceID)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("arrive-at-resource for unknown resource %d", e.ResourceID))
	}
	now := s.Queue.CurrentTime()
	a.Occupy(res.PickupLoc)
	s.Score.RecordPickupArrival(now-res.AnnounceTime, res.TripDuration, a.PickupTime)
	seq := s.Queue.NextSeq()
	s.Queue.Push(AgentArriveAtDropoffEvent{Base: Base{Time: now + res.TripDuration, Seq: seq}, AgentID: a.ID, ResourceID: res.ID, Generation: a.Generation})
	return nil
}

func (s *Simulator) handleArriveAtDropoff(e AgentArriveAtDropoffEvent) error {
	a, ok := s.Agents.Get(e.AgentID)
	if !ok || a.Generation != e.Generation {
		return nil // stale
	}
	res, ok := s.Resources.Get(e.ResourceID)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("arrive-at-dropoff for unknown resource %d", e.ResourceID))
	}
	now := s.Queue.CurrentTime()
	a.ReturnToSearching(res.DropoffLoc, now)
	s.Agents.MarkEmpty(a.ID)
	return s.scheduleNextMove(a, s.intersectionOf(a.Loc), now)
}

// arriveInWindow implements the Batching Window's per-arrival logic
// (§4.4).
func (s *Simulator) arriveInWindow(r *model.Resource) error {
	r.State = model.ResourceWaiting
	if !s.windowSet {
		s.windowStart = r.AnnounceTime
		s.windowSet = true
		s.window = append(s.window, r)
		return nil
	}
	if r.AnnounceTime <= s.windowStart+s.BatchFrame {
		s.window = append(s.window, r)
		return nil
	}
	if err := s.closeWindow(); err != nil {
		return err
	}
	s.windowStart = r.AnnounceTime
	s.window = []*model.Resource{r}
	return nil
}

// closeWindow implements §4.4 step 3: prune, match, apply, carry over.
func (s *Simulator) closeWindow() error {
	horizon := s.windowStart + s.BatchFrame
	kept := s.window[:0:0]
	for _, w := range s.window {
		if w.ExpirationTime <= horizon {
			seq := s.Queue.NextSeq()
			s.Queue.Push(ResourceExpireEvent{Base: Base{Time: w.ExpirationTime, Seq: seq}, ResourceID: w.ID})
		} else {
			kept = append(kept, w)
		}
	}
	s.window = kept
	s.Score.RecordPoolClosed()
	if len(s.window) == 0 {
		return nil
	}

	candidates := BuildCandidates(s.window, s.Agents, s.Oracle)

	var assignments []Assignment
	var unmatched []*model.Resource
	if s.Algorithm == Optimum {
		cm := BuildCostMatrix(s.window, candidates, s.Algorithm)
		var unmatchedRows []int
		assignments, unmatchedRows = OptimalMatch(cm)
		for _, idx := range unmatchedRows {
			unmatched = append(unmatched, s.window[idx])
		}
	} else {
		assignments, unmatched = GreedyMatch(s.window, candidates)
	}

	for _, asg := range assignments {
		if err := s.applyAssignment(asg); err != nil {
			return err
		}
	}
	s.window = unmatched
	return nil
}

func (s *Simulator) applyAssignment(asg Assignment) error {
	a, ok := s.Agents.Get(asg.AgentID)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("assignment references unknown agent %d", asg.AgentID))
	}
	if a.State != model.Searching {
		return errs.NewInvariantViolation(fmt.Sprintf("duplicate assignment of already-reserved agent %d", asg.AgentID))
	}
	res, ok := s.Resources.Get(asg.ResourceID)
	if !ok {
		return errs.NewInvariantViolation(fmt.Sprintf("assignment references unknown resource %d", asg.ResourceID))
	}
	now := s.Queue.CurrentTime()

	benefitWeight := 0.0
	if s.Algorithm == Optimum {
		benefitWeight = s.Algorithm.Weight(asg.PickupTime, res.Fare)
	}
	s.Score.RecordSearchSpan(now - a.SearchStartTime)

	a.Reserve(res.ID, asg.PickupTime)
	s.Agents.MarkReserved(a.ID)
	res.State = model.ResourceAssigned
	res.AssignedAgent = a.ID
	s.Score.RecordAssignment(res, benefitWeight, s.Algorithm)

	seq := s.Queue.NextSeq()
	s.Queue.Push(AgentArriveAtResourceEvent{
		Base:       Base{Time: now + asg.PickupTime, Seq: seq},
		AgentID:    a.ID,
		ResourceID: res.ID,
		Generation: a.Generation,
	})
	if s.Strategy != nil {
		s.Strategy.OnAssignment(a.ID, res.ID)
	}
	return nil
}
