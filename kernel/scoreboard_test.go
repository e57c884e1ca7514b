package kernel

import (
	"errors"
	"strings"
	"testing"

	"ridesim/errs"
	"ridesim/model"
)

func TestScoreboardFinalizeChecksAssignmentInvariant(t *testing.T) {
	sb := NewScoreboard()
	sb.RecordAnnounce()
	sb.RecordAnnounce()
	sb.RecordExpiration()
	// Only one resource was actually assigned, so totalResources(2) -
	// expiredResources(1) = 1 matches the recorded assignment.
	sb.RecordAssignment(resourceWithFare(1, 10), 0, Fair)

	if err := sb.Finalize(1000, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.TotalAssignments() != 1 {
		t.Fatalf("expected 1 finalized assignment, got %d", sb.TotalAssignments())
	}
}

func TestScoreboardFinalizeDetectsMismatch(t *testing.T) {
	sb := NewScoreboard()
	sb.RecordAnnounce()
	sb.RecordAnnounce()
	// No expirations and no assignments recorded: totalResources(2) -
	// expiredResources(0) = 2 does not match totalAssignments(0).
	err := sb.Finalize(1000, nil)
	if err == nil {
		t.Fatal("expected an InvariantViolation, got nil")
	}
	var iv *errs.InvariantViolation
	if !errors.As(err, &iv) {
		t.Fatalf("expected *errs.InvariantViolation, got %T (%v)", err, err)
	}
}

func TestScoreboardFinalizeFoldsInStillSearchingAgents(t *testing.T) {
	sb := NewScoreboard()
	agent := model.NewAgent(1, model.RoadPos{}, 0)
	if err := sb.Finalize(500, []*model.Agent{agent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := sb.Report()
	if report == "" {
		t.Fatal("expected a non-empty report")
	}
	// One agent searching from 0 to 500 with no assignments: 500/1.
	if !strings.Contains(report, "average agent search time: 500 seconds") {
		t.Fatalf("expected the still-searching agent's 500s in the average, got:\n%s", report)
	}
}

func TestScoreboardReportBeforeFinalize(t *testing.T) {
	sb := NewScoreboard()
	report := sb.Report()
	if report == "" {
		t.Fatal("expected a diagnostic string, not an empty report")
	}
}
