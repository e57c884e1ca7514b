package feed

import "testing"

func TestSyntheticRespectsHorizon(t *testing.T) {
	m := testMap(t)
	records := Synthetic(m, 1.0, 50, 5, 20, 3)
	for _, r := range records {
		if r.AnnounceTime < 0 || r.AnnounceTime >= 50 {
			t.Fatalf("record announce time %v outside [0, 50)", r.AnnounceTime)
		}
		if r.Fare < 5 || r.Fare > 20 {
			t.Fatalf("record fare %v outside [5, 20]", r.Fare)
		}
	}
}

func TestSyntheticIsDeterministicForSeed(t *testing.T) {
	m := testMap(t)
	a := Synthetic(m, 0.5, 200, 5, 20, 42)
	b := Synthetic(m, 0.5, 200, 5, 20, 42)
	if len(a) != len(b) {
		t.Fatalf("expected identical record counts for the same seed, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSyntheticZeroRateProducesNothing(t *testing.T) {
	m := testMap(t)
	if got := Synthetic(m, 0, 100, 5, 20, 1); got != nil {
		t.Fatalf("expected no records for a zero arrival rate, got %v", got)
	}
}
