package feed

import (
	"math"
	"math/rand"
	"sort"

	"ridesim/roadnet"
)

// Synthetic generates a Poisson-arrival stream of resource records over
// [0, horizon) at rate lambdaPerSecond, with pickup/dropoff points drawn
// uniformly from the map's intersections and fares drawn from
// [minFare, maxFare). This is the reference generator used by tests and
// the CLI's demo mode; it plays the role the teacher's passenger-arrival
// generator (sim/demand.go) plays for its own domain, generalized from a
// single bounded corridor to an arbitrary road graph and from a fixed
// per-stop weighting to a uniform one, since this repository's map has
// no equivalent notion of a "favored direction".
func Synthetic(m *roadnet.InMemoryMap, lambdaPerSecond, horizon, minFare, maxFare float64, seed int64) []Record {
	if lambdaPerSecond <= 0 || horizon <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	intersections := m.Intersections()
	if len(intersections) < 2 {
		return nil
	}
	sort.Slice(intersections, func(i, j int) bool { return intersections[i].ID < intersections[j].ID })

	var records []Record
	t := 0.0
	for {
		t += rng.ExpFloat64() / lambdaPerSecond
		if t >= horizon {
			break
		}
		pickup := intersections[rng.Intn(len(intersections))]
		dropoff := pickup
		for dropoff.ID == pickup.ID {
			dropoff = intersections[rng.Intn(len(intersections))]
		}
		fare := minFare + rng.Float64()*math.Max(0, maxFare-minFare)
		records = append(records, Record{
			AnnounceTime: t,
			PickupLat:    pickup.Lat,
			PickupLon:    pickup.Lng,
			DropoffLat:   dropoff.Lat,
			DropoffLon:   dropoff.Lng,
			Fare:         fare,
		})
	}
	return records
}
