// Command roadnetgen recomputes a map file's road durations from its
// intersections' lat/lng, adapted from the teacher's
// tools/recompute_distances.go: same haversine-then-overwrite shape,
// applied to roadnet's intersection/road JSON instead of a bus route's
// stop list. It is a narrow maintenance tool, not a map builder — it
// assumes the intersections and road topology already exist and only
// fills in (or refreshes) each road's travel duration.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

type intersection struct {
	ID  int     `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type road struct {
	ID       int     `json:"id"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Duration float64 `json:"duration_seconds"`
}

type mapFile struct {
	Intersections []intersection `json:"intersections"`
	Roads         []road         `json:"roads"`
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const rEarthKm = 6371.0088
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return rEarthKm * c
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: roadnetgen <map-json-file> [speed_kmh]")
		os.Exit(1)
	}
	path := os.Args[1]
	speedKmh := 30.0
	if len(os.Args) >= 3 {
		if _, err := fmt.Sscanf(os.Args[2], "%f", &speedKmh); err != nil {
			panic(err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var mf mapFile
	if err := json.Unmarshal(b, &mf); err != nil {
		panic(err)
	}

	byID := make(map[int]intersection, len(mf.Intersections))
	for _, in := range mf.Intersections {
		byID[in.ID] = in
	}

	for i, r := range mf.Roads {
		from, ok := byID[r.From]
		if !ok {
			panic(fmt.Sprintf("road %d: unknown from-intersection %d", r.ID, r.From))
		}
		to, ok := byID[r.To]
		if !ok {
			panic(fmt.Sprintf("road %d: unknown to-intersection %d", r.ID, r.To))
		}
		km := haversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
		hours := km / speedKmh
		mf.Roads[i].Duration = math.Round(hours*3600*1000) / 1000
	}

	out, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Updated %d road durations at %.1f km/h\n", len(mf.Roads), speedKmh)
}
