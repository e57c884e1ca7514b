package kernel

import "math"

// OptimalMatch implements policy P2 (§4.7): a dense rectangular min-cost
// assignment via the Jonker-Volgenant shortest-augmenting-path form of
// the Hungarian algorithm with potentials, run on a matrix padded to
// square with InfeasibleWeight. Unmatched rows — including any row whose
// only surviving column is an infeasible one — carry over to the next
// batch instead of being forced onto a sentinel cell.
//
// A cell landing in the returned assignment that BuildCostMatrix marked
// infeasible is treated as "no match for this row", never as a real
// assignment: forcing an infeasible pickup through would violate the
// no-late-assignment contract the matcher exists to uphold.
func OptimalMatch(cm *CostMatrix) (assignments []Assignment, unmatchedRows []int) {
	m := len(cm.ResourceIDs)
	n := len(cm.AgentIDs)
	if m == 0 {
		return nil, nil
	}
	size := m
	if n > size {
		size = n
	}

	a := make([][]float64, size)
	for i := 0; i < size; i++ {
		a[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			a[i][j] = InfeasibleWeight
		}
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a[i][j] = cm.W[i][j]
		}
	}

	// p[j] = row matched to column j (1-indexed, 0 = unmatched).
	u := make([]float64, size+1)
	v := make([]float64, size+1)
	p := make([]int, size+1)
	way := make([]int, size+1)

	for i := 1; i <= size; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, size+1)
		used := make([]bool, size+1)
		for j := 0; j <= size; j++ {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := -1
			for j := 1; j <= size; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= size; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, m)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j := 1; j <= size; j++ {
		i := p[j]
		row := i - 1
		col := j - 1
		if row >= 0 && row < m && col < n {
			rowToCol[row] = col
		}
	}

	for i := 0; i < m; i++ {
		j := rowToCol[i]
		if j < 0 || !cm.Feasible[i][j] {
			unmatchedRows = append(unmatchedRows, i)
			continue
		}
		assignments = append(assignments, Assignment{
			ResourceID: cm.ResourceIDs[i],
			AgentID:    cm.AgentIDs[j],
			PickupTime: cm.PickupTime[i][j],
		})
	}
	return assignments, unmatchedRows
}
