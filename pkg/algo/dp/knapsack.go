package dp

// Knapsack selects the largest number of items whose weights sum to at most
// capacity (0/1 knapsack with unit item values). It returns the count and
// the indices of one optimal selection in ascending order. Items with a
// negative weight are never selected.
func Knapsack(weights []int, capacity int) (int, []int) {
	if capacity < 0 {
		return 0, nil
	}
	n := len(weights)
	best := make([][]int, n+1)
	for i := range best {
		best[i] = make([]int, capacity+1)
	}
	for i := 1; i <= n; i++ {
		w := weights[i-1]
		for t := 0; t <= capacity; t++ {
			best[i][t] = best[i-1][t]
			if w >= 0 && w <= t && best[i-1][t-w]+1 > best[i][t] {
				best[i][t] = best[i-1][t-w] + 1
			}
		}
	}

	var chosen []int
	t := capacity
	for i := n; i > 0; i-- {
		if best[i][t] != best[i-1][t] {
			chosen = append(chosen, i-1)
			t -= weights[i-1]
		}
	}
	for l, r := 0, len(chosen)-1; l < r; l, r = l+1, r-1 {
		chosen[l], chosen[r] = chosen[r], chosen[l]
	}
	return best[n][capacity], chosen
}
