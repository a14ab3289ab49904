package compress

// dpTableCap bounds the 0/1 knapsack table width so a pathological
// local_budget never makes one compress call quadratic in practice (§4.6
// step 3: "DP table width is capped... over-cap falls back to greedy").
const dpTableCap = 10_000

// selectBlocks picks the subset of blocks maximizing total score subject to
// the sum of weights (token estimates) not exceeding budget, returning kept
// indices in original order. Falls back to a greedy descending-score
// selection when budget exceeds dpTableCap.
func selectBlocks(weights, scores []int, budget int) []int {
	n := len(weights)
	if n == 0 || budget <= 0 {
		return nil
	}
	if budget > dpTableCap {
		return greedySelect(weights, scores, budget)
	}

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, budget+1)
	}
	for i := 1; i <= n; i++ {
		wi, si := weights[i-1], scores[i-1]
		for w := 0; w <= budget; w++ {
			dp[i][w] = dp[i-1][w]
			if wi <= w {
				if v := dp[i-1][w-wi] + si; v > dp[i][w] {
					dp[i][w] = v
				}
			}
		}
	}

	var kept []int
	w := budget
	for i := n; i >= 1; i-- {
		if dp[i][w] != dp[i-1][w] {
			kept = append(kept, i-1)
			w -= weights[i-1]
		}
	}
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return kept
}

// greedySelect orders blocks by descending score (ties by original
// position, i.e. earlier index wins) and takes each while it still fits.
func greedySelect(weights, scores []int, budget int) []int {
	idx := make([]int, len(weights))
	for i := range idx {
		idx[i] = i
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && scores[idx[j]] > scores[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}

	remaining := budget
	keptSet := make(map[int]bool, len(idx))
	for _, i := range idx {
		if weights[i] <= remaining {
			keptSet[i] = true
			remaining -= weights[i]
		}
	}

	var kept []int
	for i := range weights {
		if keptSet[i] {
			kept = append(kept, i)
		}
	}
	return kept
}
