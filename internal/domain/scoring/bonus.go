package scoring

// Default bonus bounds.
const (
	// DefaultBonusCap bounds the pre-boost bonus value.
	DefaultBonusCap = 1000
	// DefaultOverCapBoost multiplies the capped bonus when the raw value
	// reached the cap, rewarding sustained high performers beyond the
	// nominal ceiling.
	DefaultOverCapBoost = 1.5
)

// bonusPoints combines per-skill weights and completion counts with the
// task's bonus headroom and the submission's proof strength.
//
// The raw value is the weighted average of weight*count across all skill
// categories, times maxBonus, plus proofStrength. The raw value is clamped
// to cap first; if the pre-clamp value reached the cap, the capped result
// is then multiplied by boost. The order matters: clamp-then-boost means a
// capped-out user lands at exactly cap*boost, never above.
func bonusPoints(maxBonus float64, weights, counts []float64, proofStrength float64, cap, boost float64) float64 {
	var totalWeight, weightedSum float64
	for i, w := range weights {
		totalWeight += w
		if i < len(counts) {
			weightedSum += w * counts[i]
		}
	}

	var avg float64
	if totalWeight > 0 {
		avg = weightedSum / totalWeight
	}

	raw := avg*maxBonus + proofStrength
	bonus := raw
	if bonus > cap {
		bonus = cap
	}
	if raw >= cap {
		bonus *= boost
	}
	if bonus < 0 {
		bonus = 0
	}
	return bonus
}
