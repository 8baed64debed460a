package risk

// Score aggregates triggered signal weights, clamped to [0,1]. Adding a
// signal can never lower the score.
func Score(signals []Signal) float64 {
	total := 0.0
	for _, s := range signals {
		total += s.Weight
	}
	if total > 1 {
		return 1
	}
	return total
}

// NeedsIntervention decides whether the triggered set warrants an
// intervention: either the aggregate crosses the threshold, or any single
// signal is acute. The OR-clause is deliberate - one high/critical signal
// must not be diluted away by averaging against several mild ones.
func NeedsIntervention(score float64, signals []Signal, threshold float64) bool {
	if score >= threshold {
		return true
	}
	for _, s := range signals {
		if s.IsAcute() {
			return true
		}
	}
	return false
}
