package matcher

// ClampConfidence restricts a confidence value to the range [0, 1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ApplyDelta combines a base confidence with a rule delta and clamps the
// result. Scoring applies this after every rule, so confidence never
// leaves [0, 1] once scoring has begun.
func ApplyDelta(base, delta float64) float64 {
	return ClampConfidence(base + delta)
}
