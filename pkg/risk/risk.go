// Package risk implements the scoring engine for the lending back office.
//
// Every function here is pure and deterministic (crop yield excepted, which
// takes an injected random source): inputs are pre-loaded entity slices,
// outputs are JSON-serializable assessments. All functions share the same
// shape: base score, factor adjustments, clamp, categorical bucket, and
// human-readable factor/recommendation lists. REST handlers, MCP tools, and
// the OpenAI bridge all call these same functions so the formulas exist
// exactly once.
package risk

// Risk level buckets.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Time horizons for default probability projections.
const (
	HorizonShortTerm  = "short_term"
	HorizonMediumTerm = "medium_term"
	HorizonLongTerm   = "long_term"
)

// horizonMultipliers scale the medium-term default probability.
var horizonMultipliers = map[string]float64{
	HorizonShortTerm:  0.7,
	HorizonMediumTerm: 1.0,
	HorizonLongTerm:   1.3,
}

// ClampScore bounds a 0-100 risk score.
func ClampScore(score float64) float64 {
	return clamp(score, 0, 100)
}

// ClampProbability bounds a probability to [0, 1].
func ClampProbability(p float64) float64 {
	return clamp(p, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LevelForScore buckets a 0-100 score: >70 high, >40 medium, else low.
func LevelForScore(score float64) string {
	switch {
	case score > 70:
		return LevelHigh
	case score > 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// HorizonMultiplier returns the probability multiplier for a time horizon.
// Unknown horizons fall back to medium-term.
func HorizonMultiplier(horizon string) float64 {
	if m, ok := horizonMultipliers[horizon]; ok {
		return m
	}
	return horizonMultipliers[HorizonMediumTerm]
}
