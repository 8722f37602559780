// Package learning converts observed score outcomes into bounded reward
// signals and maintains the versioned weight store they feed.
package learning

import "math"

// RewardMetrics records the inputs behind one reward.
type RewardMetrics struct {
	CurrentScore        float64  `json:"currentScore"`
	PreviousScore       *float64 `json:"previousScore,omitempty"`
	Improvement         float64  `json:"improvement"`         // percent vs previous
	Benchmark           float64  `json:"benchmark"`
	BenchmarkComparison float64  `json:"benchmarkComparison"` // percent vs benchmark
}

// Reward is the bounded [-1,1] learning signal for one rubric outcome.
type Reward struct {
	Score   float64       `json:"score"`
	Reward  float64       `json:"reward"`
	Metrics RewardMetrics `json:"metrics"`
}

// DefaultBenchmark is used when no historical scores exist yet.
const DefaultBenchmark = 50.0

// CalculateReward combines three contributions: the absolute score tier,
// improvement over the previous score, and comparison against the rolling
// benchmark, clamped to [-1,1].
func CalculateReward(current float64, previous *float64, benchmark float64) Reward {
	if benchmark <= 0 {
		benchmark = DefaultBenchmark
	}

	reward := levelContribution(current)

	metrics := RewardMetrics{
		CurrentScore:  current,
		PreviousScore: previous,
		Benchmark:     benchmark,
	}

	if previous != nil && *previous > 0 {
		metrics.Improvement = (current - *previous) / *previous * 100
		reward += tierContribution(metrics.Improvement)
	}

	metrics.BenchmarkComparison = (current - benchmark) / benchmark * 100
	reward += tierContribution(metrics.BenchmarkComparison)

	return Reward{
		Score:   current,
		Reward:  math.Max(-1, math.Min(1, reward)),
		Metrics: metrics,
	}
}

// levelContribution maps the absolute score to its four-tier contribution:
// excellent, good, fair, poor.
func levelContribution(score float64) float64 {
	switch {
	case score >= 80:
		return 0.4
	case score >= 60:
		return 0.2
	case score >= 40:
		return 0.0
	default:
		return -0.2
	}
}

// tierContribution maps a percentage delta to the shared tiered scale.
func tierContribution(pct float64) float64 {
	switch {
	case pct >= 10:
		return 0.3
	case pct >= 5:
		return 0.15
	case pct > 0:
		return 0.05
	case pct <= -10:
		return -0.3
	case pct <= -5:
		return -0.15
	case pct < 0:
		return -0.05
	default:
		return 0.0
	}
}
