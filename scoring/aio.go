package scoring

import (
	"math"

	"github.com/citelens/backend/signals"
	"github.com/citelens/backend/weights"
)

// ModelScore is one assistant's citation-probability score with its
// weighted base and capped bonus broken out.
type ModelScore struct {
	Model weights.Model `json:"model"`
	Score float64       `json:"score"`
	Base  float64       `json:"base"`
	Bonus float64       `json:"bonus"`
}

// ScoreModels computes the AIO score for every assistant: the rubric blend
// under the model's normalized weight group plus the model's capped bonus
// heuristic, rounded and clamped to [0,100].
func ScoreModels(s signals.SignalSet, profile signals.ContentProfile, rubric RubricScores, aio weights.Map) []ModelScore {
	out := make([]ModelScore, 0, len(weights.Models))
	for _, model := range weights.Models {
		base := rubric.SEO*aio[weights.SEOKey(model)] +
			rubric.AEO*aio[weights.AEOKey(model)] +
			rubric.GEO*aio[weights.GEOKey(model)]
		bonus := modelBonus(model, profile, s)
		score := math.Min(100, math.Round(base+bonus))
		out = append(out, ModelScore{
			Model: model,
			Score: math.Max(0, score),
			Base:  base,
			Bonus: bonus,
		})
	}
	return out
}

// AverageModelScore returns the mean AIO score across assistants.
func AverageModelScore(models []ModelScore) float64 {
	if len(models) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range models {
		sum += m.Score
	}
	return sum / float64(len(models))
}
