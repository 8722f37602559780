package learning

import (
	"math"

	"github.com/citelens/backend/weights"
)

// Strategy proposes a new AIO weight map from the current one and the
// rubric rewards of recent analyses. The update rule is deliberately
// pluggable; consumers only ever see the versions a strategy produces
// through the store.
type Strategy interface {
	Propose(current weights.Map, rewards map[weights.RubricType]Reward) (weights.Map, bool)
}

// NudgeStrategy shifts each model's weight mass toward the rubric with the
// strongest positive reward by a small bounded step, then renormalizes the
// group. It never moves a weight below the floor, so no rubric is ever
// silenced entirely.
type NudgeStrategy struct {
	// Step scales how far weight moves per proposal, multiplied by the
	// winning rubric's reward. Zero uses the default.
	Step float64
	// Floor is the minimum any single weight may reach. Zero uses the default.
	Floor float64
}

const (
	defaultNudgeStep  = 0.05
	defaultNudgeFloor = 0.10
)

// Propose implements Strategy.
func (n NudgeStrategy) Propose(current weights.Map, rewards map[weights.RubricType]Reward) (weights.Map, bool) {
	step := n.Step
	if step <= 0 {
		step = defaultNudgeStep
	}
	floor := n.Floor
	if floor <= 0 {
		floor = defaultNudgeFloor
	}

	winner, winnerReward := bestRubric(rewards)
	if winner == "" || winnerReward <= 0 {
		return nil, false
	}

	proposed := current.Clone()
	changed := false
	for _, model := range weights.Models {
		keys := weights.GroupKeys(model)
		winnerKey := keyFor(model, winner)
		if winnerKey == "" {
			continue
		}

		shift := step * winnerReward
		for _, k := range keys {
			if k == winnerKey {
				continue
			}
			take := math.Min(shift/2, math.Max(0, proposed[k]-floor))
			if take <= 0 {
				continue
			}
			proposed[k] -= take
			proposed[winnerKey] += take
			changed = true
		}

		// Renormalize the group so downstream consumers always see unit sums.
		sum := proposed[keys[0]] + proposed[keys[1]] + proposed[keys[2]]
		if sum > 0 {
			for _, k := range keys {
				proposed[k] = proposed[k] / sum
			}
		}
	}
	if !changed {
		return nil, false
	}
	return proposed, true
}

func bestRubric(rewards map[weights.RubricType]Reward) (weights.RubricType, float64) {
	best := weights.RubricType("")
	bestReward := math.Inf(-1)
	// Fixed iteration order keeps proposals deterministic.
	for _, rubric := range []weights.RubricType{weights.RubricSEO, weights.RubricAEO, weights.RubricGEO} {
		r, ok := rewards[rubric]
		if !ok {
			continue
		}
		if r.Reward > bestReward {
			best = rubric
			bestReward = r.Reward
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestReward
}

func keyFor(model weights.Model, rubric weights.RubricType) string {
	switch rubric {
	case weights.RubricSEO:
		return weights.SEOKey(model)
	case weights.RubricAEO:
		return weights.AEOKey(model)
	case weights.RubricGEO:
		return weights.GEOKey(model)
	default:
		return ""
	}
}
