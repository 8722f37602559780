package learning

import (
	"math"
	"testing"

	"github.com/citelens/backend/weights"
)

func TestNudgeStrategyShiftsTowardWinner(t *testing.T) {
	current := weights.Defaults(weights.RubricAIO, false)
	rewards := map[weights.RubricType]Reward{
		weights.RubricSEO: {Reward: 0.1},
		weights.RubricAEO: {Reward: 0.8},
		weights.RubricGEO: {Reward: -0.2},
	}

	proposed, changed := NudgeStrategy{}.Propose(current, rewards)

	if !changed {
		t.Fatal("Expected a proposal for a positive winning reward")
	}
	for _, model := range weights.Models {
		if proposed[weights.AEOKey(model)] <= current[weights.AEOKey(model)] {
			t.Errorf("%s AEO weight should have grown: %v -> %v",
				model, current[weights.AEOKey(model)], proposed[weights.AEOKey(model)])
		}
	}
}

func TestNudgeStrategyRenormalizesGroups(t *testing.T) {
	current := weights.Defaults(weights.RubricAIO, false)
	rewards := map[weights.RubricType]Reward{
		weights.RubricGEO: {Reward: 1.0},
	}

	proposed, changed := NudgeStrategy{}.Propose(current, rewards)
	if !changed {
		t.Fatal("Expected a proposal")
	}

	for _, model := range weights.Models {
		keys := weights.GroupKeys(model)
		sum := proposed[keys[0]] + proposed[keys[1]] + proposed[keys[2]]
		if math.Abs(sum-1.0) >= 1e-9 {
			t.Errorf("Group %s not renormalized: sum %v", model, sum)
		}
	}
}

func TestNudgeStrategyIgnoresNonPositiveRewards(t *testing.T) {
	current := weights.Defaults(weights.RubricAIO, false)
	rewards := map[weights.RubricType]Reward{
		weights.RubricSEO: {Reward: -0.4},
		weights.RubricAEO: {Reward: 0},
		weights.RubricGEO: {Reward: -0.1},
	}

	if _, changed := (NudgeStrategy{}).Propose(current, rewards); changed {
		t.Error("No proposal should be made when no reward is positive")
	}
}

func TestNudgeStrategyRespectsFloor(t *testing.T) {
	// Both losing weights already sit at the floor, so nothing can move.
	current := weights.Map{}
	for _, model := range weights.Models {
		current[weights.SEOKey(model)] = 0.80
		current[weights.AEOKey(model)] = 0.10
		current[weights.GEOKey(model)] = 0.10
	}
	rewards := map[weights.RubricType]Reward{
		weights.RubricSEO: {Reward: 1.0},
	}

	if _, changed := (NudgeStrategy{}).Propose(current, rewards); changed {
		t.Error("Weights at the floor must not move")
	}
}

func TestNudgeStrategyDoesNotMutateInput(t *testing.T) {
	current := weights.Defaults(weights.RubricAIO, false)
	snapshot := current.Clone()
	rewards := map[weights.RubricType]Reward{
		weights.RubricAEO: {Reward: 0.9},
	}

	NudgeStrategy{}.Propose(current, rewards)

	for key, want := range snapshot {
		if current[key] != want {
			t.Errorf("Input map mutated at %s: %v != %v", key, current[key], want)
		}
	}
}

func TestNudgeStrategyEmptyRewards(t *testing.T) {
	current := weights.Defaults(weights.RubricAIO, false)
	if _, changed := (NudgeStrategy{}).Propose(current, nil); changed {
		t.Error("Empty reward map should never produce a proposal")
	}
}
