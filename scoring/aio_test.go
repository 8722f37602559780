package scoring

import (
	"math"
	"testing"

	"github.com/citelens/backend/signals"
	"github.com/citelens/backend/weights"
)

func TestScoreModelsCoversEveryModel(t *testing.T) {
	rubric := RubricScores{SEO: 80, AEO: 60, GEO: 70}
	aio := weights.Defaults(weights.RubricAIO, false)

	models := ScoreModels(signals.SignalSet{}, signals.ProfileBlog, rubric, aio)

	if len(models) != len(weights.Models) {
		t.Fatalf("Expected %d model scores, got %d", len(weights.Models), len(models))
	}
	for i, m := range models {
		if m.Model != weights.Models[i] {
			t.Errorf("Model order broken at %d: got %s", i, m.Model)
		}
		if m.Score < 0 || m.Score > 100 || math.IsNaN(m.Score) {
			t.Errorf("%s score out of range: %v", m.Model, m.Score)
		}
		if m.Score != math.Round(m.Base+m.Bonus) {
			t.Errorf("%s score %v does not match base %v + bonus %v", m.Model, m.Score, m.Base, m.Bonus)
		}
	}
}

func TestScoreModelsClampsAt100(t *testing.T) {
	rubric := RubricScores{SEO: 100, AEO: 100, GEO: 100}
	aio := weights.Defaults(weights.RubricAIO, false)

	models := ScoreModels(richSignals(), signals.ProfileBlog, rubric, aio)

	for _, m := range models {
		if m.Score > 100 {
			t.Errorf("%s score should clamp at 100, got %v", m.Model, m.Score)
		}
	}
}

func TestScoreModelsWeightsBlendBase(t *testing.T) {
	rubric := RubricScores{SEO: 90, AEO: 30, GEO: 60}
	aio := weights.Map{}
	for _, m := range weights.Models {
		aio[weights.SEOKey(m)] = 1
		aio[weights.AEOKey(m)] = 0
		aio[weights.GEOKey(m)] = 0
	}

	models := ScoreModels(signals.SignalSet{}, signals.ProfileBlog, rubric, aio)
	for _, m := range models {
		if m.Base != 90 {
			t.Errorf("%s base should equal the SEO score under a pure SEO weight, got %v", m.Model, m.Base)
		}
	}
}

func TestAverageModelScore(t *testing.T) {
	models := []ModelScore{{Score: 40}, {Score: 60}, {Score: 80}}
	if avg := AverageModelScore(models); avg != 60 {
		t.Errorf("Expected average 60, got %v", avg)
	}
	if avg := AverageModelScore(nil); avg != 0 {
		t.Errorf("Empty slice should average 0, got %v", avg)
	}
}

func TestVisibilityBlend(t *testing.T) {
	models := []ModelScore{{Score: 50}, {Score: 50}, {Score: 50}, {Score: 50}, {Score: 50}}
	rubric := RubricScores{SEO: 50, AEO: 50, GEO: 50}

	v := Visibility(models, rubric, signals.SignalSet{})

	if v.AIOAverage != 50 {
		t.Errorf("Expected AIO average 50, got %v", v.AIOAverage)
	}
	if v.StructuredData != 0 || v.Freshness != 0 {
		t.Errorf("Bare page should have 0 structured/freshness, got %v/%v", v.StructuredData, v.Freshness)
	}
	if v.Quality != 25 {
		t.Errorf("Expected quality 25 (half the rubric average), got %v", v.Quality)
	}
	want := math.Round(0.40*50 + 0.20*25)
	if v.Score != want {
		t.Errorf("Expected blended score %v, got %v", want, v.Score)
	}
}

func TestVisibilityStaysInRange(t *testing.T) {
	models := []ModelScore{{Score: 100}, {Score: 100}, {Score: 100}, {Score: 100}, {Score: 100}}
	rubric := RubricScores{SEO: 100, AEO: 100, GEO: 100}

	v := Visibility(models, rubric, richSignals())
	if v.Score > 100 || v.Score < 0 {
		t.Errorf("Visibility out of range: %v", v.Score)
	}
	if v.StructuredData > 100 || v.Quality > 100 || v.Freshness > 100 {
		t.Errorf("Sub-scores out of range: %+v", v)
	}
}

func TestFreshnessScoreComponents(t *testing.T) {
	full := signals.SignalSet{HasDateElement: true, HasRecentDate: true, HasUpdateSignal: true}
	if got := freshnessScore(full); got != 75 {
		t.Errorf("Expected 75, got %v", got)
	}
	if got := freshnessScore(signals.SignalSet{HasDateElement: true}); got != 30 {
		t.Errorf("Expected 30, got %v", got)
	}
}
