package scoring

import (
	"math"

	"github.com/citelens/backend/signals"
)

// VisibilityScore is the single aggregate AI-visibility number with its
// component sub-scores broken out.
type VisibilityScore struct {
	Score          float64 `json:"score"`
	AIOAverage     float64 `json:"aioAverage"`
	StructuredData float64 `json:"structuredData"`
	Quality        float64 `json:"quality"`
	Freshness      float64 `json:"freshness"`
}

// Visibility blend weights.
const (
	visibilityAIOWeight        = 0.40
	visibilityStructuredWeight = 0.25
	visibilityQualityWeight    = 0.20
	visibilityFreshnessWeight  = 0.15
)

// Visibility aggregates the AIO average, structured-data quality, content
// quality and freshness into one 0-100 score.
func Visibility(models []ModelScore, rubric RubricScores, s signals.SignalSet) VisibilityScore {
	aioAvg := AverageModelScore(models)
	structured := structuredDataScore(s)
	quality := qualityScore(rubric, s)
	freshness := freshnessScore(s)

	score := math.Round(visibilityAIOWeight*aioAvg +
		visibilityStructuredWeight*structured +
		visibilityQualityWeight*quality +
		visibilityFreshnessWeight*freshness)

	return VisibilityScore{
		Score:          clampScore(score),
		AIOAverage:     aioAvg,
		StructuredData: structured,
		Quality:        quality,
		Freshness:      freshness,
	}
}

// structuredDataScore rewards presence and richness of JSON-LD. FAQPage
// outranks article markup which outranks a generic block; organization,
// person and OpenGraph metadata add on top.
func structuredDataScore(s signals.SignalSet) float64 {
	score := 0.0
	switch {
	case s.HasFAQSchema:
		score = 40
	case s.HasArticleSchema || s.HasBlogPostingSchema:
		score = 30
	case s.JSONLDCount > 0:
		score = 15
	}
	if s.HasHowToSchema {
		score += 10
	}
	if s.HasOrganizationSchema {
		score += 10
	}
	if s.HasPersonSchema {
		score += 10
	}
	if s.HasOpenGraph {
		score += 10
	}
	if s.JSONLDCount >= 2 {
		score += 10
	}
	return math.Min(100, score)
}

// qualityScore blends half of the rubric average with the long-form bonus
// and an E-E-A-T bonus for attributed, credentialed, dated content.
func qualityScore(rubric RubricScores, s signals.SignalSet) float64 {
	score := rubric.Average() * 0.5
	switch {
	case s.WordCount >= 2000:
		score += 30
	case s.WordCount >= 1000:
		score += 20
	case s.WordCount >= 500:
		score += 10
	}
	if s.HasAuthor && s.HasAuthorCredentials && s.HasDateElement {
		score += 20
	}
	return math.Min(100, score)
}

// freshnessScore sums fixed points for explicit dates and recency language.
func freshnessScore(s signals.SignalSet) float64 {
	score := 0.0
	if s.HasDateElement {
		score += 30
	}
	if s.HasRecentDate {
		score += 25
	}
	if s.HasUpdateSignal {
		score += 20
	}
	return math.Min(100, score)
}
