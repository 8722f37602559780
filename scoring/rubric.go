// Package scoring computes the SEO, AEO, GEO and per-model AIO scores from
// an extracted signal set. Everything here is pure arithmetic: identical
// signals and weights always produce identical scores.
package scoring

import (
	"math"

	"github.com/citelens/backend/signals"
	"github.com/citelens/backend/weights"
)

// RubricScores bundles the three checklist rubric scores of one analysis.
type RubricScores struct {
	SEO float64 `json:"seo"`
	AEO float64 `json:"aeo"`
	GEO float64 `json:"geo"`
}

// Average returns the plain mean of the three rubric scores.
func (r RubricScores) Average() float64 {
	return (r.SEO + r.AEO + r.GEO) / 3
}

// check is one weighted checklist entry. Factor names the weight key in the
// rubric's weight map; Pass decides whether the weight is awarded.
type check struct {
	factor string
	pass   func(s signals.SignalSet) bool
}

var seoChecks = []check{
	{"title_length", func(s signals.SignalSet) bool { return s.HasTitle && s.TitleLength >= 30 && s.TitleLength <= 60 }},
	{"meta_description", func(s signals.SignalSet) bool {
		return s.HasMetaDescription && s.MetaDescriptionLength >= 120 && s.MetaDescriptionLength <= 160
	}},
	{"single_h1", func(s signals.SignalSet) bool { return s.H1Count == 1 }},
	{"heading_hierarchy", func(s signals.SignalSet) bool { return s.H2Count > 0 }},
	{"word_count", func(s signals.SignalSet) bool { return s.WordCount >= 300 }},
	{"image_alt", func(s signals.SignalSet) bool { return s.ImageCount > 0 && s.ImagesWithAlt == s.ImageCount }},
	{"internal_links", func(s signals.SignalSet) bool { return s.InternalLinkCount >= 3 }},
	{"external_links", func(s signals.SignalSet) bool { return s.ExternalLinkCount >= 1 }},
	{"open_graph", func(s signals.SignalSet) bool { return s.HasOpenGraph }},
	{"structured_data", func(s signals.SignalSet) bool { return s.JSONLDCount > 0 }},
	{"images_present", func(s signals.SignalSet) bool { return s.ImageCount > 0 }},
}

var aeoChecks = []check{
	{"question_headings", func(s signals.SignalSet) bool { return s.QuestionHeadingCount >= 1 }},
	{"faq_schema", func(s signals.SignalSet) bool { return s.HasFAQSchema }},
	{"direct_answers", func(s signals.SignalSet) bool {
		return s.ParagraphCount >= 3 && s.AvgParagraphWords >= 20 && s.AvgParagraphWords <= 80
	}},
	{"list_content", func(s signals.SignalSet) bool { return s.ListCount > 0 }},
	{"heading_list_structure", func(s signals.SignalSet) bool { return s.HasHeadingListFlow }},
	{"howto_schema", func(s signals.SignalSet) bool { return s.HasHowToSchema }},
	{"date_visible", func(s signals.SignalSet) bool { return s.HasDateElement }},
	{"scannable_structure", func(s signals.SignalSet) bool { return s.H2Count >= 2 && s.H3Count >= 1 }},
}

var geoChecks = []check{
	{"comprehensive_length", func(s signals.SignalSet) bool { return s.WordCount >= 1500 }},
	{"primary_sources", func(s signals.SignalSet) bool { return s.PrimarySourceLinkCount >= 1 }},
	{"author_attribution", func(s signals.SignalSet) bool { return s.HasAuthor }},
	{"author_credentials", func(s signals.SignalSet) bool { return s.HasAuthorCredentials }},
	{"multimedia", func(s signals.SignalSet) bool { return s.ImageCount > 0 || s.VideoCount > 0 }},
	{"data_tables", func(s signals.SignalSet) bool { return s.TableCount > 0 }},
	{"fresh_date", func(s signals.SignalSet) bool { return s.HasDateElement && s.HasRecentDate }},
	{"update_signal", func(s signals.SignalSet) bool { return s.HasUpdateSignal }},
	{"heading_depth", func(s signals.SignalSet) bool { return s.H2Count >= 3 && s.H3Count >= 2 }},
	{"external_references", func(s signals.SignalSet) bool { return s.ExternalLinkCount >= 3 }},
}

func runChecklist(checks []check, s signals.SignalSet, w weights.Map) float64 {
	total := 0.0
	for _, c := range checks {
		if c.pass(s) {
			total += w[c.factor]
		}
	}
	return total
}

// ScoreSEO computes the traditional search rubric.
func ScoreSEO(s signals.SignalSet, w weights.Map) float64 {
	return clampScore(runChecklist(seoChecks, s, w))
}

// ScoreAEO computes the answer-engine rubric. Evidence density (statistics
// and quotations) contributes a continuous bonus on top of the checklist.
func ScoreAEO(s signals.SignalSet, w weights.Map) float64 {
	score := runChecklist(aeoChecks, s, w)
	score += evidenceBonus(s)
	return clampScore(score)
}

// ScoreGEO computes the generative-engine rubric. Depth is rewarded with a
// tiered word-count bonus after the checklist sum.
func ScoreGEO(s signals.SignalSet, w weights.Map) float64 {
	score := runChecklist(geoChecks, s, w)
	score += wordCountBonus(s.WordCount)
	return clampScore(score)
}

// ScoreRubrics runs all three checklist rubrics.
func ScoreRubrics(s signals.SignalSet, seoW, aeoW, geoW weights.Map) RubricScores {
	return RubricScores{
		SEO: ScoreSEO(s, seoW),
		AEO: ScoreAEO(s, aeoW),
		GEO: ScoreGEO(s, geoW),
	}
}

// evidenceBonus awards up to 10 points for cited statistics and quotations.
func evidenceBonus(s signals.SignalSet) float64 {
	return math.Min(float64(s.StatisticCount)*2, 6) + math.Min(float64(s.QuotationCount)*2, 4)
}

// wordCountBonus is the tiered long-form bonus: 500+, 1000+ and 2000+ words.
func wordCountBonus(words int) float64 {
	switch {
	case words >= 2000:
		return 10
	case words >= 1000:
		return 6
	case words >= 500:
		return 3
	default:
		return 0
	}
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
