// Package insights turns scores and signals into severity-tagged,
// human-readable findings. The rule lists are fixed and evaluated in
// order, so identical inputs always yield the same insight sequence.
package insights

import (
	"github.com/citelens/backend/scoring"
	"github.com/citelens/backend/signals"
)

// Severity grades how urgent an insight is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is one generated finding. Stateless; rebuilt every analysis.
type Insight struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
}

// Rubric thresholds below which the per-rubric rules fire.
const (
	seoThreshold  = 70.0
	aeoThreshold  = 70.0
	geoThreshold  = 70.0
	goodThreshold = 80.0
)

type rule struct {
	severity Severity
	message  string
	applies  func(s signals.SignalSet) bool
}

var seoRules = []rule{
	{SeverityHigh, "The page has no H1 heading; add exactly one that states the topic.", func(s signals.SignalSet) bool { return s.H1Count == 0 }},
	{SeverityMedium, "Multiple H1 headings dilute the topic; keep a single H1.", func(s signals.SignalSet) bool { return s.H1Count > 1 }},
	{SeverityHigh, "The title tag is missing.", func(s signals.SignalSet) bool { return !s.HasTitle }},
	{SeverityMedium, "The title length is outside the 30-60 character range.", func(s signals.SignalSet) bool { return s.HasTitle && (s.TitleLength < 30 || s.TitleLength > 60) }},
	{SeverityMedium, "Add a meta description of 120-160 characters.", func(s signals.SignalSet) bool { return !s.HasMetaDescription || s.MetaDescriptionLength < 120 || s.MetaDescriptionLength > 160 }},
	{SeverityMedium, "Some images are missing alt text.", func(s signals.SignalSet) bool { return s.ImageCount > 0 && s.ImagesWithAlt < s.ImageCount }},
	{SeverityLow, "Add Open Graph tags so shared links render rich previews.", func(s signals.SignalSet) bool { return !s.HasOpenGraph }},
}

var aeoRules = []rule{
	{SeverityMedium, "No question-form headings found; answer engines match questions to headings.", func(s signals.SignalSet) bool { return s.QuestionHeadingCount == 0 }},
	{SeverityLow, "Add FAQPage structured data to make Q&A content machine-readable.", func(s signals.SignalSet) bool { return !s.HasFAQSchema }},
	{SeverityMedium, "Break content into lists; none were found.", func(s signals.SignalSet) bool { return s.ListCount == 0 }},
	{SeverityLow, "Paragraphs run long; lead each section with a concise direct answer.", func(s signals.SignalSet) bool { return s.AvgParagraphWords > 80 }},
}

var geoRules = []rule{
	{SeverityMedium, "Content is thin for generative engines; aim for 1,500+ words of depth.", func(s signals.SignalSet) bool { return s.WordCount < 1500 }},
	{SeverityHigh, "No primary sources cited; link to research, government or academic pages.", func(s signals.SignalSet) bool { return s.PrimarySourceLinkCount == 0 }},
	{SeverityMedium, "No author attribution; add a byline with credentials.", func(s signals.SignalSet) bool { return !s.HasAuthor }},
	{SeverityLow, "No visible publish or update date.", func(s signals.SignalSet) bool { return !s.HasDateElement }},
}

// Generate evaluates the rule lists for each rubric scoring below its
// threshold and appends one positive insight when every rubric is strong.
func Generate(rubric scoring.RubricScores, s signals.SignalSet) []Insight {
	var out []Insight
	if rubric.SEO < seoThreshold {
		out = appendMatches(out, "seo", seoRules, s)
	}
	if rubric.AEO < aeoThreshold {
		out = appendMatches(out, "aeo", aeoRules, s)
	}
	if rubric.GEO < geoThreshold {
		out = appendMatches(out, "geo", geoRules, s)
	}
	if rubric.SEO >= goodThreshold && rubric.AEO >= goodThreshold && rubric.GEO >= goodThreshold {
		out = append(out, Insight{
			Severity: SeverityLow,
			Category: "overall",
			Message:  "All rubrics score 80 or above; the page is well positioned for AI citation.",
		})
	}
	return out
}

func appendMatches(out []Insight, category string, rules []rule, s signals.SignalSet) []Insight {
	for _, r := range rules {
		if r.applies(s) {
			out = append(out, Insight{Severity: r.severity, Category: category, Message: r.message})
		}
	}
	return out
}

// Recommendations flattens insights into plain recommendation strings,
// highest severity first, preserving rule order within a severity.
func Recommendations(list []Insight) []string {
	var out []string
	for _, sev := range []Severity{SeverityHigh, SeverityMedium, SeverityLow} {
		for _, ins := range list {
			if ins.Severity == sev {
				out = append(out, ins.Message)
			}
		}
	}
	return out
}
