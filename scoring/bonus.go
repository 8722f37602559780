package scoring

import (
	"math"

	"github.com/citelens/backend/signals"
	"github.com/citelens/backend/weights"
)

// Bonus caps. Each heuristic clamps its own result, so no combination of
// passing checks can leak past the cap at blend time.
const (
	bonusCapDefault  = 40.0
	bonusCapEnhanced = 50.0
)

// bonusFunc is one model's citation-bonus heuristic over the signal set.
type bonusFunc func(s signals.SignalSet) float64

// Heuristic tables per model and profile. Grok and Gemini have no enhanced
// variant; general-website pages score them with the base heuristic.
var (
	baseBonus = map[weights.Model]bonusFunc{
		weights.ModelChatGPT:    chatgptBonus,
		weights.ModelPerplexity: perplexityBonus,
		weights.ModelClaude:     claudeBonus,
		weights.ModelGemini:     geminiBonus,
		weights.ModelGrok:       grokBonus,
	}

	enhancedBonus = map[weights.Model]bonusFunc{
		weights.ModelChatGPT:    chatgptEnhancedBonus,
		weights.ModelPerplexity: perplexityEnhancedBonus,
		weights.ModelClaude:     claudeEnhancedBonus,
	}
)

// modelBonus dispatches to the right heuristic for the model and profile.
func modelBonus(model weights.Model, profile signals.ContentProfile, s signals.SignalSet) float64 {
	if profile == signals.ProfileGeneralSite {
		if fn, ok := enhancedBonus[model]; ok {
			return fn(s)
		}
	}
	return baseBonus[model](s)
}

// ChatGPT favors FAQ markup and well-attributed article schema.
func chatgptBonus(s signals.SignalSet) float64 {
	bonus := 0.0
	if s.HasFAQSchema {
		bonus += 12
	}
	if s.JSONLDCount > 0 {
		bonus += 10
	}
	if (s.HasArticleSchema || s.HasBlogPostingSchema) && s.HasAuthorCredentials {
		bonus += 8
	}
	if s.QuestionHeadingCount >= 3 {
		bonus += 5
	}
	if s.ListCount > 0 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapDefault)
}

func chatgptEnhancedBonus(s signals.SignalSet) float64 {
	bonus := chatgptBonus(s)
	if s.HasOrganizationSchema {
		bonus += 5
	}
	if s.HasOpenGraph {
		bonus += 5
	}
	return math.Min(bonus, bonusCapEnhanced)
}

// Perplexity favors freshness and scannable hierarchy.
func perplexityBonus(s signals.SignalSet) float64 {
	bonus := 0.0
	if s.HasRecentDate && s.HasDateElement {
		bonus += 15
	}
	if s.HasHeadingListFlow {
		bonus += 12
	}
	if s.StatisticCount >= 3 {
		bonus += 8
	}
	if s.PrimarySourceLinkCount > 0 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapDefault)
}

func perplexityEnhancedBonus(s signals.SignalSet) float64 {
	bonus := perplexityBonus(s)
	if s.HasUpdateSignal {
		bonus += 5
	}
	if s.ExternalLinkCount >= 5 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapEnhanced)
}

// Claude favors primary sources and long, well-attributed prose.
func claudeBonus(s signals.SignalSet) float64 {
	bonus := 0.0
	if s.PrimarySourceLinkCount > 0 {
		bonus += 12
	}
	if s.WordCount >= 2000 {
		bonus += 10
	}
	if s.QuotationCount >= 2 {
		bonus += 8
	}
	if s.HasAuthorCredentials {
		bonus += 5
	}
	if s.H2Count >= 2 && s.H3Count >= 1 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapDefault)
}

func claudeEnhancedBonus(s signals.SignalSet) float64 {
	bonus := claudeBonus(s)
	if s.HasPersonSchema {
		bonus += 5
	}
	if s.TableCount > 0 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapEnhanced)
}

// Gemini favors rich media and social metadata.
func geminiBonus(s signals.SignalSet) float64 {
	bonus := 0.0
	if s.ImageCount > 0 && s.ImagesWithAlt == s.ImageCount {
		bonus += 10
	}
	if s.VideoCount > 0 {
		bonus += 10
	}
	if s.TableCount > 0 {
		bonus += 8
	}
	if s.HasOpenGraph {
		bonus += 7
	}
	if s.ListCount > 0 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapDefault)
}

// Grok favors recency and hard numbers.
func grokBonus(s signals.SignalSet) float64 {
	bonus := 0.0
	if s.HasRecentDate {
		bonus += 12
	}
	if s.StatisticCount >= 2 {
		bonus += 10
	}
	if s.ExternalLinkCount >= 5 {
		bonus += 8
	}
	if s.ParagraphCount > 0 && s.AvgParagraphWords <= 80 {
		bonus += 5
	}
	if s.QuestionHeadingCount > 0 {
		bonus += 5
	}
	return math.Min(bonus, bonusCapDefault)
}
